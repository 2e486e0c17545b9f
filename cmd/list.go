package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	apperrors "github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/parser"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/search"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

// List command flags.
var (
	listFlagView   string
	listFlagDate   string
	listFlagQuery  string
	listFlagExpand bool

	calendarFlagDate   string
	calendarFlagExpand bool
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List events in a week, a month or all of them",
	Long: `List events, optionally narrowed by a search query.

The view selects the date window: the Sunday-first week or the month that
holds --date, or every event with --view all. The query matches title,
description and location, ignoring case.

Examples:
  eventcal list
  eventcal list --view month --date 2024-07-01
  eventcal list --view all --query 회의
  eventcal list --view week --date +7d --expand`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// searchCmd searches every event.
var searchCmd = &cobra.Command{
	Use:     "search QUERY",
	Aliases: []string{"find"},
	Short:   "Search all events by title, description or location",
	Args:    cobra.ExactArgs(1),
	RunE:    runSearch,
}

// weekCmd draws the week grid.
var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the week calendar",
	Long: `Draw the Sunday-first week holding --date with each day's events.
Holidays are shown in their day cell and events that were already notified
carry a bell.

Examples:
  eventcal week
  eventcal week --date "next monday"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalendar(search.ViewWeek)
	},
}

// monthCmd draws the month grid.
var monthCmd = &cobra.Command{
	Use:   "month",
	Short: "Show the month calendar",
	Long: `Draw the month holding --date as a Sunday-first grid.

Examples:
  eventcal month
  eventcal month --date 2024-08-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCalendar(search.ViewMonth)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFlagView, "view", "v", "", "View: week, month, all (default from config)")
	listCmd.Flags().StringVarP(&listFlagDate, "date", "d", "", "Any date inside the week or month")
	listCmd.Flags().StringVarP(&listFlagQuery, "query", "q", "", "Search term")
	listCmd.Flags().BoolVarP(&listFlagExpand, "expand", "x", false, "Expand repeating events into occurrences")
	listCmd.RegisterFlagCompletionFunc("view", completeFixed("week", "month", "all"))

	for _, c := range []*cobra.Command{weekCmd, monthCmd} {
		c.Flags().StringVarP(&calendarFlagDate, "date", "d", "", "Any date inside the week or month")
		c.Flags().BoolVarP(&calendarFlagExpand, "expand", "x", false, "Expand repeating events into occurrences")
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(monthCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	viewName := listFlagView
	if viewName == "" {
		viewName = ctx.Config.DefaultView
	}
	view, err := search.ParseViewMode(viewName)
	if err != nil {
		return apperrors.NewUserErrorWithField("view", viewName, err.Error(), "").Because(apperrors.ErrInvalidView)
	}
	anchor, err := parser.ParseDate(listFlagDate, ctx.Now())
	if err != nil {
		return err
	}

	events, err := ctx.ListEventsAround(anchor, listFlagExpand)
	if err != nil {
		return err
	}
	storage.SortEvents(events)
	filtered := search.Filtered(events, listFlagQuery, anchor, view)
	logging.DebugLog("list events", logging.KeyView, view, logging.KeyDate, dateutil.FormatDate(anchor),
		logging.KeyQuery, listFlagQuery, logging.KeyCount, len(filtered))

	return printEvents(output.EventsResponse{
		View:  string(view),
		Label: viewLabel(anchor, view),
		Query: listFlagQuery,
	}, filtered)
}

func runSearch(cmd *cobra.Command, args []string) error {
	events, err := ctx.Events.List()
	if err != nil {
		return err
	}
	return printEvents(output.EventsResponse{View: string(search.ViewAll), Query: args[0]},
		search.Search(events, args[0]))
}

func printEvents(resp output.EventsResponse, events []model.Event) error {
	notified := ctx.NotifiedSet()
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEvents(resp, events, notified)
	}
	if ctx.IsPlain() {
		ctx.PlainFormatter().PrintEvents(events, notified)
		return nil
	}

	cli := ctx.CLIFormatter()
	if resp.Label != "" {
		cli.Title(resp.Label)
	}
	cli.PrintEventList(events, notified)
	return nil
}

func viewLabel(anchor time.Time, view search.ViewMode) string {
	switch view {
	case search.ViewWeek:
		return dateutil.FormatWeek(anchor)
	case search.ViewMonth:
		return dateutil.FormatMonth(anchor)
	}
	return ""
}

// runCalendar renders the week or month grid. JSON and plain output list
// the events of the window instead.
func runCalendar(view search.ViewMode) error {
	now := ctx.Now()
	anchor, err := parser.ParseDate(calendarFlagDate, now)
	if err != nil {
		return err
	}
	events, err := ctx.ListEventsAround(anchor, calendarFlagExpand)
	if err != nil {
		return err
	}
	storage.SortEvents(events)

	if !ctx.IsCLI() {
		return printEvents(output.EventsResponse{
			View:  string(view),
			Label: viewLabel(anchor, view),
		}, search.Filtered(events, "", anchor, view))
	}

	opts := output.CalendarOptions{
		Notified: ctx.NotifiedSet(),
		Today:    now,
		Width:    ctx.Formatter.Width(),
		Color:    ctx.Formatter.IsColorEnabled(),
	}
	if view == search.ViewWeek {
		ctx.Formatter.Print(output.RenderWeek(anchor, events, opts))
	} else {
		ctx.Formatter.Print(output.RenderMonth(anchor, events, opts))
	}
	return nil
}
