package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/dateutil"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/holiday"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/parser"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

var (
	upcomingFlagAt   string
	holidaysFlagDate string
)

// upcomingCmd lists the notifications due at a moment.
var upcomingCmd = &cobra.Command{
	Use:     "upcoming",
	Aliases: []string{"due", "notifications"},
	Short:   "Show events whose notification is due",
	Long: `Show the events whose notification window is open at --at: the time
is at or after start minus the lead time and before the start.

Nothing is marked as notified, so running it twice prints the same list.

Examples:
  eventcal upcoming
  eventcal upcoming --at "2024-07-10 09:55"
  eventcal upcoming --at +30m`,
	Args: cobra.NoArgs,
	RunE: runUpcoming,
}

// holidaysCmd lists the holidays of a month.
var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List the holidays of a month",
	Args:  cobra.NoArgs,
	RunE:  runHolidays,
}

func init() {
	upcomingCmd.Flags().StringVar(&upcomingFlagAt, "at", "", "Moment to check (default now)")
	holidaysCmd.Flags().StringVarP(&holidaysFlagDate, "date", "d", "", "Any date inside the month")

	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(holidaysCmd)
}

func runUpcoming(cmd *cobra.Command, args []string) error {
	at, err := parser.ParseTimestamp(upcomingFlagAt, ctx.Now())
	if err != nil {
		return err
	}
	events, err := ctx.ListEventsAround(at, false)
	if err != nil {
		return err
	}
	storage.SortEvents(events)
	notifications := reminder.NewCenter().Poll(events, at)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NotificationsResponse{
			At:            at.Format("2006-01-02 15:04"),
			Notifications: notifications,
		})
	}
	if ctx.IsPlain() {
		ctx.PlainFormatter().PrintNotifications(notifications)
		return nil
	}
	ctx.CLIFormatter().PrintNotifications(notifications)
	return nil
}

func runHolidays(cmd *cobra.Command, args []string) error {
	date, err := parser.ParseDate(holidaysFlagDate, ctx.Now())
	if err != nil {
		return err
	}
	holidays := holiday.List(date)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.HolidaysResponse{
			Month:    date.Format("2006-01"),
			Holidays: holidays,
		})
	}
	if ctx.IsPlain() {
		ctx.PlainFormatter().PrintHolidays(holidays)
		return nil
	}

	cli := ctx.CLIFormatter()
	cli.Title(dateutil.FormatMonth(date))
	cli.PrintHolidays(holidays)
	return nil
}
