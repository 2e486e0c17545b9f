package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/ghbaekdev/front-3rd-chapter3-1/internal/errors"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/overlap"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/parser"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/recur"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/runtime"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/validate"
)

// Event command flags, shared by add and edit.
var (
	eventFlagDate        string
	eventFlagStart       string
	eventFlagEnd         string
	eventFlagDescription string
	eventFlagLocation    string
	eventFlagCategory    string
	eventFlagRepeat      string
	eventFlagInterval    int
	eventFlagUntil       string
	eventFlagNotify      int
	eventFlagForce       bool
)

// reportedError has already been written to the output and only sets the
// exit status.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error { return e.error }

// addCmd creates an event.
var addCmd = &cobra.Command{
	Use:     "add TITLE",
	Aliases: []string{"new", "a"},
	Short:   "Add an event",
	Long: `Add an event to the calendar.

The new event is checked against existing events on the same day. When it
overlaps any of them the overlapping events are listed and nothing is saved
unless --force is given.

Examples:
  eventcal add "팀 회의" --date 2024-07-10 --start 10:00 --end 11:00
  eventcal add standup --date tomorrow --start 9am --end 9:15 --notify 1
  eventcal add gym --start 07:00 --end 08:00 --repeat weekly --interval 2 --until +3m
  eventcal add "점심 약속" --start 12:00 --end 13:00 --category 개인 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

// editCmd updates an event.
var editCmd = &cobra.Command{
	Use:     "edit ID",
	Aliases: []string{"update", "e"},
	Short:   "Edit an event",
	Long: `Change fields of an existing event. Only the flags you pass are changed.
ID may be a unique prefix of the event id.

Examples:
  eventcal edit 3f2a9c1b --start 14:00 --end 15:00
  eventcal edit 3f2a --title "주간 회의" --notify 60`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeEventIDs,
	RunE:              runEdit,
}

// deleteCmd removes an event.
var deleteCmd = &cobra.Command{
	Use:               "delete ID",
	Aliases:           []string{"rm", "remove"},
	Short:             "Delete an event",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeEventIDs,
	RunE:              runDelete,
}

// showCmd prints one event.
var showCmd = &cobra.Command{
	Use:               "show ID",
	Aliases:           []string{"get"},
	Short:             "Show an event",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeEventIDs,
	RunE:              runShow,
}

var editFlagTitle string

func addEventFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&eventFlagDate, "date", "d", "", "Date (YYYY-MM-DD, today, tomorrow, +3d, next friday)")
	cmd.Flags().StringVarP(&eventFlagStart, "start", "s", "", "Start time (HH:MM or 9am)")
	cmd.Flags().StringVarP(&eventFlagEnd, "end", "e", "", "End time (HH:MM or 5pm)")
	cmd.Flags().StringVar(&eventFlagDescription, "desc", "", "Description")
	cmd.Flags().StringVarP(&eventFlagLocation, "location", "l", "", "Location")
	cmd.Flags().StringVarP(&eventFlagCategory, "category", "c", "", "Category: 업무, 개인, 가족, 기타")
	cmd.Flags().StringVarP(&eventFlagRepeat, "repeat", "r", "", "Repeat: none, daily, weekly, monthly, yearly")
	cmd.Flags().IntVar(&eventFlagInterval, "interval", 1, "Repeat every N units")
	cmd.Flags().StringVar(&eventFlagUntil, "until", "", "Last date of the repeat")
	cmd.Flags().IntVarP(&eventFlagNotify, "notify", "n", model.DefaultNotificationTime,
		"Minutes before start to notify: 0, 1, 10, 60, 120, 1440")
	cmd.Flags().BoolVar(&eventFlagForce, "force", false, "Save even when the event overlaps others")

	cmd.RegisterFlagCompletionFunc("category", completeFixed(model.Categories...))
	cmd.RegisterFlagCompletionFunc("repeat", completeFixed("none", "daily", "weekly", "monthly", "yearly"))
	cmd.RegisterFlagCompletionFunc("notify", completeFixed("0", "1", "10", "60", "120", "1440"))
}

func init() {
	addEventFlags(addCmd)
	addEventFlags(editCmd)
	editCmd.Flags().StringVarP(&editFlagTitle, "title", "t", "", "New title")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(showCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	now := ctx.Now()
	date, err := parser.FormatDate(eventFlagDate, now)
	if err != nil {
		return err
	}
	if eventFlagStart == "" || eventFlagEnd == "" {
		return apperrors.NewUserError("--start and --end are required",
			"Example: eventcal add 회의 --start 10:00 --end 11:00").Because(apperrors.ErrInvalidClock)
	}

	e := model.NewEvent(args[0], date, "", "")
	if err := applyEventFlags(cmd, e); err != nil {
		return err
	}
	overlapping, err := checkOverlap(e)
	if err != nil {
		return err
	}

	if err := ctx.Events.Create(e); err != nil {
		return runtime.WrapStorageError(err, "create event")
	}
	logging.LogOperation("create event", logging.KeyEventID, e.ID, logging.KeyDate, e.Date)
	return printSaved("created", "일정이 추가되었습니다.", e, overlapping)
}

func runEdit(cmd *cobra.Command, args []string) error {
	e, err := ctx.Events.Resolve(recur.BaseID(args[0]))
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("title") {
		e.Title = editFlagTitle
	}
	if cmd.Flags().Changed("date") {
		if e.Date, err = parser.FormatDate(eventFlagDate, ctx.Now()); err != nil {
			return err
		}
	}
	if err := applyEventFlags(cmd, e); err != nil {
		return err
	}
	overlapping, err := checkOverlap(e)
	if err != nil {
		return err
	}

	if err := ctx.Events.Update(e); err != nil {
		return runtime.WrapStorageError(err, "update event")
	}
	logging.LogOperation("update event", logging.KeyEventID, e.ID, logging.KeyDate, e.Date)
	return printSaved("updated", "일정이 수정되었습니다.", e, overlapping)
}

// applyEventFlags copies the time, detail and repeat flags onto e, then
// sanitizes and validates the result. On an existing event only flags that
// were set are applied.
func applyEventFlags(cmd *cobra.Command, e *model.Event) error {
	changed := func(name string) bool {
		return e.IsDraft() || cmd.Flags().Changed(name)
	}
	var err error

	if changed("start") {
		if e.StartTime, err = parser.ParseClock(eventFlagStart); err != nil {
			return err
		}
	}
	if changed("end") {
		if e.EndTime, err = parser.ParseClock(eventFlagEnd); err != nil {
			return err
		}
	}
	if changed("desc") {
		e.Description = eventFlagDescription
	}
	if changed("location") {
		e.Location = eventFlagLocation
	}
	if changed("category") {
		e.Category = eventFlagCategory
	}
	if changed("notify") {
		e.NotificationTime = eventFlagNotify
	}
	if changed("repeat") && eventFlagRepeat != "" {
		e.Repeat.Type = model.RepeatType(eventFlagRepeat)
	}
	if changed("interval") {
		e.Repeat.Interval = eventFlagInterval
	}
	if changed("until") {
		e.Repeat.EndDate = ""
		if eventFlagUntil != "" {
			if e.Repeat.EndDate, err = parser.FormatDate(eventFlagUntil, ctx.Now()); err != nil {
				return err
			}
		}
	}
	if !e.IsRepeating() {
		e.Repeat = model.RepeatInfo{Type: model.RepeatNone, Interval: 1}
	}

	validate.SanitizeEvent(e)
	return validate.Event(e)
}

// checkOverlap returns the stored events e collides with. Without --force a
// collision is reported and returned as an error.
func checkOverlap(e *model.Event) ([]model.Event, error) {
	anchor, _ := e.Start(ctx.Location)
	events, err := ctx.ListEventsAround(anchor, false)
	if err != nil {
		return nil, err
	}
	others := make([]model.Event, 0, len(events))
	for _, other := range events {
		if e.ID != "" && recur.BaseID(other.ID) == e.ID {
			continue
		}
		others = append(others, other)
	}

	overlapping := overlap.FindOverlapping(*e, others)
	if len(overlapping) == 0 || eventFlagForce {
		return overlapping, nil
	}

	err = apperrors.NewUserError(fmt.Sprintf("%q overlaps %d event(s)", e.Title, len(overlapping)),
		"").Because(apperrors.ErrEventOverlap)
	if ctx.IsJSON() {
		if perr := ctx.JSONFormatter().PrintEvent("overlap", *e, overlapping); perr != nil {
			return nil, perr
		}
		return nil, reportedError{err}
	}
	ctx.CLIFormatter().PrintOverlap(overlapping)
	return nil, err
}

func printSaved(status, message string, e *model.Event, overlapping []model.Event) error {
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEvent(status, *e, overlapping)
	}
	if ctx.IsPlain() {
		ctx.PlainFormatter().PrintEvents([]model.Event{*e}, nil)
		return nil
	}

	cli := ctx.CLIFormatter()
	if len(overlapping) > 0 {
		cli.PrintOverlap(overlapping)
	}
	cli.Success(message)
	cli.PrintEvent(*e, false)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	e, err := ctx.Events.Resolve(recur.BaseID(args[0]))
	if err != nil {
		return err
	}
	if err := ctx.Events.Delete(e.ID); err != nil {
		return runtime.WrapStorageError(err, "delete event")
	}
	logging.LogOperation("delete event", logging.KeyEventID, e.ID)

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEvent("deleted", *e, nil)
	}
	if ctx.IsPlain() {
		ctx.Formatter.Println(e.ID)
		return nil
	}
	ctx.CLIFormatter().Success("일정이 삭제되었습니다.")
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	e, err := ctx.Events.Resolve(recur.BaseID(args[0]))
	if err != nil {
		return err
	}
	notified := ctx.NotifiedSet()

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEvent("ok", *e, nil)
	}
	if ctx.IsPlain() {
		ctx.PlainFormatter().PrintEvents([]model.Event{*e}, notified)
		return nil
	}
	ctx.CLIFormatter().PrintEvent(*e, notified.Contains(e.ID))
	return nil
}

// isReported reports whether err was already written by the command.
func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}
