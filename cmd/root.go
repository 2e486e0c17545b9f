// Package cmd provides the CLI commands for eventcal.
package cmd

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/config"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/runtime"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/search"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
	flagConfig string
)

// annotationNoContext marks commands that run without opening the database.
const annotationNoContext = "eventcal/no-context"

// ctx is the shared runtime context.
var ctx *runtime.Context

// stdout and clock are replaced in tests.
var (
	stdout io.Writer = os.Stdout
	clock  func() time.Time
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "eventcal",
	Short: "A terminal calendar with overlap warnings and reminders",
	Long: `eventcal keeps a calendar of events, warns when they overlap and
reminds you shortly before they start.

Examples:
  eventcal add "팀 회의" --date tomorrow --start 10:00 --end 11:00 --notify 10
  eventcal week
  eventcal list --view month --query 회의
  eventcal upcoming
  eventcal daemon start`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Annotations[annotationNoContext] == "true" {
			return nil
		}
		c, err := newContext()
		if err != nil {
			return err
		}
		ctx = c
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeContext()
	},
	RunE: runToday,
}

// newContext builds a runtime context from the global flags.
func newContext() (*runtime.Context, error) {
	format, err := output.ParseFormat(flagFormat)
	if err != nil {
		return nil, err
	}
	colorMode, err := output.ParseColorMode(flagColor)
	if err != nil {
		return nil, err
	}

	opts := runtime.DefaultOptions()
	opts.ConfigPath = flagConfig
	opts.Format = format
	opts.ColorMode = colorMode
	opts.Debug = flagDebug

	c, err := runtime.New(opts)
	if err != nil {
		return nil, err
	}
	c.Formatter.Writer = stdout
	if clock != nil {
		c.SetClock(clock)
	}
	return c, nil
}

// loadConfig reads the configuration for commands that skip the context.
func loadConfig() (*config.Config, error) {
	return config.Load(flagConfig)
}

func closeContext() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

// runToday lists today's events and the notifications due right now.
func runToday(cmd *cobra.Command, args []string) error {
	now := ctx.Now()
	events, err := ctx.ListEventsAround(now, false)
	if err != nil {
		return err
	}
	today := search.EventsOnDate(events, now.Format("2006-01-02"))
	notified := ctx.NotifiedSet()
	notifications := reminder.NewCenter().Poll(events, now)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"date":          now.Format("2006-01-02"),
			"events":        output.NewEventOutputs(today, notified),
			"notifications": notifications,
		})
	}
	if ctx.IsPlain() {
		p := ctx.PlainFormatter()
		p.PrintEvents(today, notified)
		p.PrintNotifications(notifications)
		return nil
	}

	cli := ctx.CLIFormatter()
	cli.Title("오늘 일정 " + now.Format("2006-01-02"))
	cli.PrintEventList(today, notified)
	cli.Println()
	cli.Title("알림")
	cli.PrintNotifications(notifications)
	return nil
}

// Execute runs the root command and prints any error it returns.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	_ = closeContext()
	return err
}

// printError reports err in the selected output format.
func printError(err error) {
	if isReported(err) {
		return
	}
	if ctx != nil {
		ctx.PrintError(err)
		return
	}
	f := output.NewFormatter()
	f.Writer = os.Stderr
	if format, perr := output.ParseFormat(flagFormat); perr == nil {
		f.Format = format
	}
	runtime.PrintError(f, err, flagDebug)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/eventcal/config.yaml)")

	rootCmd.RegisterFlagCompletionFunc("format", completeFixed("cli", "json", "plain"))
	rootCmd.RegisterFlagCompletionFunc("color", completeFixed("auto", "always", "never"))

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationNoContext: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SetOut(stdout)
		cmd.Printf("eventcal %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}
