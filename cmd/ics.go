package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/ics"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/model"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/parser"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/runtime"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/search"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

var (
	importFlagDryRun bool

	exportFlagView  string
	exportFlagDate  string
	exportFlagQuery string
)

// importCmd reads an iCalendar file.
var importCmd = &cobra.Command{
	Use:   "import FILE.ics",
	Short: "Import events from an iCalendar file",
	Long: `Import the VEVENTs of an iCalendar (.ics) file. Repeat rules, the first
display alarm and the first category are kept. Events that cannot be
represented are skipped and listed.

Examples:
  eventcal import holidays.ics
  eventcal import team.ics --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// exportCmd writes an iCalendar file.
var exportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Export events as iCalendar",
	Long: `Write events as an iCalendar stream to FILE, or to stdout when FILE is
omitted or "-".

Examples:
  eventcal export > calendar.ics
  eventcal export backup.ics
  eventcal export --view month --date 2024-07-01 july.ics`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlagDryRun, "dry-run", false, "Parse and report without saving")

	exportCmd.Flags().StringVarP(&exportFlagView, "view", "v", "all", "View: week, month, all")
	exportCmd.Flags().StringVarP(&exportFlagDate, "date", "d", "", "Any date inside the week or month")
	exportCmd.Flags().StringVarP(&exportFlagQuery, "query", "q", "", "Only events matching the term")
	exportCmd.RegisterFlagCompletionFunc("view", completeFixed("week", "month", "all"))

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := ics.Import(f, ctx.Location)
	if err != nil {
		return err
	}

	saved := res.Events
	if !importFlagDryRun && len(res.Events) > 0 {
		if saved, err = ctx.Events.CreateAll(res.Events); err != nil {
			return runtime.WrapStorageError(err, "import events")
		}
		logging.LogOperation("import events", logging.KeyPath, args[0], logging.KeyCount, len(saved))
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"imported": len(saved),
			"dry_run":  importFlagDryRun,
			"skipped":  res.Skipped,
		})
	}
	if ctx.IsPlain() {
		ctx.PlainFormatter().PrintEvents(saved, nil)
		return nil
	}

	cli := ctx.CLIFormatter()
	if importFlagDryRun {
		cli.Muted(fmt.Sprintf("%d개 일정을 가져올 수 있습니다. (dry run)", len(saved)))
	} else {
		cli.Success(fmt.Sprintf("%d개 일정을 가져왔습니다.", len(saved)))
	}
	for _, s := range res.Skipped {
		cli.Warning(fmt.Sprintf("skipped %s: %s", s.UID, s.Reason))
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	view, err := search.ParseViewMode(exportFlagView)
	if err != nil {
		return err
	}
	now := ctx.Now()
	anchor, err := parser.ParseDate(exportFlagDate, now)
	if err != nil {
		return err
	}
	events, err := ctx.Events.List()
	if err != nil {
		return err
	}
	storage.SortEvents(events)
	events = search.Filtered(events, exportFlagQuery, anchor, view)

	var w io.Writer = ctx.Formatter.Writer
	path := ""
	if len(args) == 1 && args[0] != "-" {
		path = args[0]
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		defer out.Close()
		w = out
	}

	n, err := ics.Export(w, events, ctx.Location, now)
	if err != nil {
		return err
	}
	if path != "" {
		reportExport(n, path, events)
	}
	return nil
}

func reportExport(n int, path string, events []model.Event) {
	if ctx.IsJSON() {
		_ = ctx.Formatter.JSON(map[string]any{"exported": n, "skipped": len(events) - n, "path": path})
		return
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("%d개 일정을 %s에 저장했습니다.", n, path))
}
