package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/search"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/tui"
)

var dashboardFlagView string

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "tui", "ui"},
	Short:   "Open the interactive calendar",
	Long: `Open an interactive week or month calendar with search and
notification banners.

Keyboard Controls:
  ←/h →/l  Previous / next week or month
  t        Jump to today
  v        Cycle week, month and all
  /        Search title, description and location
  ↑/k ↓/j  Move through the event list
  x        Dismiss the first notification
  r        Reload events
  q        Quit

Examples:
  eventcal dashboard
  eventcal dash --view month`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardFlagView, "view", "v", "", "Initial view: week, month, all")
	dashboardCmd.RegisterFlagCompletionFunc("view", completeFixed("week", "month", "all"))
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	viewName := dashboardFlagView
	if viewName == "" {
		viewName = ctx.Config.DefaultView
	}
	view, err := search.ParseViewMode(viewName)
	if err != nil {
		return err
	}

	center := reminder.NewCenter()
	if ids, err := ctx.Notified.IDs(); err == nil {
		center.Restore(ids...)
	}

	return tui.Run(tui.DashboardConfig{
		Events:   ctx.Events,
		Center:   center,
		View:     view,
		Location: ctx.Location,
		Expand:   ctx.Config.ExpandRecurring,
		Now:      ctx.Now,
	})
}
