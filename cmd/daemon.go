package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/config"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/daemon"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/output"
)

// Daemon command flags.
var (
	daemonStartFlagForeground bool
	daemonLogsFlagTail        int
	daemonInstallFlagForce    bool
)

var noContext = map[string]string{annotationNoContext: "true"}

// daemonCmd represents the daemon command.
var daemonCmd = &cobra.Command{
	Use:     "daemon [command]",
	Aliases: []string{"bg", "service"},
	Short:   "Manage the background notifier",
	Long: `Manage the eventcal daemon. It checks the calendar every poll interval,
shows each event's notification once when its lead time is reached and
posts it to the enabled webhooks.

Examples:
  eventcal daemon start
  eventcal daemon status
  eventcal daemon stop
  eventcal daemon logs --tail 20`,
	Annotations: noContext,
	RunE:        runDaemonStatus,
}

// daemonStartCmd starts the daemon.
var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background daemon",
	Long: `Start the eventcal daemon.

Examples:
  eventcal daemon start                # Start in background
  eventcal daemon start --foreground   # Stay attached (for debugging)`,
	Annotations: noContext,
	RunE:        runDaemonStart,
}

// daemonStopCmd stops the daemon.
var daemonStopCmd = &cobra.Command{
	Use:         "stop",
	Short:       "Stop the background daemon",
	Annotations: noContext,
	RunE:        runDaemonStop,
}

// daemonStatusCmd shows daemon status.
var daemonStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show daemon status",
	Annotations: noContext,
	RunE:        runDaemonStatus,
}

// daemonLogsCmd shows daemon logs.
var daemonLogsCmd = &cobra.Command{
	Use:         "logs",
	Short:       "View daemon logs",
	Annotations: noContext,
	RunE:        runDaemonLogs,
}

// daemonInstallCmd installs the daemon as a user service.
var daemonInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the daemon as a user service",
	Long: `Install the daemon as a service that starts on login.

On macOS this writes a launchd agent to ~/Library/LaunchAgents.
On Linux this writes a systemd user unit to ~/.config/systemd/user.`,
	Annotations: noContext,
	RunE:        runDaemonInstall,
}

// daemonUninstallCmd removes the user service.
var daemonUninstallCmd = &cobra.Command{
	Use:         "uninstall",
	Short:       "Uninstall the daemon user service",
	Annotations: noContext,
	RunE:        runDaemonUninstall,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonStartFlagForeground, "foreground", false,
		"Run in foreground (don't daemonize)")
	daemonLogsCmd.Flags().IntVarP(&daemonLogsFlagTail, "tail", "n", 20,
		"Number of lines to show")
	daemonInstallCmd.Flags().BoolVar(&daemonInstallFlagForce, "force", false,
		"Reinstall if already installed")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonLogsCmd)
	daemonCmd.AddCommand(daemonInstallCmd)
	daemonCmd.AddCommand(daemonUninstallCmd)

	rootCmd.AddCommand(daemonCmd)
}

// newFormatter builds a formatter from the global flags for commands that
// run without a context.
func newFormatter() (*output.Formatter, error) {
	f := output.NewFormatter()
	f.Writer = stdout
	format, err := output.ParseFormat(flagFormat)
	if err != nil {
		return nil, err
	}
	colorMode, err := output.ParseColorMode(flagColor)
	if err != nil {
		return nil, err
	}
	f.Format = format
	f.ColorMode = colorMode
	return f, nil
}

// daemonSetup loads config and a formatter for the daemon commands that do
// not open the database.
func daemonSetup() (*config.Config, *output.Formatter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	f, err := newFormatter()
	if err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}

// runDaemonStart handles the daemon start command. The background parent
// never opens the database so the child can take the lock.
func runDaemonStart(cmd *cobra.Command, args []string) error {
	if !daemonStartFlagForeground {
		cfg, f, err := daemonSetup()
		if err != nil {
			return err
		}
		d := daemon.New(cfg, nil)
		d.SetDebug(flagDebug)

		pid, err := d.StartBackground()
		if err != nil {
			return err
		}
		if f.Format == output.FormatJSON {
			return f.JSON(map[string]any{"status": "started", "pid": pid})
		}
		output.NewCLIFormatter(f).Success(fmt.Sprintf("Daemon started (PID: %d)", pid))
		return nil
	}

	c, err := newContext()
	if err != nil {
		return err
	}
	ctx = c

	d := daemon.New(ctx.Config, ctx.DB)
	d.SetDebug(ctx.Debug)
	d.SetVersion(Version)

	webhooks, err := ctx.Webhooks.ListEnabled()
	if err == nil && len(webhooks) == 0 && ctx.IsCLI() {
		ctx.CLIFormatter().Warning("No webhooks configured. Notifications are only logged. Add one with: eventcal webhook add")
	}
	if ctx.IsCLI() {
		ctx.Formatter.Printf("Starting eventcal daemon (foreground, polling %q)...\n", ctx.Config.PollInterval)
	}
	return d.Start(context.Background())
}

// runDaemonStop handles the daemon stop command.
func runDaemonStop(cmd *cobra.Command, args []string) error {
	cfg, f, err := daemonSetup()
	if err != nil {
		return err
	}
	d := daemon.New(cfg, nil)
	status := d.GetStatus()

	if !status.Running {
		if f.Format == output.FormatJSON {
			return f.JSON(map[string]any{"status": "not_running"})
		}
		f.Println("Daemon is not running")
		return nil
	}
	if err := d.Stop(); err != nil {
		return err
	}

	if f.Format == output.FormatJSON {
		return f.JSON(map[string]any{"status": "stopped", "pid": status.PID})
	}
	output.NewCLIFormatter(f).Success(fmt.Sprintf("Daemon stopped (was PID: %d)", status.PID))
	return nil
}

// runDaemonStatus handles the daemon status command.
func runDaemonStatus(cmd *cobra.Command, args []string) error {
	cfg, f, err := daemonSetup()
	if err != nil {
		return err
	}
	status := daemon.New(cfg, nil).GetStatus()

	if f.Format == output.FormatJSON {
		return f.JSON(status)
	}

	cli := output.NewCLIFormatter(f)
	cli.Title("eventcal daemon")
	if status.Running {
		f.Printf("  Status:    running\n")
		f.Printf("  PID:       %d\n", status.PID)
		if status.Uptime != "" {
			f.Printf("  Uptime:    %s\n", status.Uptime)
		}
		if cfg.MetricsAddr != "" {
			f.Printf("  Metrics:   http://%s/metrics\n", cfg.MetricsAddr)
		}
	} else {
		f.Printf("  Status:    stopped\n")
	}
	f.Printf("  Log:       %s\n", status.LogPath)
	if !status.Running {
		f.Println()
		cli.Muted("Start with: eventcal daemon start")
	}
	return nil
}

// runDaemonLogs prints the end of the daemon log.
func runDaemonLogs(cmd *cobra.Command, args []string) error {
	cfg, f, err := daemonSetup()
	if err != nil {
		return err
	}
	logPath := cfg.LogPath()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		f.Println("No log file found.")
		f.Printf("Log path: %s\n", logPath)
		return nil
	}

	lines, err := tailFile(logPath, daemonLogsFlagTail)
	if err != nil {
		return err
	}
	for _, line := range lines {
		f.Println(line)
	}
	return nil
}

// tailFile reads the last n lines from a file.
func tailFile(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// runDaemonInstall handles the daemon install command.
func runDaemonInstall(cmd *cobra.Command, args []string) error {
	cfg, f, err := daemonSetup()
	if err != nil {
		return err
	}
	mgr, err := daemon.NewServiceManager(cfg.LogPath())
	if err != nil {
		return err
	}

	if mgr.IsInstalled() {
		if !daemonInstallFlagForce {
			if f.Format == output.FormatJSON {
				return f.JSON(map[string]any{"status": "already_installed"})
			}
			f.Println("Service is already installed.")
			f.Println("Use --force to reinstall.")
			return nil
		}
		if err := mgr.Uninstall(); err != nil {
			return fmt.Errorf("failed to remove existing service: %w", err)
		}
	}

	if err := mgr.Install(); err != nil {
		return err
	}
	path, _ := mgr.UnitPath()

	if f.Format == output.FormatJSON {
		return f.JSON(map[string]any{"status": "installed", "path": path})
	}
	cli := output.NewCLIFormatter(f)
	cli.Success("Service installed: " + path)
	cli.Muted("The daemon now starts when you log in. Remove it with: eventcal daemon uninstall")
	return nil
}

// runDaemonUninstall handles the daemon uninstall command.
func runDaemonUninstall(cmd *cobra.Command, args []string) error {
	cfg, f, err := daemonSetup()
	if err != nil {
		return err
	}
	mgr, err := daemon.NewServiceManager(cfg.LogPath())
	if err != nil {
		return err
	}

	if !mgr.IsInstalled() {
		if f.Format == output.FormatJSON {
			return f.JSON(map[string]any{"status": "not_installed"})
		}
		f.Println("Service is not installed.")
		return nil
	}

	if d := daemon.New(cfg, nil); d.IsRunning() {
		if err := d.Stop(); err != nil && flagDebug {
			f.Printf("[DEBUG] failed to stop daemon: %v\n", err)
		}
	}
	if err := mgr.Uninstall(); err != nil {
		return err
	}

	if f.Format == output.FormatJSON {
		return f.JSON(map[string]any{"status": "uninstalled"})
	}
	output.NewCLIFormatter(f).Success("Service uninstalled")
	return nil
}
