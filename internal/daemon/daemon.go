package daemon

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/config"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/logging"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/notify"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/reminder"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/scheduler"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

// gcSpec schedules badger value log garbage collection.
const gcSpec = "@every 1h"

// Daemon polls stored events and fires notifications for those about to
// start.
type Daemon struct {
	cfg       *config.Config
	db        *storage.DB
	pidFile   *PIDFile
	statePath string
	events    *storage.EventRepo
	webhooks  *storage.WebhookRepo
	notified  *storage.NotifiedRepo
	center    *reminder.Center
	metrics   *Metrics
	health    *HealthChecker
	version   string
	debug     bool
	startedAt time.Time
}

// Status is what 'daemon status' reports.
type Status struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	LogPath   string    `json:"log_path"`
}

// State is persisted next to the pid file while the daemon runs.
type State struct {
	StartedAt   time.Time `json:"started_at"`
	MetricsAddr string    `json:"metrics_addr,omitempty"`
}

// New creates a daemon over db. cfg must be normalized.
func New(cfg *config.Config, db *storage.DB) *Daemon {
	return &Daemon{
		cfg:       cfg,
		db:        db,
		pidFile:   NewPIDFile(""),
		statePath: filepath.Join(StateDir(), "daemon.json"),
		events:    storage.NewEventRepo(db),
		webhooks:  storage.NewWebhookRepo(db),
		notified:  storage.NewNotifiedRepo(db, storage.DefaultNotifiedTTL),
		center:    reminder.NewCenter(),
		metrics:   NewMetrics(),
	}
}

func (d *Daemon) SetDebug(debug bool) { d.debug = debug }

func (d *Daemon) SetVersion(v string) { d.version = v }

// SetPIDFile overrides the pid file location.
func (d *Daemon) SetPIDFile(p *PIDFile) { d.pidFile = p }

// SetStatePath overrides where the running daemon records its start time.
func (d *Daemon) SetStatePath(path string) { d.statePath = path }

// Center returns the in-app notification list the daemon fills.
func (d *Daemon) Center() *reminder.Center {
	return d.center
}

// Metrics returns the daemon's collectors.
func (d *Daemon) Metrics() *Metrics {
	return d.metrics
}

// IsRunning reports whether a daemon process holds the pid file.
func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() *Status {
	status := &Status{LogPath: d.cfg.LogPath()}
	pid := d.pidFile.RunningPID()
	if pid == 0 {
		return status
	}
	status.Running = true
	status.PID = pid
	if state, err := d.readState(); err == nil {
		status.StartedAt = state.StartedAt
		status.Uptime = formatUptime(time.Since(state.StartedAt))
	}
	return status
}

// Start runs the daemon in the foreground until ctx is done or a shutdown
// signal arrives.
func (d *Daemon) Start(ctx context.Context) error {
	if d.IsRunning() {
		return ErrAlreadyRunning
	}

	logCloser, err := OpenLog(d.cfg.LogPath(), d.cfg.LogJSON, d.debug)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer logCloser.Close()

	if err := d.pidFile.Write(); err != nil {
		return err
	}
	defer d.pidFile.Remove()

	d.startedAt = time.Now()
	if err := d.writeState(&State{StartedAt: d.startedAt, MetricsAddr: d.cfg.MetricsAddr}); err != nil {
		return err
	}
	defer d.removeState()

	sched, err := d.build()
	if err != nil {
		return err
	}

	var srv *http.Server
	if d.cfg.MetricsAddr != "" {
		srv = NewServer(d.cfg.MetricsAddr, d.metrics.Registry(), d.health)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				logging.Error("metrics listener stopped", logging.KeyError, err)
			}
		}()
	}

	if err := sched.AddJob(gcSpec, d.collectGarbage); err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}
	logging.Info("daemon started", "pid", os.Getpid(), "schedule", d.cfg.PollInterval,
		"next_check", sched.NextRun().Format(time.RFC3339))

	if sig := WaitForShutdown(ctx); sig != nil {
		logging.Info("received signal", "signal", sig.String())
	}

	sched.Stop()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), d.cfg.KillTimeout)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}
	logging.Info("daemon stopped")
	return nil
}

// build restores the notified set and assembles the checker pipeline.
func (d *Daemon) build() (*scheduler.Scheduler, error) {
	loc, err := d.cfg.Location()
	if err != nil {
		return nil, err
	}

	ids, err := d.notified.IDs()
	if err != nil {
		logging.Warn("cannot restore notified ids", logging.KeyError, err)
	}
	d.center.Restore(ids...)

	client := notify.NewHTTPClient(d.cfg.HTTPTimeout, d.cfg.HTTPMaxRetries)
	checker := scheduler.NewEventChecker(d.events, d.center, notify.NewDispatcher(d.webhooks, client),
		scheduler.WithExpansion(d.cfg.ExpandRecurring),
		scheduler.WithLocation(loc),
		scheduler.WithNotifiedStore(d.notified),
		scheduler.WithRecorder(d.metrics),
	)

	d.health = NewHealthChecker(d.version)
	d.health.AddCheck("database", func() error {
		_, err := d.events.Count()
		return err
	})
	d.health.SetBannerCounter(func() int { return len(d.center.Notifications()) })

	return scheduler.New(d.cfg.PollInterval, checker, d.cfg.SleepThreshold), nil
}

// collectGarbage reclaims value log space left by deleted events and
// expired notified ids.
func (d *Daemon) collectGarbage() {
	if err := d.db.CollectGarbage(); err != nil {
		logging.Warn("value log gc failed", logging.KeyError, err)
		d.metrics.RecordError("storage", err)
	}
}

// StartBackground re-executes the binary as 'daemon start --foreground'
// and waits StartupWait for it to write its pid.
func (d *Daemon) StartBackground() (int, error) {
	if d.IsRunning() {
		return d.pidFile.RunningPID(), ErrAlreadyRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}
	args := []string{"daemon", "start", "--foreground"}
	if d.debug {
		args = append(args, "--debug")
	}
	cmd := exec.Command(executable, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon: %w", err)
	}
	go func() { _ = cmd.Wait() }()

	time.Sleep(d.cfg.StartupWait)

	if !d.pidFile.IsRunning() {
		if msg := lastLogError(d.cfg.LogPath()); msg != "" {
			return 0, fmt.Errorf("daemon failed to start: %s", msg)
		}
		return 0, fmt.Errorf("daemon failed to start (check logs: %s)", d.cfg.LogPath())
	}
	return cmd.Process.Pid, nil
}

// Stop interrupts the running daemon and kills it after KillTimeout.
func (d *Daemon) Stop() error {
	pid := d.pidFile.RunningPID()
	if pid == 0 {
		return ErrNotRunning
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
	}

	deadline := time.Now().Add(d.cfg.KillTimeout)
	for IsProcessRunning(pid) {
		if time.Now().After(deadline) {
			_ = process.Kill()
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	_ = d.pidFile.Remove()
	d.removeState()
	return nil
}

// lastLogError returns the newest error-looking line among the last ten
// lines of the log.
func lastLogError(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	start := max(len(lines)-10, 0)
	for i := len(lines) - 1; i >= start; i-- {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") || strings.Contains(lower, "failed to") {
			return line
		}
	}
	return ""
}

func (d *Daemon) writeState(state *State) error {
	if err := os.MkdirAll(filepath.Dir(d.statePath), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(d.statePath, data, 0o600)
}

func (d *Daemon) readState() (*State, error) {
	data, err := os.ReadFile(d.statePath)
	if err != nil {
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *Daemon) removeState() {
	if err := os.Remove(d.statePath); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove daemon state file", logging.KeyError, err, logging.KeyPath, d.statePath)
	}
}

// formatUptime renders d with its two largest units.
func formatUptime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		h, m := int(d.Hours()), int(d.Minutes())%60
		if m > 0 {
			return fmt.Sprintf("%dh %dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days, h := int(d.Hours()/24), int(d.Hours())%24
	if h > 0 {
		return fmt.Sprintf("%dd %dh", days, h)
	}
	return fmt.Sprintf("%dd", days)
}
