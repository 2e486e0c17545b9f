package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/config"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/notify"
	"github.com/ghbaekdev/front-3rd-chapter3-1/internal/storage"
)

// =============================================================================
// PIDFile Tests
// =============================================================================

func TestPIDFile(t *testing.T) {
	p := NewPIDFile(filepath.Join(t.TempDir(), "run", PIDFileName))

	assert.False(t, p.IsRunning())
	assert.Equal(t, 0, p.RunningPID())

	require.NoError(t, p.Write())
	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, p.IsRunning())

	require.NoError(t, p.Remove())
	assert.False(t, p.IsRunning())
	assert.NoError(t, p.Remove(), "removing a missing pid file is not an error")
}

func TestPIDFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), PIDFileName)
	require.NoError(t, os.WriteFile(path, []byte("not a pid\n"), 0o600))

	p := NewPIDFile(path)
	_, err := p.Read()
	assert.Error(t, err)
	assert.False(t, p.IsRunning())
}

func TestNewPIDFileDefault(t *testing.T) {
	p := NewPIDFile("")
	assert.Equal(t, filepath.Join(StateDir(), PIDFileName), p.Path())
}

// =============================================================================
// HealthChecker Tests
// =============================================================================

func TestHealthChecker(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	status := checker.Check()
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.GreaterOrEqual(t, status.Goroutines, 1)

	checker.AddCheck("database", func() error { return errors.New("closed") })
	checker.AddCheck("alpha", func() error { return nil })
	status = checker.Check()
	assert.Equal(t, StatusUnhealthy, status.Status)
	require.Len(t, status.Checks, 2)
	assert.Equal(t, "alpha", status.Checks[0].Name)
	assert.Equal(t, "closed", status.Checks[1].Error)
	assert.False(t, status.IsHealthy())

	checker.AddCheck("database", func() error { return nil })
	assert.True(t, checker.Check().IsHealthy())
}

func TestHealthCheckerBanners(t *testing.T) {
	checker := NewHealthChecker("")
	checker.SetBannerCounter(func() int { return 3 })
	assert.Equal(t, 3, checker.Check().Banners)
}

// =============================================================================
// Metrics Tests
// =============================================================================

func TestMetricsRecorder(t *testing.T) {
	m := NewMetrics()

	m.ObserveCheck(10, 2, 5*time.Millisecond)
	m.ObserveCheck(12, 0, 3*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checks))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notifications))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.eventsScanned))

	m.ObserveDelivery(notify.DispatchResult{WebhookName: "team", Success: true, Duration: time.Second})
	m.ObserveDelivery(notify.DispatchResult{WebhookName: "team", Error: errors.New("502"), Duration: time.Second})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("team", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("team", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("webhook")))

	m.RecordError("storage", errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("storage")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveCheck(1, 1, time.Millisecond)
	health := NewHealthChecker("test")

	srv := httptest.NewServer(NewHandler(m.Registry(), health))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "eventcal_daemon_checks_total 1")

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var status HealthStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test", status.Version)

	health.AddCheck("down", func() error { return errors.New("down") })
	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// =============================================================================
// Daemon Tests
// =============================================================================

func newTestDaemon(t *testing.T) *Daemon {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	cfg := config.Default()
	cfg.LogFile = filepath.Join(dir, "daemon.log")
	cfg.KillTimeout = time.Second

	d := New(cfg, db)
	d.SetPIDFile(NewPIDFile(filepath.Join(dir, PIDFileName)))
	d.SetStatePath(filepath.Join(dir, "daemon.json"))
	return d
}

func TestDaemonStartStopsWithContext(t *testing.T) {
	d := newTestDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- d.Start(ctx) }()

	require.Eventually(t, d.IsRunning, 2*time.Second, 10*time.Millisecond)
	status := d.GetStatus()
	assert.True(t, status.Running)
	assert.Equal(t, os.Getpid(), status.PID)
	assert.False(t, status.StartedAt.IsZero())

	assert.ErrorIs(t, d.Start(context.Background()), ErrAlreadyRunning)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}

	assert.False(t, d.IsRunning())
	assert.False(t, d.GetStatus().Running)
	assert.GreaterOrEqual(t, testutil.ToFloat64(d.Metrics().checks), 1.0, "first check runs on start")
}

func TestDaemonStopNotRunning(t *testing.T) {
	d := newTestDaemon(t)
	assert.ErrorIs(t, d.Stop(), ErrNotRunning)
}

func TestLastLogError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	assert.Empty(t, lastLogError(path))

	lines := []string{
		`level=INFO msg="daemon started"`,
		`level=ERROR msg="cannot open database"`,
		`level=INFO msg="retrying"`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	assert.Equal(t, lines[1], lastLogError(path))
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{5 * time.Minute, "5m"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 30*time.Minute, "2h 30m"},
		{48 * time.Hour, "2d"},
		{50 * time.Hour, "2d 2h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d))
	}
}

// =============================================================================
// ServiceManager Tests
// =============================================================================

func TestServiceRender(t *testing.T) {
	m := &ServiceManager{goos: "linux", data: UnitData{Executable: "/usr/bin/eventcal", StateHome: "/s"}}
	unit, err := m.Render()
	require.NoError(t, err)
	assert.Contains(t, string(unit), "ExecStart=/usr/bin/eventcal daemon start --foreground")
	assert.Contains(t, string(unit), `XDG_STATE_HOME=/s`)

	m.goos = "plan9"
	_, err = m.Render()
	assert.Error(t, err)
}

func TestServiceInstallLaunchd(t *testing.T) {
	var calls []string
	m := &ServiceManager{
		goos:    "darwin",
		homeDir: t.TempDir(),
		data:    UnitData{Label: launchdLabel, Executable: "/bin/eventcal", LogPath: "/tmp/d.log"},
		run: func(name string, args ...string) error {
			calls = append(calls, name+" "+strings.Join(args, " "))
			return nil
		},
	}

	require.NoError(t, m.Install())
	assert.True(t, m.IsInstalled())
	path, _ := m.UnitPath()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "<string>/bin/eventcal</string>")
	assert.Equal(t, []string{"launchctl load " + path}, calls)

	require.NoError(t, m.Uninstall())
	assert.False(t, m.IsInstalled())
}

func TestDaemonCollectGarbage(t *testing.T) {
	d := newTestDaemon(t)
	d.collectGarbage()
	assert.Equal(t, 0.0, testutil.ToFloat64(d.metrics.errors.WithLabelValues("storage")))
}
