// Package daemon runs the eventcal notification daemon: a pid-file guarded
// process that polls stored events on a cron schedule, delivers due
// notifications to webhooks and optionally serves metrics.
package daemon

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
)

// AppName names the daemon's state directory.
const AppName = "eventcal"

// PIDFileName is the pid file name inside the state directory.
const PIDFileName = "eventcal.pid"

var (
	ErrNotRunning     = stderrors.New("daemon is not running")
	ErrAlreadyRunning = stderrors.New("daemon is already running")
)

// StateDir returns $XDG_STATE_HOME/eventcal.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// PIDFile manages the daemon pid file.
type PIDFile struct {
	path string
}

// NewPIDFile manages the pid file at path. An empty path uses the state dir.
func NewPIDFile(path string) *PIDFile {
	if path == "" {
		path = filepath.Join(StateDir(), PIDFileName)
	}
	return &PIDFile{path: path}
}

// Path returns the pid file path.
func (p *PIDFile) Path() string {
	return p.path
}

// Write records the current process id.
func (p *PIDFile) Write() error {
	return p.WritePID(os.Getpid())
}

// WritePID records pid.
func (p *PIDFile) WritePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return fmt.Errorf("create pid directory: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

// Read returns the recorded pid, or ErrNotRunning when there is no file.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return 0, ErrNotRunning
	}
	if err != nil {
		return 0, fmt.Errorf("read pid file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid in %s: %w", p.path, err)
	}
	return pid, nil
}

// Remove deletes the pid file. A missing file is not an error.
func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

// RunningPID returns the recorded pid if that process is alive, else 0.
func (p *PIDFile) RunningPID() int {
	pid, err := p.Read()
	if err != nil || !IsProcessRunning(pid) {
		return 0
	}
	return pid
}

// IsRunning reports whether the recorded process is alive.
func (p *PIDFile) IsRunning() bool {
	return p.RunningPID() > 0
}

// IsProcessRunning checks pid with signal 0.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
