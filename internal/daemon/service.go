package daemon

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/adrg/xdg"
)

const (
	launchdLabel = "dev.eventcal.daemon"
	systemdUnit  = "eventcal.service"
)

const launchdTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.Executable}}</string>
        <string>daemon</string>
        <string>start</string>
        <string>--foreground</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>
</dict>
</plist>
`

const systemdTemplate = `[Unit]
Description=eventcal notification daemon
After=network-online.target

[Service]
Type=simple
ExecStart={{.Executable}} daemon start --foreground
Restart=on-failure
RestartSec=5
Environment="XDG_DATA_HOME={{.DataHome}}"
Environment="XDG_STATE_HOME={{.StateHome}}"
Environment="XDG_CONFIG_HOME={{.ConfigHome}}"

[Install]
WantedBy=default.target
`

// UnitData fills the service templates.
type UnitData struct {
	Label      string
	Executable string
	LogPath    string
	DataHome   string
	StateHome  string
	ConfigHome string
}

// ServiceManager installs the daemon as a per-user launchd agent or
// systemd unit.
type ServiceManager struct {
	goos    string
	data    UnitData
	run     func(name string, args ...string) error
	homeDir string
}

// NewServiceManager creates a manager for the running binary. logPath is
// where launchd sends stderr.
func NewServiceManager(logPath string) (*ServiceManager, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	home, _ := os.UserHomeDir()
	return &ServiceManager{
		goos:    runtime.GOOS,
		homeDir: home,
		run:     runCommand,
		data: UnitData{
			Label:      launchdLabel,
			Executable: exe,
			LogPath:    logPath,
			DataHome:   xdg.DataHome,
			StateHome:  xdg.StateHome,
			ConfigHome: xdg.ConfigHome,
		},
	}, nil
}

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(out))
	}
	return nil
}

// UnitPath returns where the unit file lives on this platform.
func (m *ServiceManager) UnitPath() (string, error) {
	switch m.goos {
	case "darwin":
		return filepath.Join(m.homeDir, "Library", "LaunchAgents", launchdLabel+".plist"), nil
	case "linux":
		return filepath.Join(xdg.ConfigHome, "systemd", "user", systemdUnit), nil
	default:
		return "", fmt.Errorf("service installation is not supported on %s", m.goos)
	}
}

// Render returns the unit file content for this platform.
func (m *ServiceManager) Render() ([]byte, error) {
	var text string
	switch m.goos {
	case "darwin":
		text = launchdTemplate
	case "linux":
		text = systemdTemplate
	default:
		return nil, fmt.Errorf("service installation is not supported on %s", m.goos)
	}
	tmpl, err := template.New("unit").Parse(text)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, m.data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Install writes the unit and loads it.
func (m *ServiceManager) Install() error {
	path, err := m.UnitPath()
	if err != nil {
		return err
	}
	content, err := m.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create unit directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write unit: %w", err)
	}

	if m.goos == "darwin" {
		return m.run("launchctl", "load", path)
	}
	if err := m.run("systemctl", "--user", "daemon-reload"); err != nil {
		return err
	}
	return m.run("systemctl", "--user", "enable", "--now", systemdUnit)
}

// Uninstall unloads the unit and removes it. Unload errors are ignored
// since the unit may not be loaded.
func (m *ServiceManager) Uninstall() error {
	path, err := m.UnitPath()
	if err != nil {
		return err
	}
	if m.goos == "darwin" {
		_ = m.run("launchctl", "unload", path)
	} else {
		_ = m.run("systemctl", "--user", "disable", "--now", systemdUnit)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove unit: %w", err)
	}
	if m.goos == "linux" {
		_ = m.run("systemctl", "--user", "daemon-reload")
	}
	return nil
}

// IsInstalled reports whether the unit file exists.
func (m *ServiceManager) IsInstalled() bool {
	path, err := m.UnitPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
