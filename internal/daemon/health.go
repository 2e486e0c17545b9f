package daemon

import (
	"runtime"
	"sort"
	"sync"
	"time"
)

// Health status values.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus is the body served on /health.
type HealthStatus struct {
	Status        string        `json:"status"`
	Version       string        `json:"version,omitempty"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	MemoryMB      float64       `json:"memory_mb"`
	Goroutines    int           `json:"goroutines"`
	Banners       int           `json:"banners"`
	Checks        []CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one named health check.
type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthChecker aggregates named checks into a HealthStatus.
type HealthChecker struct {
	mu        sync.RWMutex
	startTime time.Time
	version   string
	checks    map[string]func() error
	banners   func() int
}

// NewHealthChecker creates a checker reporting version.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		version:   version,
		checks:    make(map[string]func() error),
	}
}

// AddCheck registers a named check. A non-nil error marks the daemon
// unhealthy.
func (h *HealthChecker) AddCheck(name string, check func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// SetBannerCounter reports the number of in-app notification banners.
func (h *HealthChecker) SetBannerCounter(f func() int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.banners = f
}

// Check runs every registered check.
func (h *HealthChecker) Check() *HealthStatus {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	h.mu.RLock()
	defer h.mu.RUnlock()

	status := &HealthStatus{
		Status:        StatusHealthy,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(mem.Alloc) / 1024 / 1024,
		Goroutines:    runtime.NumGoroutine(),
	}
	if h.banners != nil {
		status.Banners = h.banners()
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		res := CheckResult{Name: name, Healthy: true}
		if err := h.checks[name](); err != nil {
			res.Healthy = false
			res.Error = err.Error()
			status.Status = StatusUnhealthy
		}
		status.Checks = append(status.Checks, res)
	}
	return status
}

// IsHealthy reports whether every check passed.
func (s *HealthStatus) IsHealthy() bool {
	return s.Status == StatusHealthy
}

// Uptime returns the time since the checker was created.
func (h *HealthChecker) Uptime() time.Duration {
	return time.Since(h.startTime)
}
