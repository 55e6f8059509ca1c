package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/influencer-roi/internal/datasource"
	"github.com/ignite/influencer-roi/internal/pkg/httputil"
	"github.com/ignite/influencer-roi/internal/session"
)

// HealthStatus represents the overall health of the system.
type HealthStatus struct {
	Status  string                    `json:"status"`          // "healthy", "degraded", "unhealthy"
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Dataset string                    `json:"dataset_version"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`            // "up", "down", "degraded"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// pinger is implemented by sources that hold a connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports the health of the snapshot store and the data
// source.
type HealthChecker struct {
	store     session.Store
	source    datasource.Source
	startTime time.Time
}

// NewHealthChecker creates a new HealthChecker.
func NewHealthChecker(store session.Store, source datasource.Source) *HealthChecker {
	return &HealthChecker{
		store:     store,
		source:    source,
		startTime: time.Now(),
	}
}

const healthVersion = "1.0.0"

// HandleHealth returns the health status of all components. It always
// answers 200; the status field in the body conveys health.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks, version := hc.runAllChecks(r.Context())

	httputil.OK(w, HealthStatus{
		Status:  determineOverallStatus(checks),
		Version: healthVersion,
		Uptime:  formatUptime(time.Since(hc.startTime)),
		Dataset: version,
		Checks:  checks,
	})
}

// HandleLiveness always returns 200 while the process is running.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status": "alive",
		"uptime": formatUptime(time.Since(hc.startTime)),
	})
}

// HandleReadiness returns 200 only when the store can serve snapshots.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks, _ := hc.runAllChecks(r.Context())
	overall := determineOverallStatus(checks)

	ready := overall != "unhealthy"
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	httputil.JSON(w, status, map[string]any{
		"ready":  ready,
		"status": overall,
		"checks": checks,
	})
}

func (hc *HealthChecker) runAllChecks(ctx context.Context) (map[string]ComponentCheck, string) {
	type result struct {
		name    string
		check   ComponentCheck
		version string
	}
	ch := make(chan result, 2)

	go func() {
		check, version := hc.checkStore(ctx)
		ch <- result{name: "store", check: check, version: version}
	}()
	go func() { ch <- result{name: "source", check: hc.checkSource(ctx)} }()

	checks := make(map[string]ComponentCheck, 2)
	var version string
	for i := 0; i < 2; i++ {
		r := <-ch
		checks[r.name] = r.check
		if r.version != "" {
			version = r.version
		}
	}
	return checks, version
}

// checkStore reads the snapshot with a 2-second timeout.
func (hc *HealthChecker) checkStore(ctx context.Context) (ComponentCheck, string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	ds, err := hc.store.Snapshot(ctx)
	latency := time.Since(start)
	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: fmt.Sprintf("snapshot failed: %v", err),
		}, ""
	}

	check := ComponentCheck{Status: "up", Latency: latency.String(), Message: "snapshot available"}
	if ds.Version == "" {
		check.Status = "degraded"
		check.Message = "no dataset loaded"
	} else if latency > 500*time.Millisecond {
		check.Status = "degraded"
		check.Message = fmt.Sprintf("slow response (%s)", latency)
	}
	return check, ds.Version
}

// checkSource pings sources that hold a connection with a 3-second timeout.
func (hc *HealthChecker) checkSource(ctx context.Context) ComponentCheck {
	p, ok := hc.source.(pinger)
	if !ok {
		return ComponentCheck{Status: "up", Message: hc.source.Name()}
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	latency := time.Since(start)
	if err != nil {
		return ComponentCheck{
			Status:  "down",
			Latency: latency.String(),
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return ComponentCheck{Status: "up", Latency: latency.String(), Message: hc.source.Name()}
}

// determineOverallStatus treats the store as the only hard dependency. A
// down source only blocks reloads, so it degrades.
func determineOverallStatus(checks map[string]ComponentCheck) string {
	if checks["store"].Status == "down" {
		return "unhealthy"
	}
	for _, c := range checks {
		if c.Status != "up" {
			return "degraded"
		}
	}
	return "healthy"
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
