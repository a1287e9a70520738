package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/turtacn/GrayZone-Monitor/internal/application/viewmodel"
)

// HealthChecker is a component that can report its health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type funcChecker struct {
	name string
	fn   func(ctx context.Context) error
}

func (c funcChecker) Name() string                    { return c.name }
func (c funcChecker) Check(ctx context.Context) error { return c.fn(ctx) }

// NewCheck adapts fn to a HealthChecker.
func NewCheck(name string, fn func(ctx context.Context) error) HealthChecker {
	return funcChecker{name: name, fn: fn}
}

// StateReader exposes the refresh state readiness is judged on.
type StateReader interface {
	State() viewmodel.RefreshState
}

// HealthHandler serves the liveness, readiness and detail probes.
type HealthHandler struct {
	state    StateReader
	checkers []HealthChecker
	version  string
	startAt  time.Time
}

func NewHealthHandler(version string, state StateReader, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		state:    state,
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

type ReadinessResponse struct {
	Status     string           `json:"status"`
	ViewStatus viewmodel.Status `json:"view_status"`
	Loaded     bool             `json:"loaded"`
	LastError  string           `json:"last_error,omitempty"`
}

// ComponentCheck is the health of a single dependency.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz.  Always 200 while the process runs.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz.  It answers 503 until a view is loaded and
// whenever the latest refresh failed.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	st := h.state.State()
	resp := ReadinessResponse{
		Status:     "ready",
		ViewStatus: st.Status,
		Loaded:     st.Loaded,
		LastError:  st.LastError,
	}
	if !st.Loaded || st.Failed() {
		resp.Status = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Detailed handles GET /healthz/detail: the optional dependencies probed
// concurrently.  Any unhealthy component yields 503.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := h.checkAll(ctx)
	status, code := "healthy", http.StatusOK
	for _, c := range components {
		if c.Status != "healthy" {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, code, struct {
		Status     string                    `json:"status"`
		Version    string                    `json:"version"`
		Uptime     string                    `json:"uptime"`
		Refresh    viewmodel.RefreshState    `json:"refresh"`
		Components map[string]ComponentCheck `json:"components"`
	}{
		Status:     status,
		Version:    h.version,
		Uptime:     time.Since(h.startAt).Truncate(time.Second).String(),
		Refresh:    h.state.State(),
		Components: components,
	})
}

func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := c.Check(ctx)
			cc := ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = "unhealthy"
				cc.Error = err.Error()
			}

			mu.Lock()
			results[c.Name()] = cc
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

//Personal.AI order the ending
