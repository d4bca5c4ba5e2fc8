package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const probeTimeout = 3 * time.Second

// Overall and per-component health states.
const (
	healthOK       = "ok"
	healthDegraded = "degraded"
	healthDown     = "down"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type sessionCounter interface {
	Len() int
}

// Check is one component probed by the health endpoints. A failing
// critical check fails readiness; others only degrade /health.
type Check struct {
	Name     string
	Critical bool
	Probe    func(ctx context.Context) (detail string, err error)
}

// DatabaseCheck pings the account store.
func DatabaseCheck(db dbPinger) Check {
	return Check{
		Name:     "database",
		Critical: true,
		Probe: func(ctx context.Context) (string, error) {
			return "", db.Ping(ctx)
		},
	}
}

// SessionsCheck reports the number of live sessions.
func SessionsCheck(sessions sessionCounter) Check {
	return Check{
		Name: "sessions",
		Probe: func(context.Context) (string, error) {
			return strconv.Itoa(sessions.Len()), nil
		},
	}
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	checks  []Check
	version string
}

// NewHealthHandler creates a HealthHandler over the given checks.
func NewHealthHandler(version string, checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks, version: version}
}

// HealthResponse is the JSON response for the health endpoints.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: healthOK, Timestamp: time.Now()})
}

// Ready runs the critical checks: 200 if all pass, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status, _ := h.run(r.Context(), true)
	writeJSON(w, httpStatus(status), HealthResponse{Status: status, Timestamp: time.Now()})
}

// Health runs every check and reports each component with its latency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status, components := h.run(r.Context(), false)
	writeJSON(w, httpStatus(status), HealthResponse{
		Status:     status,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) run(ctx context.Context, criticalOnly bool) (string, map[string]CompStatus) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	overall := healthOK
	components := make(map[string]CompStatus, len(h.checks))

	for _, c := range h.checks {
		if criticalOnly && !c.Critical {
			continue
		}

		start := time.Now()
		detail, err := c.Probe(ctx)
		latency := time.Since(start)

		if err != nil {
			components[c.Name] = CompStatus{Status: healthDown, Error: err.Error()}
			switch {
			case c.Critical:
				overall = healthDown
			case overall == healthOK:
				overall = healthDegraded
			}
			continue
		}
		components[c.Name] = CompStatus{Status: healthOK, Latency: latency.String(), Detail: detail}
	}

	return overall, components
}

func httpStatus(health string) int {
	if health == healthDown {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
