// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"bluebird/internal/core/version"
	"bluebird/internal/modkit/httpkit"
	perr "bluebird/internal/platform/errors"
)

// readyTimeout bounds all probes of one /ready call
const readyTimeout = 2 * time.Second

// Check is one named readiness probe. A nil Probe reports skipped
type Check struct {
	Name     string
	Probe    func(stdctx.Context) error
	Optional bool
}

// Pinger is satisfied by seams that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// PingCheck probes seam when it implements Pinger; nil seams are skipped
func PingCheck(name string, seam any, optional bool) Check {
	c := Check{Name: name, Optional: optional}
	if seam == nil {
		return c
	}
	if p, ok := seam.(Pinger); ok {
		c.Probe = p.Ping
	}
	return c
}

// ConfiguredCheck fails while an upstream lacks configuration
func ConfiguredCheck(name string, configured func() bool) Check {
	return Check{Name: name, Optional: true, Probe: func(stdctx.Context) error {
		if configured == nil || !configured() {
			return perr.Unavailablef("%s is not configured", name)
		}
		return nil
	}}
}

// Deps are the handler dependencies
type Deps struct {
	StartedAt time.Time
	Checks    []Check
	Now       func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

// HealthResponse is the liveness payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"bluebird-api"`
	Started string `json:"started" example:"2026-05-02T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// ReadyCheck is the outcome of one probe
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-05-02T13:05:00Z"`
}

// swagger:route GET /meta/health Meta metaHealth
// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "alive"
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: version.Service,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness with dependency checks
// @Description A failing required check answers 503; optional ones only degrade
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok or degraded"
// @Failure 503 {object} ReadyResponse "a required dependency failed"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(h.deps.Checks))}
	for _, c := range h.deps.Checks {
		rc := ReadyCheck{Name: c.Name, Status: "ok"}
		switch {
		case c.Probe == nil:
			rc.Status = "skipped"
		default:
			if err := c.Probe(ctx); err != nil {
				rc.Status, rc.Error = "fail", err.Error()
				if c.Optional {
					if out.Status == "ok" {
						out.Status = "degraded"
					}
				} else {
					out.Status = "fail"
				}
			}
		}
		out.Checks = append(out.Checks, rc)
	}
	out.Now = h.deps.Now().UTC().Format(time.RFC3339)

	if out.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}
