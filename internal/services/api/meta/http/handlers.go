// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"custintel/internal/core/registry"
	"custintel/internal/core/version"
	"custintel/internal/modkit/httpkit"
)

// PingTimeout bounds each readiness ping
const PingTimeout = 2 * time.Second

// Pinger is a dependency readiness can probe
type Pinger interface {
	Ping(context.Context) error
}

// Models reports the load state of each model type
type Models interface {
	Status() []registry.Status
}

// Deps are the handler dependencies; a nil PG reports skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Models      Models
	PG          Pinger
}

type handlers struct {
	Deps
	now func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{Deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// swagger:route GET /meta/health Meta metaHealth
// @Summary Health check with per model load state
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	out := HealthResponse{
		Status:  "healthy",
		Models:  map[string]bool{},
		Message: "all models loaded",
		Service: h.ServiceName,
		Started: stamp(h.StartedAt),
		Now:     stamp(h.now()),
	}
	if h.Models == nil {
		out.Status, out.Message = "degraded", "no model registry"
		return out, nil
	}
	for _, s := range h.Models.Status() {
		out.Models[s.Kind] = s.Loaded
		if !s.Loaded {
			out.Status, out.Message = "degraded", "some models not loaded; run training first"
		}
	}
	return out, nil
}

// swagger:route GET /meta/ready Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	checks := []ReadyCheck{h.modelsCheck(), h.ping(r.Context(), "pg", h.PG)}

	out := ReadyResponse{Status: "ok", Checks: checks, Now: stamp(h.now())}
	for _, c := range checks {
		switch {
		case c.Status == CheckFail:
			out.Status = "fail"
		case c.Status == CheckPartial && out.Status == "ok":
			out.Status = "degraded"
		}
	}
	return out, nil
}

func (h *handlers) ping(ctx context.Context, name string, p Pinger) ReadyCheck {
	if p == nil {
		return ReadyCheck{Name: name, Status: CheckSkipped}
	}
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return ReadyCheck{Name: name, Status: CheckFail, Error: err.Error()}
	}
	return ReadyCheck{Name: name, Status: CheckOK}
}

// modelsCheck fails only when no model type can serve
func (h *handlers) modelsCheck() ReadyCheck {
	c := ReadyCheck{Name: "models", Status: CheckOK}
	if h.Models == nil {
		c.Status, c.Error = CheckFail, "no model registry"
		return c
	}
	var loaded, total int
	for _, s := range h.Models.Status() {
		total++
		if s.Loaded {
			loaded++
		} else if c.Error == "" {
			c.Error = s.Reason
		}
	}
	switch loaded {
	case total:
		c.Error = ""
	case 0:
		c.Status = CheckFail
	default:
		c.Status = CheckPartial
	}
	return c
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) { return version.Info(h.ServiceName), nil }

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse "ok"
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: stamp(h.StartedAt),
		Uptime:  int64(h.now().Sub(h.StartedAt) / time.Second),
	}, nil
}
