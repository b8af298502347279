// Package http provides model status and reload endpoints
package http

import (
	"net/http"

	"custintel/internal/modkit/httpkit"
	perr "custintel/internal/platform/errors"
	"custintel/internal/platform/logger"
	"custintel/internal/platform/net/middleware"
	"custintel/internal/services/api/models/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Registry domain.Registry
	// AdminReload enables POST /models/{kind}/reload
	AdminReload bool
	// Auth guards reload; nil leaves it open
	Auth middleware.AuthPort
}

type handlers struct {
	deps Deps
}

// Register mounts the model routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/", h.list)
	httpkit.Protected(r, d.Auth, func(gr httpkit.Router) {
		httpkit.Post(gr, "/{kind}/reload", h.reload)
	})
}

// swagger:route GET /models Models modelsList
// @Summary Status of every served model
// @Tags Models
// @Produce json
// @Success 200 {array} domain.ModelStatus "ok"
// @Router /models [get]
func (h *handlers) list(_ *http.Request) (any, error) {
	st := h.deps.Registry.Status()
	out := make([]domain.ModelStatus, 0, len(st))
	for _, s := range st {
		out = append(out, domain.FromRegistry(s))
	}
	return out, nil
}

// swagger:route POST /models/{kind}/reload Models modelsReload
// @Summary Reload a model bundle from disk and swap it in
// @Tags Models
// @Produce json
// @Param kind path string true "lead_quality or churn"
// @Security BearerAuth
// @Success 200 {object} domain.ModelStatus "ok"
// @Failure 401 {object} httpkit.Envelope "missing or invalid admin token"
// @Failure 403 {object} httpkit.Envelope "reload disabled"
// @Failure 404 {object} httpkit.Envelope "unknown model type"
// @Failure 503 {object} httpkit.Envelope "bundle missing or invalid, previous model kept"
// @Router /models/{kind}/reload [post]
func (h *handlers) reload(r *http.Request) (any, error) {
	if !h.deps.AdminReload {
		return nil, perr.Forbiddenf("model reload is disabled")
	}
	kind := httpkit.Param(r, "kind")
	st, err := h.deps.Registry.Reload(kind)
	if err != nil {
		return nil, err
	}
	out := domain.FromRegistry(st)
	logger.C(r.Context()).Info().Str("model", kind).Str("run_id", out.RunID).Msg("model reloaded on request")
	return out, nil
}
