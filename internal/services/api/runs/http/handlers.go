// Package http provides the training run listing endpoint
package http

import (
	"net/http"
	"strconv"

	"custintel/internal/modkit/httpkit"
	perr "custintel/internal/platform/errors"
	"custintel/internal/services/runs/domain"
)

// Register mounts the runs routes
func Register(r httpkit.Router, q domain.QueryPort) {
	h := &handlers{q: q}
	httpkit.Get(r, "/", h.list)
}

type handlers struct{ q domain.QueryPort }

// swagger:route GET /runs Runs runsList
// @Summary Recent training runs, newest first
// @Tags Runs
// @Produce json
// @Param kind query string false "lead_quality or churn"
// @Param limit query int false "max rows"
// @Success 200 {array} domain.Run "ok"
// @Failure 503 {object} httpkit.Envelope "run ledger disabled"
// @Router /runs [get]
func (h *handlers) list(r *http.Request) (any, error) {
	q := r.URL.Query()
	limit := 0
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, perr.WithField(perr.InvalidArgf("limit %q must be a positive integer", s), "limit")
		}
		limit = n
	}
	return h.q.Recent(r.Context(), q.Get("kind"), limit)
}
