// Package http provides http transport for predictions
package http

import (
	stdhttp "net/http"
	"sync"

	"custintel/internal/core/codebook"
	"custintel/internal/modkit/httpkit"
	"custintel/internal/platform/logger"
	"custintel/internal/platform/net/http/bind"
	"custintel/internal/services/api/predict/domain"
	svc "custintel/internal/services/api/predict/service"
)

var levelOnce sync.Once

// Register mounts prediction endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	levelOnce.Do(func() {
		// engagement and satisfaction share the low|medium|high vocabulary
		lv := codebook.Engagement()
		if err := bind.RegisterOneOf("level", lv.Has, lv.Labels()); err != nil {
			logger.Get().Error().Err(err).Msg("register level validation")
		}
	})
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.LeadInput](r, "/lead-quality", h.lead)
	httpkit.PostJSON[domain.LeadBatchInput](r, "/lead-quality/batch", h.leadBatch)

	httpkit.PostJSON[domain.ChurnInput](r, "/churn", h.churn)
	httpkit.PostJSON[domain.ChurnBatchInput](r, "/churn/batch", h.churnBatch)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /predict/lead-quality Predict predictLead
// @Summary Score the quality of one lead
// @Tags Predict
// @Accept json
// @Produce json
// @Param payload body domain.LeadInput true "Lead"
// @Success 200 {object} domain.LeadOutput "ok"
// @Failure 503 {object} httpkit.Envelope "lead model not trained"
// @Router /predict/lead-quality [post]
func (h *handlers) lead(r *stdhttp.Request, in domain.LeadInput) (any, error) {
	return h.svc.Lead(r.Context(), in)
}

// swagger:route POST /predict/lead-quality/batch Predict predictLeadBatch
// @Summary Score many leads, results in input order
// @Tags Predict
// @Accept json
// @Produce json
// @Param payload body domain.LeadBatchInput true "Leads"
// @Success 200 {array} domain.LeadOutput "ok"
// @Router /predict/lead-quality/batch [post]
func (h *handlers) leadBatch(r *stdhttp.Request, in domain.LeadBatchInput) (any, error) {
	return h.svc.LeadBatch(r.Context(), in)
}

// swagger:route POST /predict/churn Predict predictChurn
// @Summary Churn probability and risk level of one customer
// @Tags Predict
// @Accept json
// @Produce json
// @Param payload body domain.ChurnInput true "Customer"
// @Success 200 {object} domain.ChurnOutput "ok"
// @Failure 503 {object} httpkit.Envelope "churn model not trained"
// @Router /predict/churn [post]
func (h *handlers) churn(r *stdhttp.Request, in domain.ChurnInput) (any, error) {
	return h.svc.Churn(r.Context(), in)
}

// swagger:route POST /predict/churn/batch Predict predictChurnBatch
// @Summary Score many customers, results in input order
// @Tags Predict
// @Accept json
// @Produce json
// @Param payload body domain.ChurnBatchInput true "Customers"
// @Success 200 {array} domain.ChurnOutput "ok"
// @Router /predict/churn/batch [post]
func (h *handlers) churnBatch(r *stdhttp.Request, in domain.ChurnBatchInput) (any, error) {
	return h.svc.ChurnBatch(r.Context(), in)
}
