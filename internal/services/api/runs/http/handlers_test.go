package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	phttp "custintel/internal/platform/net/http"
	"custintel/internal/services/runs/domain"
	"custintel/internal/services/runs/service"
)

type fakeQuery struct {
	kind  string
	limit int
}

func (f *fakeQuery) Recent(_ context.Context, kind string, limit int) ([]domain.Run, error) {
	f.kind, f.limit = kind, limit
	return []domain.Run{{ID: "r1", Kind: kind}}, nil
}

func serve(q domain.QueryPort, target string) *httptest.ResponseRecorder {
	mux := chi.NewRouter()
	phttp.AdaptChi(mux).Route("/runs", func(r phttp.Router) { Register(r, q) })
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestList(t *testing.T) {
	q := &fakeQuery{}
	rr := serve(q, "/runs?kind=churn&limit=5")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "churn", q.kind)
	assert.Equal(t, 5, q.limit)
	assert.Contains(t, rr.Body.String(), `"id":"r1"`)

	q = &fakeQuery{}
	serve(q, "/runs")
	assert.Equal(t, 0, q.limit)
}

func TestList_BadLimit(t *testing.T) {
	for _, target := range []string{"/runs?limit=abc", "/runs?limit=0", "/runs?limit=-3"} {
		rr := serve(&fakeQuery{}, target)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, target)
	}
}

func TestList_Disabled(t *testing.T) {
	rr := serve(service.Disabled{}, "/runs")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
