package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custintel/internal/core/bundle"
	"custintel/internal/core/bundle/bundletest"
	"custintel/internal/core/registry"
	"custintel/internal/platform/metrics"
	phttp "custintel/internal/platform/net/http"
)

func mounted(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, bundle.Save(dir, bundletest.Lead(t)))
	require.NoError(t, bundle.Save(dir, bundletest.Churn(t)))

	m := metrics.New()
	reg := registry.New(registry.Config{ModelsDir: dir, OnLoad: m.Loaded})
	require.NoError(t, reg.LoadAll())

	mux := chi.NewRouter()
	set := Mount(phttp.AdaptChi(mux), Options{Registry: reg, Metrics: m})
	assert.Equal(t, []string{"meta", "models", "predict", "runs"}, set.Names())
	return mux
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestMount_Routes(t *testing.T) {
	h := mounted(t)

	rr := get(h, "/api/v1/meta/health")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"healthy"`)

	rr = get(h, "/api/v1/models")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"kind":"churn"`)

	// no postgres configured
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/api/v1/runs").Code)

	// swagger and profiler are off
	assert.Equal(t, http.StatusNotFound, get(h, "/api/docs/doc.json").Code)
}

func TestMount_ScoresAndExportsMetrics(t *testing.T) {
	h := mounted(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict/lead-quality",
		strings.NewReader(`{"name":"x","city":"Atlantis"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := get(h, "/metrics").Body.String()
	assert.Contains(t, body, `custintel_model_loads_total{model="churn",outcome="ok"} 1`)
	assert.Contains(t, body, `custintel_score_duration_seconds_count{mode="single",model="lead_quality"} 1`)
}

func TestMount_RequiresRegistry(t *testing.T) {
	assert.Panics(t, func() { Mount(phttp.AdaptChi(chi.NewRouter()), Options{}) })
}
