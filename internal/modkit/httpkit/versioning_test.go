package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phttp "custintel/internal/platform/net/http"
)

func TestMountAPI_PrefixVersionHeaderAndMiddleware(t *testing.T) {
	mux := chi.NewRouter()
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	mounted := 0
	MountAPI(phttp.AdaptChi(mux), "/v2/", []Middleware{mw("a"), mw("b")}, func(api Router) {
		mounted++
		api.Get("/models", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})
	require.Equal(t, 1, mounted)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v2/models", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "v2", rr.Header().Get(VersionHeader))
	assert.Equal(t, []string{"a", "b"}, order)

	// routes outside the prefix are untouched
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/models", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Empty(t, rr.Header().Get(VersionHeader))
}

func TestMountAPIV1_NoMiddleware(t *testing.T) {
	mux := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(mux), nil, func(api Router) {
		api.Post("/predict/churn", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/predict/churn", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "v1", rr.Header().Get(VersionHeader))
}
