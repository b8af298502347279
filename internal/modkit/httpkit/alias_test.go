package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "custintel/internal/platform/errors"
)

func callEnvelope(t *testing.T, fn func(*http.Request) (any, error)) (int, Envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	Call(fn)(rec, httptest.NewRequest(http.MethodGet, "/models", nil))
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec.Code, env
}

func TestCall(t *testing.T) {
	code, env := callEnvelope(t, func(*http.Request) (any, error) { return map[string]any{"kind": "churn"}, nil })
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"kind": "churn"}, env.Data)

	code, env = callEnvelope(t, func(*http.Request) (any, error) {
		return Response{Status: http.StatusAccepted, Body: "reloading"}, nil
	})
	assert.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, "reloading", env.Data)

	for err, want := range map[error]int{
		errors.New("nah"):                            http.StatusInternalServerError,
		perr.Unavailablef("churn is not loaded"):     http.StatusServiceUnavailable,
		perr.NotFoundf("unknown model type %q", "x"): http.StatusNotFound,
	} {
		code, env = callEnvelope(t, func(*http.Request) (any, error) { return nil, err })
		assert.Equal(t, want, code)
		assert.Equal(t, want, env.StatusCode)
		assert.NotEmpty(t, env.Error)
		assert.Nil(t, env.Data)
	}
}
