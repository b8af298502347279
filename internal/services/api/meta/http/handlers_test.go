package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"custintel/internal/core/registry"
	"custintel/internal/core/version"
)

type fakeModels []registry.Status

func (f fakeModels) Status() []registry.Status { return f }

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

var started = time.Date(2025, 9, 3, 13, 0, 0, 0, time.UTC)

func newHandlers(d Deps) *handlers {
	d.ServiceName = "custintel-api"
	d.StartedAt = started
	return &handlers{Deps: d, now: func() time.Time { return started.Add(5 * time.Minute) }}
}

func both(lead, churn bool) fakeModels {
	return fakeModels{
		{Kind: "lead_quality", Loaded: lead, Reason: reason(lead)},
		{Kind: "churn", Loaded: churn, Reason: reason(churn)},
	}
}

func reason(loaded bool) string {
	if loaded {
		return ""
	}
	return "bundle: missing model.json"
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest("GET", "/meta/health", nil)

	out, err := newHandlers(Deps{Models: both(true, true)}).health(req)
	require.NoError(t, err)
	h := out.(HealthResponse)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, map[string]bool{"lead_quality": true, "churn": true}, h.Models)
	assert.Equal(t, "2025-09-03T13:05:00Z", h.Now)

	out, err = newHandlers(Deps{Models: both(true, false)}).health(req)
	require.NoError(t, err)
	h = out.(HealthResponse)
	assert.Equal(t, "degraded", h.Status)
	assert.False(t, h.Models["churn"])
	assert.Contains(t, h.Message, "training")
}

func TestReady(t *testing.T) {
	cases := []struct {
		name    string
		deps    Deps
		overall string
		models  string
		pg      string
	}{
		{"all ok", Deps{Models: both(true, true), PG: pinger{}}, "ok", "ok", "ok"},
		{"pg disabled", Deps{Models: both(true, true)}, "ok", "ok", "skipped"},
		{"one model", Deps{Models: both(false, true)}, "degraded", "partial", "skipped"},
		{"no models", Deps{Models: both(false, false), PG: pinger{}}, "fail", "fail", "ok"},
		{"pg down", Deps{Models: both(true, true), PG: pinger{err: errors.New("refused")}}, "fail", "ok", "fail"},
		{"pg slow", Deps{Models: both(true, true), PG: pinger{err: context.DeadlineExceeded}}, "fail", "ok", "fail"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := newHandlers(c.deps).ready(httptest.NewRequest("GET", "/meta/ready", nil))
			require.NoError(t, err)
			r := out.(ReadyResponse)
			assert.Equal(t, c.overall, r.Status)
			require.Len(t, r.Checks, 2)
			assert.Equal(t, c.models, r.Checks[0].Status)
			assert.Equal(t, c.pg, r.Checks[1].Status)
		})
	}
}

func TestServiceAndVersion(t *testing.T) {
	h := newHandlers(Deps{})
	req := httptest.NewRequest("GET", "/meta/service", nil)

	out, err := h.service(req)
	require.NoError(t, err)
	assert.Equal(t, ServiceResponse{Name: "custintel-api", Started: "2025-09-03T13:00:00Z", Uptime: 300}, out)

	out, err = h.version(req)
	require.NoError(t, err)
	assert.Equal(t, "custintel-api", out.(version.BuildInfo).Service)
}
