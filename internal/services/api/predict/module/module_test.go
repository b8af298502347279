package module_test

import (
	"encoding/json"
	"maps"
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
	modkit "custintel/internal/modkit"
	"custintel/internal/platform/metrics"
	phttp "custintel/internal/platform/net/http"
	predictmod "custintel/internal/services/api/predict/module"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error"`
	Field      string          `json:"field"`
	Data       json.RawMessage `json:"data"`
}

// server mounts the predict module over a registry holding only the lead bundle
func server(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, bundle.Save(dir, bundletest.Lead(t)))

	reg := registry.New(registry.Config{ModelsDir: dir})
	require.Error(t, reg.LoadAll())

	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	m := predictmod.New(modkit.Deps{Models: reg, Metrics: metrics.New()})
	m.MountRoutes(r)
	return mux
}

func post(t *testing.T, h http.Handler, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

func TestLeadQuality_OK(t *testing.T) {
	h := server(t)

	code, env := post(t, h, "/predict/lead-quality",
		`{"name":"Andrea","city":"Bogotá","budget":60000000,"urgency":5,"service_type":"SEO"}`)
	require.Equal(t, http.StatusOK, code, env.Error)

	var out struct {
		QualityLabel  string             `json:"quality_label"`
		QualityScore  float64            `json:"quality_score"`
		Probabilities map[string]float64 `json:"probabilities"`
		Channel       string             `json:"channel"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "hot", out.QualityLabel)
	assert.Equal(t, "WhatsApp Bot", out.Channel)
	assert.InDelta(t, out.Probabilities["hot"], out.QualityScore, 1e-12)
}

func TestLeadQuality_Validation(t *testing.T) {
	h := server(t)

	cases := []struct {
		name, body string
	}{
		{"missing name", `{"city":"Bogotá"}`},
		{"urgency too high", `{"name":"a","city":"b","urgency":6}`},
		{"negative budget", `{"name":"a","city":"b","budget":-1}`},
		{"unknown field", `{"name":"a","city":"b","color":"red"}`},
		{"not json", `{"name":`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, env := post(t, h, "/predict/lead-quality", c.body)
			assert.Equal(t, http.StatusBadRequest, code, env.Error)
		})
	}
}

func TestLeadQualityBatch_EmptyRejected(t *testing.T) {
	h := server(t)
	code, _ := post(t, h, "/predict/lead-quality/batch", `{"leads":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestChurn_UnavailableIs503(t *testing.T) {
	h := server(t)

	code, env := post(t, h, "/predict/churn",
		`{"client_id":"c1","engagement":"low","satisfaction":"low","days_since_last_purchase":40,"total_spend":0,"average_purchase":0,"transaction_count":0}`)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, env.Error, "churn")
}

func TestChurn_LevelValidation(t *testing.T) {
	h := server(t)

	code, env := post(t, h, "/predict/churn",
		`{"client_id":"c1","engagement":"extreme","satisfaction":"low","days_since_last_purchase":40,"total_spend":0,"average_purchase":0,"transaction_count":0}`)
	require.Equal(t, http.StatusBadRequest, code, env.Error)
	assert.Equal(t, "engagement", env.Field)
	assert.Equal(t, "engagement must be one of [low medium high]", env.Error)

	code, env = post(t, h, "/predict/churn/batch",
		`{"customers":[`+churnBody("a", "low", "low")+`,`+churnBody("b", "low", "furious")+`]}`)
	require.Equal(t, http.StatusBadRequest, code, env.Error)
	assert.Equal(t, "customers[1].satisfaction", env.Field)
}

func churnBody(id, engagement, satisfaction string) string {
	return `{"client_id":"` + id + `","engagement":"` + engagement + `","satisfaction":"` + satisfaction +
		`","days_since_last_purchase":12,"total_spend":1500000,"average_purchase":500000,"transaction_count":3}`
}

func TestChurn_MissingNumbersAre400(t *testing.T) {
	h := server(t)

	full := map[string]any{
		"client_id": "C1", "engagement": "high", "satisfaction": "high",
		"days_since_last_purchase": 12, "total_spend": 1500000, "average_purchase": 500000, "transaction_count": 3,
	}
	for _, field := range []string{"days_since_last_purchase", "total_spend", "average_purchase", "transaction_count"} {
		t.Run(field, func(t *testing.T) {
			in := maps.Clone(full)
			delete(in, field)
			body, err := json.Marshal(in)
			require.NoError(t, err)

			code, env := post(t, h, "/predict/churn", string(body))
			assert.Equal(t, http.StatusBadRequest, code, env.Error)
			assert.Equal(t, field, env.Field)
		})
	}

	code, env := post(t, h, "/predict/churn", `{"client_id":"C1","engagement":"high","satisfaction":"high"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "days_since_last_purchase", env.Field)

	code, env = post(t, h, "/predict/churn", strings.Replace(churnBody("C1", "high", "high"), `"transaction_count":3`, `"transaction_count":2.5`, 1))
	assert.Equal(t, http.StatusBadRequest, code, env.Error)
}
