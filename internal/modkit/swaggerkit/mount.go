// Package swaggerkit serves Swagger UI and the OpenAPI document behind it.
//
// The document generated by swag is patched once at mount: pinned to OAS
// 3.0.3, given a server entry, and every operation gets the error envelope
// responses the api can always return.
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	httpSwagger "github.com/swaggo/http-swagger"

	perr "custintel/internal/platform/errors"
	"custintel/internal/platform/logger"
	phttp "custintel/internal/platform/net/http"
)

// Doc is a decoded OpenAPI document
type Doc = map[string]any

// Options configures Mount
type Options struct {
	Enabled bool
	Prefix  string      // UI root, /api/docs when empty
	Server  string      // servers[0].url, /api/v1 when empty
	Version string      // overrides info.version when set
	Patches []func(Doc) // run last, in order
}

// errorResponses are added to operations that do not declare them
var errorResponses = []struct {
	code    perr.ErrorCode
	example string
}{
	{perr.ErrorCodeValidation, "engagement must be one of [low medium high]"},
	{perr.ErrorCodeUnavailable, "lead_quality model is not loaded"},
	{perr.ErrorCodePanic, "internal error"},
}

// Mount serves the UI under o.Prefix and the document at <prefix>/doc.json
func Mount(r phttp.Router, o Options) {
	if !o.Enabled {
		return
	}
	prefix := strings.TrimRight(o.Prefix, "/")
	if prefix == "" {
		prefix = "/api/docs"
	}
	docURL := prefix + "/doc.json"

	body, err := render(source(), o)
	if err != nil {
		logger.Named("swagger").Error().Err(err).Msg("openapi document does not parse")
	}
	r.Get(prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/", http.StatusPermanentRedirect)
	})
	r.Get(docURL, func(w http.ResponseWriter, _ *http.Request) {
		if err != nil {
			http.Error(w, "openapi document unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	})
	r.Handle(prefix+"/*", httpSwagger.Handler(httpSwagger.InstanceName("api"), httpSwagger.URL(docURL)))
}

func render(raw string, o Options) ([]byte, error) {
	var doc Doc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	server := o.Server
	if server == "" {
		server = "/api/v1"
	}

	// the bundled UI renders 3.0 only
	delete(doc, "swagger")
	if v, _ := doc["openapi"].(string); !strings.HasPrefix(v, "3.0") {
		doc["openapi"] = "3.0.3"
	}
	if _, ok := doc["servers"]; !ok {
		doc["servers"] = []any{Doc{"url": server}}
	}
	if o.Version != "" {
		obj(doc, "info")["version"] = o.Version
	}

	schemas := obj(obj(doc, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = envelopeSchema()
	}
	for _, e := range errorResponses {
		status := perr.HTTPStatusCode(e.code)
		eachOperation(doc, func(op Doc) {
			resp := obj(op, "responses")
			if _, ok := resp[strconv.Itoa(status)]; !ok {
				resp[strconv.Itoa(status)] = errorResponse(status, e.code, e.example)
			}
		})
	}

	for _, p := range o.Patches {
		if p != nil {
			p(doc)
		}
	}
	return json.Marshal(doc)
}

// obj returns m[key] as an object, creating it when absent
func obj(m Doc, key string) Doc {
	c, ok := m[key].(map[string]any)
	if !ok {
		c = Doc{}
		m[key] = c
	}
	return c
}

func eachOperation(doc Doc, fn func(op Doc)) {
	paths, _ := doc["paths"].(map[string]any)
	for _, item := range paths {
		methods, _ := item.(map[string]any)
		for _, op := range methods {
			if op, ok := op.(map[string]any); ok {
				fn(op)
			}
		}
	}
}

func envelopeSchema() Doc {
	prop := func(typ string) Doc { return Doc{"type": typ} }
	return Doc{
		"type":        "object",
		"description": "Envelope of a failed request",
		"required":    []any{"status_code", "status", "error"},
		"properties": Doc{
			"status_code": prop("integer"),
			"status":      prop("string"),
			"code":        prop("integer"),
			"error":       prop("string"),
			"field":       prop("string"),
			"request_id":  prop("string"),
		},
	}
}

func errorResponse(status int, code perr.ErrorCode, msg string) Doc {
	text := http.StatusText(status)
	return Doc{
		"description": text,
		"content": Doc{
			"application/json": Doc{
				"schema": Doc{"$ref": "#/components/schemas/ErrorResponse"},
				"example": phttp.Envelope{
					StatusCode: status,
					Status:     text,
					Code:       code,
					Error:      msg,
					RequestID:  "api-7f3c/000042",
				},
			},
		},
	}
}
