// Package httpkit is the routing surface modules build on: the platform
// router and envelope types re-exported, plus handler sugar, auth and the
// shared middleware stack. Modules import it instead of platform/net/http.
package httpkit

import (
	"net/http"

	phttp "custintel/internal/platform/net/http"
	"custintel/internal/platform/net/middleware"
)

type (
	Envelope   = phttp.Envelope
	Response   = phttp.Response
	Handler    = phttp.Handler
	Router     = phttp.Router
	Middleware = middleware.Middleware
)

// Call adapts a handler without a request body. A returned Response is sent
// as is; any other value is the 200 payload.
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response { return phttp.Reply(fn(r)) })
}

// Param returns the path parameter key, e.g. kind in /models/{kind}
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }
