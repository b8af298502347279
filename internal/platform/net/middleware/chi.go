// Package middleware holds the http middleware of the api stack. Most of it
// is chi's, re-exported so modules never import chi directly.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"

	pstrings "custintel/internal/platform/strings"
)

// Middleware wraps a handler
type Middleware = func(http.Handler) http.Handler

// Re-exported chi middleware
var (
	RequestID    Middleware = chimw.RequestID    // sets X-Request-ID on the context, keeping an inbound one
	RealIP       Middleware = chimw.RealIP       // RemoteAddr from X-Forwarded-For / X-Real-IP
	NoCache      Middleware = chimw.NoCache      // responses are never cached
	StripSlashes Middleware = chimw.StripSlashes // /models/ routes as /models
)

func pass(next http.Handler) http.Handler { return next }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// Compress gzips or deflates responses at level when the client accepts it
func Compress(level int) Middleware { return chimw.Compress(level) }

// Heartbeat answers GET and HEAD on path with a bare 200
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Throttle admits limit requests at once and queues as many more for up to
// wait before answering 429. limit <= 0 admits everything.
func Throttle(limit int, wait time.Duration) Middleware {
	if limit <= 0 {
		return pass
	}
	return chimw.ThrottleBacklog(limit, limit, wait)
}

// RequestSize caps request bodies at n bytes; n <= 0 leaves them uncapped
func RequestSize(n int64) Middleware {
	if n <= 0 {
		return pass
	}
	return chimw.RequestSize(n)
}

// CORSOptions is the subset of go-chi/cors the api configures. Empty lists
// take the defaults below.
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"}
	corsExposed = []string{"X-Request-ID"}
)

// CORS answers preflights for the dashboard origins
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   pstrings.Or(o.AllowedMethods, corsMethods),
		AllowedHeaders:   pstrings.Or(o.AllowedHeaders, corsHeaders),
		ExposedHeaders:   pstrings.Or(o.ExposedHeaders, corsExposed),
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}
