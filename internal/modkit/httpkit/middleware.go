package httpkit

import (
	"compress/flate"
	"time"

	"custintel/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// Origins are the CORS allowed origins; none means same origin only
	Origins []string
	// Timeout bounds each request, 30s when zero
	Timeout time.Duration
	// MaxInFlight caps concurrent requests, 0 means no cap
	MaxInFlight int
	// Slow marks access log lines at warn level, 500ms when zero
	Slow time.Duration
	// QuietPaths are left out of the access log
	QuietPaths []string
}

// CommonStack returns the baseline middleware slice for the versioned api
func CommonStack(o StackOptions) []Middleware {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Slow <= 0 {
		o.Slow = 500 * time.Millisecond
	}
	return []Middleware{
		// tracing / correlation
		middleware.RequestID,
		middleware.RealIP,

		// observability, outside recover so panics still get an access line
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow, Skip: o.QuietPaths}),

		// safety
		middleware.RecoverJSON,
		middleware.Throttle(o.MaxInFlight, o.Timeout),

		// cache / freshness
		middleware.NoCache,

		// cross-origin for the dashboard
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes,
		middleware.Timeout(o.Timeout),
	}
}

// Auth refuses callers p rejects; a nil p is open
func Auth(p middleware.AuthPort) Middleware { return middleware.Auth(p) }
