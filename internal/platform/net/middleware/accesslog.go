package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"custintel/internal/platform/logger"
	pnet "custintel/internal/platform/net"
)

// AccessLogOptions tunes AccessLogZerolog
type AccessLogOptions struct {
	Slow time.Duration  // lines at or over Slow log at warn; 0 never
	Skip []string       // exact paths left out, e.g. /metrics
	Log  *logger.Logger // nil logs through the process root
}

// AccessLogZerolog writes one line per request with status, size, elapsed
// and the matched chi route. It also puts the request id where logger.C
// finds it, so handler lines share it.
func AccessLogZerolog(opt AccessLogOptions) Middleware {
	skip := make(map[string]bool, len(opt.Skip))
	for _, p := range opt.Skip {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := pnet.RequestID(r.Context())
			if id != "" {
				r = r.WithContext(logger.WithRequest(r.Context(), id, ""))
			}
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)

			log := logger.C(r.Context())
			if opt.Log != nil {
				l := *opt.Log
				if id != "" {
					l = l.With().Str("request_id", id).Logger()
				}
				log = &l
			}
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", routePattern(r)).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", elapsed).
				Msg("request done")
		})
	}
}

// routePattern is the chi pattern that served r, "" outside chi
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}
