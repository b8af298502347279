package middleware

import (
	"net/http"

	"custintel/internal/platform/logger"
	pnet "custintel/internal/platform/net"
	phttp "custintel/internal/platform/net/http"
)

// AuthPort identifies the caller of a request
type AuthPort interface {
	// Parse returns the caller subject, or the error to refuse the request with
	Parse(r *http.Request) (subject string, err error)
}

// Auth refuses requests p rejects with an error envelope and puts the
// subject on the context of the rest. A nil p is open.
func Auth(p AuthPort) Middleware {
	if p == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, err := p.Parse(r)
			if err != nil {
				logger.C(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("request refused")
				phttp.WriteError(w, r, err)
				return
			}
			ctx := pnet.WithSubject(r.Context(), sub)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
