package http

import (
	stdhttp "net/http"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler mounts pprof under prefix, e.g. /debug/pprof/, behind guard
// guard is typically the admin bearer check; with none the endpoints are open
func MountProfiler(r Router, prefix string, enabled bool, guard ...func(stdhttp.Handler) stdhttp.Handler) {
	if !enabled {
		return
	}
	h := stdhttp.StripPrefix(prefix, mw.Profiler()).ServeHTTP
	r.Group(func(g Router) {
		if len(guard) > 0 {
			g.Use(guard...)
		}
		g.Get(prefix, h)
		g.Get(prefix+"/*", h)
	})
}
