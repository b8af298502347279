package httpkit

import (
	"net/http"
	"strings"
)

// Version headers and the current api version
const (
	VersionHeader = "API-Version"
	V1            = "v1"
)

// MountAPI mounts the routes mount registers under /api/<version>, behind mw.
// Every response under it carries VersionHeader.
func MountAPI(r Router, version string, mw []Middleware, mount func(Router)) {
	version = strings.Trim(version, "/")
	stamp := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set(VersionHeader, version)
			next.ServeHTTP(w, req)
		})
	}
	r.Route("/api/"+version, func(api Router) {
		api.Use(append([]Middleware{stamp}, mw...)...)
		mount(api)
	})
}

// MountAPIV1 is MountAPI for V1
func MountAPIV1(r Router, mw []Middleware, mount func(Router)) { MountAPI(r, V1, mw, mount) }
