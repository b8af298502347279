package httpkit

import (
	"net/http"
	"strings"

	perrs "custintel/internal/platform/errors"
	pnet "custintel/internal/platform/net"
)

// Subject returns the authenticated caller from the request context
func Subject(r *http.Request) (string, error) {
	sub := pnet.Subject(r.Context())
	if sub == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return sub, nil
}

// Bearer returns the raw bearer token from the Authorization header
func Bearer(r *http.Request) (string, error) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	if raw == "" {
		return "", perrs.Unauthorizedf("missing bearer token")
	}
	return raw, nil
}
