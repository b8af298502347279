package httpkit

import (
	"crypto/subtle"
	"net/http"

	perrs "custintel/internal/platform/errors"
	"custintel/internal/platform/net/middleware"
)

// TokenPort implements middleware.AuthPort against one shared bearer token
type TokenPort struct {
	token   []byte
	subject string
}

// NewTokenPort returns a port accepting token and naming its caller subject
// an empty token yields a nil port, which Auth treats as open
func NewTokenPort(token, subject string) middleware.AuthPort {
	if token == "" {
		return nil
	}
	return &TokenPort{token: []byte(token), subject: subject}
}

// Parse checks the Authorization bearer token in constant time
func (p *TokenPort) Parse(r *http.Request) (string, error) {
	raw, err := Bearer(r)
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(raw), p.token) != 1 {
		return "", perrs.Unauthorizedf("invalid bearer token")
	}
	return p.subject, nil
}
