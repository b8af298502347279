package http

import (
	stdhttp "net/http"

	"custintel/internal/platform/net/http/bind"
)

// JSONHandler decodes and validates the body into T before calling fn.
// Bind failures never reach fn.
func JSONHandler[T any](fn func(*stdhttp.Request, T) (any, error)) Handler {
	return Handle(func(r *stdhttp.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return Reply(fn(r, in))
	})
}
