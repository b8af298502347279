// Package http writes every response in one JSON envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "custintel/internal/platform/errors"
	pnet "custintel/internal/platform/net"
)

// Envelope is the body of every response, success or failure
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// RequestIDHeader echoes the request id on every enveloped response
const RequestIDHeader = "X-Request-ID"

// JSON writes v with status as application/json
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is a handler result. An error Body decides the status itself;
// anything else goes out as Data under Status, 200 when zero.
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// OK wraps data in a 200
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error wraps err; see perr.HTTPStatus for the status
func Error(err error) Response { return Response{Body: err} }

// Reply folds a (value, error) handler result into a Response. A Response
// value is passed through so handlers can set headers or a status.
func Reply(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// Handle adapts a Response returning func to net/http
func Handle(h func(*stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).Write(w, r) }
}

// WriteError writes err as an envelope; middleware uses it to refuse a request
func WriteError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) { Error(err).Write(w, r) }

// Write sends resp as an envelope carrying r's request id
func (resp Response) Write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	h := w.Header()
	for k, vv := range resp.Header {
		for _, v := range vv {
			h.Add(k, v)
		}
	}
	env := Envelope{StatusCode: resp.Status, RequestID: pnet.RequestID(r.Context())}
	if env.RequestID != "" {
		h.Set(RequestIDHeader, env.RequestID)
	}

	switch body := resp.Body.(type) {
	case error:
		wire := perr.WireFrom(body)
		env.StatusCode = perr.HTTPStatus(body)
		env.Code, env.Error, env.Field = wire.Code, wire.Message, wire.Field
	default:
		if env.StatusCode == 0 {
			env.StatusCode = stdhttp.StatusOK
		}
		env.Data = body
	}
	env.Status = stdhttp.StatusText(env.StatusCode)
	JSON(w, env.StatusCode, env)
}
