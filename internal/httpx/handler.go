// Package httpx adapts handlers that return errors to http.HandlerFunc,
// mapping returned errors onto HTTP status codes.
package httpx

import (
	"errors"
	"net/http"

	"github.com/go-json-experiment/json"
	"golang.org/x/exp/slog"
)

// Error associates an HTTP status code with err.
func Error(code int, err error) error {
	return &StatusError{code, err}
}

// StatusError is an error with an associated HTTP status code.
type StatusError struct {
	Code int
	Err  error
}

func (se *StatusError) Error() string {
	return se.Err.Error()
}

// Status returns the HTTP status code for the error.
func (se *StatusError) Status() int {
	return se.Code
}

// An Env carries per-request dependencies into a handler.
type Env interface {
	Log() *slog.Logger
}

// HandlerFunc adapts a handler that returns an error to an http.HandlerFunc.
// A returned StatusError selects the response code; any other error is a 500.
func HandlerFunc[E Env](envFn func(r *http.Request) E, fn func(E, http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := envFn(r)
		err := fn(env, w, r)
		if err == nil {
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		code := http.StatusInternalServerError
		if se := new(StatusError); errors.As(err, &se) {
			code = se.Status()
		}
		env.Log().Error("request failed", "method", r.Method, "path", r.URL.Path, "status", code, "err", err)
		w.WriteHeader(code)
		json.MarshalFull(w, map[string]any{
			"message": err.Error(),
		})
	}
}
