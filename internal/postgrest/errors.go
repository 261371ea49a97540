package postgrest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by a StatusError for a missing row or table
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response from the backend
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed: HTTP %d", e.Method, e.Path, e.Status)
}

// Is matches ErrNotFound. PostgREST answers 406 when a single object was
// requested and no row matched.
func (e *StatusError) Is(target error) bool {
	if target != ErrNotFound {
		return false
	}
	return e.Status == http.StatusNotFound || e.Status == http.StatusNotAcceptable
}

// Detail returns the PostgREST error message, or the raw body
func (e *StatusError) Detail() string {
	var body struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil || body.Message == "" {
		return e.Body
	}
	if body.Details != "" {
		return body.Message + ": " + body.Details
	}
	return body.Message
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
