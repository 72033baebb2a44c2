package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from a service.
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return e.Message
}

// newAPIError extracts a displayable message: the detail, message or error
// field of a JSON body, else the raw text, else the status text.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: body}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil && s != "" {
				e.Message = s
				return e
			}
			// FastAPI validation errors carry a list in detail
			e.Message = string(raw)
			return e
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		e.Message = text
		return e
	}
	e.Message = http.StatusText(status)
	if e.Message == "" {
		e.Message = "unexpected status"
	}
	return e
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
