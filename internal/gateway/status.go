package gateway

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"hirelink/internal/jsonx"
)

// StatusError is a non-2xx response from the API. Detail and Message hold
// the server's explanation when the body carried one.
type StatusError struct {
	StatusCode int
	Path       string
	Detail     string
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := e.Detail
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s responded %d: %s", e.Path, e.StatusCode, msg)
}

// errorBody is the shape of API error responses. detail is a string for
// application errors and a list of objects for request validation errors.
type errorBody struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
}

func newStatusError(path string, status int, body []byte) *StatusError {
	se := &StatusError{StatusCode: status, Path: path, Body: body}

	var eb errorBody
	if len(body) == 0 || jsonx.Unmarshal(body, &eb) != nil {
		return se
	}
	se.Message = eb.Message

	switch d := eb.Detail.(type) {
	case string:
		se.Detail = d
	case []any:
		var msgs []string
		for _, item := range d {
			if m, ok := item.(map[string]any); ok {
				if s, ok := m["msg"].(string); ok && s != "" {
					msgs = append(msgs, s)
				}
			}
		}
		se.Detail = strings.Join(msgs, "; ")
	}
	return se
}

// Detail returns the server's detail for a failed call, or "" when err does
// not carry one.
func Detail(err error) string {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se.Detail
	}
	return ""
}

// ServerMessage returns the server's message field, falling back to detail.
func ServerMessage(err error) string {
	var se *StatusError
	if !stderrors.As(err, &se) {
		return ""
	}
	if se.Message != "" {
		return se.Message
	}
	return se.Detail
}

// StatusCode returns the HTTP status of a failed call, or 0 for failures
// that never produced a response.
func StatusCode(err error) int {
	var se *StatusError
	if stderrors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
