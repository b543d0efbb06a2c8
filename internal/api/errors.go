package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yndnr/moneygrowth-go/internal/core/domain"
)

// Error is the single failure shape returned by Client.
//
// Status is 0 when no response was received (connection refused, timeout,
// cancelled context). Detail is the backend-supplied message, if any.
type Error struct {
	Op     string
	Method string
	URL    string
	Status int
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.URL)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the transport or decode cause.
func (e *Error) Unwrap() error { return e.Err }

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound reports a 404 response. Latest and history reads use it to
// tell "no data yet" apart from a failure.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports a 401 response.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsTransport reports a failure where no response was received.
func IsTransport(err error) bool {
	e, ok := asError(err)
	return ok && e.Status == 0
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.Status
	}
	return 0
}

// Detail returns the backend-supplied message carried by err, or "".
func Detail(err error) string {
	if e, ok := asError(err); ok {
		return e.Detail
	}
	return ""
}

// Message picks user-facing text for err: the backend detail when present,
// the validation message for client-side checks, else fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if d := Detail(err); d != "" {
		return d
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		if de.Details != "" {
			return de.Message + ": " + de.Details
		}
		return de.Message
	}
	return fallback
}

// errorBody covers the error shapes the backend produces: FastAPI's
// {"detail": "..."}, its validation list {"detail": [{"msg": ...}]}, and a
// generic {"message": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

// parseDetail extracts a human-readable message from an error body.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(eb.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	return eb.Message
}
