package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTransport wraps network failures: DNS, refused connections, timeouts.
	ErrTransport = errors.New("api: transport failure")
	// ErrMalformedResponse wraps bodies that do not decode into the expected shape.
	ErrMalformedResponse = errors.New("api: malformed response")
)

// StatusError is a non-2xx answer, or a 2xx answer carrying an error body.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the server supplied message when there is one, the
// fallback otherwise.
func UserMessage(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && strings.TrimSpace(statusErr.Message) != "" {
		return statusErr.Message
	}
	return fallback
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// errorBody is the structured error the server sends.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}
