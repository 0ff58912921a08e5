package models

import (
	"errors"
	"fmt"
)

// ErrNoResponse means the request went out but nothing came back
// (connection refused, timeout, DNS failure).
var ErrNoResponse = errors.New("No response received from server")

// APIError is a response received with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("API Error: %d - %s", e.Status, msg)
}

// RequestSetupError is a request that could not even be constructed or
// serialized before being sent.
type RequestSetupError struct {
	Err error
}

func (e *RequestSetupError) Error() string {
	return fmt.Sprintf("Request error: %s", e.Err)
}

func (e *RequestSetupError) Unwrap() error {
	return e.Err
}
