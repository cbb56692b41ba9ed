package core

import (
	"errors"
	"fmt"
)

// FallbackErrorMessage is shown when a failure carries no usable description
const FallbackErrorMessage = "Failed to connect to the backend server."

// FailureKind discriminates the failures an analysis can end with
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureHTTP
	FailureTransport
	FailureMalformedResponse
)

func (k FailureKind) String() string {
	switch k {
	case FailureHTTP:
		return "http"
	case FailureTransport:
		return "transport"
	case FailureMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// HTTPError is returned when the service answers with a non-2xx status
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Server error (%d)", e.Status)
}

// TransportError is returned when no response was received
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return FallbackErrorMessage
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a 2xx body cannot be decoded
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return FallbackErrorMessage
	}
	return e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err
func KindOf(err error) FailureKind {
	var httpErr *HTTPError
	var transportErr *TransportError
	var malformedErr *MalformedResponseError

	switch {
	case errors.As(err, &httpErr):
		return FailureHTTP
	case errors.As(err, &transportErr):
		return FailureTransport
	case errors.As(err, &malformedErr):
		return FailureMalformedResponse
	default:
		return FailureUnknown
	}
}

// DisplayMessage projects a failure onto the single user-visible string
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackErrorMessage
}
