package fetch

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by Client.Fetch is an *Error whose Kind
// is one of these, so errors.Is(err, fetch.ErrNotFound) and friends work.
var (
	// ErrNotFound means the server reported that the article does not exist.
	// It is never retried.
	ErrNotFound = errors.New("article not found")

	// ErrTransient means every attempt failed with a transport error or a
	// retryable status code.
	ErrTransient = errors.New("transient fetch failure")

	// ErrOffSite means the request was redirected outside the base URL.
	ErrOffSite = errors.New("redirected outside the base URL")

	// ErrAdmission means a token could not be obtained from the admission pool.
	ErrAdmission = errors.New("admission pool unavailable")

	// ErrParse means the response was not an article page.
	ErrParse = errors.New("article parse failure")

	// ErrCanceled means the caller's context ended while the fetch was waiting.
	ErrCanceled = errors.New("fetch canceled")
)

// ErrPoolClosed is returned by AdmissionPool.Acquire after Close.
var ErrPoolClosed = errors.New("admission pool closed")

// ErrInvalidBaseURL is returned by New when the base URL is not absolute or
// does not end in "/".
var ErrInvalidBaseURL = errors.New("invalid base URL: must be absolute and end with /")

// Error describes a terminal fetch failure.
type Error struct {
	// Endpoint is the endpoint that was requested.
	Endpoint string

	// Kind is one of the failure kind sentinels.
	Kind error

	// Attempts is the number of requests sent for this fetch.
	Attempts int

	// StatusCode is the last HTTP status received, or 0.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %q: %v", e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// statusError is the cause recorded for an unexpected HTTP status.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.code)
}
