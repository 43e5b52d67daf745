package endpoint

import (
	"errors"
	"fmt"
)

// Decode errors. Each malformed-input case has its own sentinel so that
// callers can tell them apart with errors.Is.
var (
	// ErrOddLengthHex is returned when a buffered hex run has an odd number of characters.
	ErrOddLengthHex = errors.New("hex run has an odd number of characters")

	// ErrInvalidHex is returned when a pair in a hex run is not a hexadecimal byte.
	ErrInvalidHex = errors.New("hex pair is not a valid byte")

	// ErrInvalidUTF8 is returned when the decoded bytes are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("decoded bytes are not valid UTF-8")

	// ErrIncompleteParse is returned when the input ends inside a percent escape.
	ErrIncompleteParse = errors.New("input ended on an incomplete percent escape")
)

// DecodeError reports which endpoint failed to decode and why.
type DecodeError struct {
	// Endpoint is the raw input passed to Decode.
	Endpoint string

	// Err is one of the Err* sentinels of this package.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode endpoint %q: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
