package links

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when the calculator has no layer to expand.
	ErrNotInitialized = errors.New("link calculator has no layers")

	// ErrConcurrency is returned when a work unit ended abnormally.
	ErrConcurrency = errors.New("work unit terminated abnormally")

	// ErrNegativeCount is returned by ComputeLayers for a negative count.
	ErrNegativeCount = errors.New("layer count must not be negative")
)

// RoundError reports the endpoint whose failure aborted a round.
type RoundError struct {
	// Layer is the index of the layer the round was computing.
	Layer int

	// Endpoint is the member of the previous layer whose unit failed.
	Endpoint string

	// Err is the unit's error.
	Err error
}

// Error implements the error interface.
func (e *RoundError) Error() string {
	return fmt.Sprintf("computing layer %d: endpoint %q: %v", e.Layer, e.Endpoint, e.Err)
}

// Unwrap returns the unit's error.
func (e *RoundError) Unwrap() error {
	return e.Err
}
