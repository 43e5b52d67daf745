package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be checked with
// errors.Is().
var (
	// ErrNoArticle is returned when no starting article is given and a random
	// start was not requested.
	ErrNoArticle = errors.New("no starting article specified")

	// ErrInvalidHops is returned when the hop count is not positive.
	ErrInvalidHops = errors.New("invalid hop count: must be a positive integer")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute URL
	// ending in "/".
	ErrInvalidBaseURL = errors.New("invalid base URL: must be absolute and end with /")

	// ErrInvalidMaxAttempts is returned when the attempt count is not positive.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")

	// ErrInvalidBackoffInterval is returned when the backoff interval is negative.
	ErrInvalidBackoffInterval = errors.New("invalid backoff interval: must be non-negative")

	// ErrInvalidMaxInFlight is returned when the admission cap is not positive.
	ErrInvalidMaxInFlight = errors.New("invalid max in-flight requests: must be positive")

	// ErrInvalidRoundConcurrency is returned when the per-round limit is not positive.
	ErrInvalidRoundConcurrency = errors.New("invalid round concurrency: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")
)
