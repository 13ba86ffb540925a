package llm

import "errors"

var (
	// ErrMissingAPIKey indicates the provider credentials are not configured.
	// Checked at construction time, before any request is made.
	ErrMissingAPIKey = errors.New("llm api key not configured")

	// ErrUnavailable indicates the provider endpoint is unreachable.
	ErrUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the model response could not be parsed
	// into the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrRetryExhausted indicates all retry attempts have been exhausted.
	ErrRetryExhausted = errors.New("llm retry attempts exhausted")
)
