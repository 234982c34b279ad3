package core

import "errors"

var (
	// ErrInvalidSampleRate is returned when a sample rate is zero, negative,
	// NaN or infinite.
	ErrInvalidSampleRate = errors.New("core: sample rate must be finite and > 0")

	// ErrSampleRateTooHigh is returned when a sample rate exceeds the
	// maximum a processor was sized for.
	ErrSampleRateTooHigh = errors.New("core: sample rate exceeds configured maximum")

	// ErrInvalidBlockSize is returned for a negative maximum block size.
	ErrInvalidBlockSize = errors.New("core: block size must be >= 0")
)
