package core

import "math"

// ValidateSampleRate returns ErrInvalidSampleRate unless sampleRate is a
// finite positive number.
func ValidateSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return ErrInvalidSampleRate
	}

	return nil
}

// CheckSampleRate validates sampleRate against the largest rate a
// processor sized its buffers for.
func CheckSampleRate(sampleRate, maxSampleRate float64) error {
	if err := ValidateSampleRate(sampleRate); err != nil {
		return err
	}
	if sampleRate > maxSampleRate {
		return ErrSampleRateTooHigh
	}

	return nil
}

// CheckBlockSize rejects negative block sizes. Zero means "unknown".
func CheckBlockSize(n int) error {
	if n < 0 {
		return ErrInvalidBlockSize
	}

	return nil
}
