package window

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned by ParseType for unrecognized names.
var ErrUnknownType = errors.New("window: unknown type")

var (
	errEmptyCoeffs      = errors.New("window: no coefficients")
	errZeroCoherentGain = errors.New("window: coherent gain is zero")
)

func unknownTypeError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}
