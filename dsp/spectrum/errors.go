package spectrum

import "errors"

// ErrInvalidSize is returned when the analyzer frame size is not a power
// of two of at least MinSize.
var ErrInvalidSize = errors.New("spectrum: frame size must be a power of two >= 16")
