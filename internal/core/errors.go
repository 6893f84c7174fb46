package core

import "errors"

// Error taxonomy shared by every enhancement routine. Call sites wrap these
// with fmt.Errorf("%w: ...") so callers can match them with errors.Is.
var (
	// ErrInvalidParameter reports a caller usage error: a parameter outside
	// its accepted range, or an empty or malformed image.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrOutOfRange reports a histogram scan that could not locate a cut
	// point inside the 256-bin domain.
	ErrOutOfRange = errors.New("histogram scan out of range")

	// ErrDegenerateRange reports an input with no dynamic range left to
	// stretch, e.g. a flat image after clipping.
	ErrDegenerateRange = errors.New("degenerate intensity range")
)
