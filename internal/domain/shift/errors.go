package shift

import "errors"

// Shift domain errors
var (
	ErrShiftNotFound  = errors.New("no planned shift for this employee and work-day")
	ErrInvalidSegment = errors.New("shift segment times are malformed")
)
