package punch

import "errors"

// Punch domain errors
var (
	ErrInvalidBadgeToken = errors.New("badge token is invalid or expired")
	ErrDuplicatePunch    = errors.New("a punch was already recorded for this employee moments ago")
	ErrTimestampInFuture = errors.New("punch timestamp is too far in the future")
	ErrTimestampTooOld   = errors.New("punch timestamp is older than the accepted window")
	ErrPunchNotFound     = errors.New("punch record not found")
	ErrEmployeeInactive  = errors.New("employee badge is deactivated")
)
