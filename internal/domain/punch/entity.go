package punch

import (
	"time"
)

// Type is the direction of a punch. The kiosk never sends one; the
// server infers it by alternation within the work-day.
type Type string

const (
	TypeArrivee Type = "arrivee"
	TypeDepart  Type = "depart"
)

// Source records which surface produced the punch.
type Source string

const (
	SourceKiosk  Source = "kiosk"
	SourceManual Source = "manual"
)

type Punch struct {
	ID         string
	EmployeeID string
	Type       Type
	// CapturedAt is when the badge was actually scanned, which for a
	// queued offline scan predates CreatedAt by the outage duration.
	CapturedAt time.Time
	WorkDay    time.Time
	Source     Source
	KioskID    *string
	CreatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}
