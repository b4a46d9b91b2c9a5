package shift

import (
	"time"
)

// Kind distinguishes a working day from a planned absence (leave,
// holiday). An absence shift carries no segments.
type Kind string

const (
	KindWork    Kind = "work"
	KindAbsence Kind = "absence"
)

type SegmentKind string

const (
	SegmentWork  SegmentKind = "work"
	SegmentBreak SegmentKind = "break"
)

// Segment is a sub-interval of a planned shift. Times are "HH:MM" wall
// clock; an end earlier than its start means the segment crosses
// midnight.
type Segment struct {
	Start   string
	End     string
	Kind    SegmentKind
	IsExtra bool
}

type PlannedShift struct {
	ID         string
	EmployeeID string
	WorkDay    time.Time
	Kind       Kind
	Segments   []Segment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Decomposition is the worked-time view of a planned shift. Official
// and extra minutes are kept apart; extra hours are separately
// authorized and never fold into the official target.
type Decomposition struct {
	OfficialMinutes int
	ExtraMinutes    int
	// BreakMinutes is the planned pause total, kept for comparison
	// against the gaps actually taken between sessions.
	BreakMinutes int
	// TargetMinutes is the official total, or the extra total when the
	// shift is all-extra, or a configured default when the shift has no
	// segments at all.
	TargetMinutes    int
	AllExtra         bool
	NeedsShiftReview bool
	FirstStart       string
	LastEnd          string
}
