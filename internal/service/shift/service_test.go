package shift

import (
	"testing"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/stretchr/testify/assert"
)

const testDefaultTarget = 420

func newTestService() shift.ShiftService {
	return NewShiftService(nil, testDefaultTarget)
}

func TestDecompose_BreaksExcluded(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "09:00", End: "12:00", Kind: shift.SegmentWork},
			{Start: "12:00", End: "13:00", Kind: shift.SegmentBreak},
			{Start: "13:00", End: "17:00", Kind: shift.SegmentWork},
		},
	}

	d := svc.Decompose(planned)

	assert.Equal(t, 7*60, d.OfficialMinutes)
	assert.Equal(t, 0, d.ExtraMinutes)
	assert.Equal(t, 60, d.BreakMinutes)
	assert.Equal(t, 7*60, d.TargetMinutes)
	assert.False(t, d.AllExtra)
	assert.False(t, d.NeedsShiftReview)
	assert.Equal(t, "09:00", d.FirstStart)
	assert.Equal(t, "17:00", d.LastEnd)
}

func TestDecompose_ExtraStaysOutOfOfficialTarget(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "09:00", End: "17:00", Kind: shift.SegmentWork},
			{Start: "18:00", End: "20:00", Kind: shift.SegmentWork, IsExtra: true},
		},
	}

	d := svc.Decompose(planned)

	assert.Equal(t, 8*60, d.OfficialMinutes)
	assert.Equal(t, 2*60, d.ExtraMinutes)
	assert.Equal(t, 8*60, d.TargetMinutes)
	assert.False(t, d.AllExtra)
	// The extra evening block must not move the official anchors.
	assert.Equal(t, "09:00", d.FirstStart)
	assert.Equal(t, "17:00", d.LastEnd)
}

func TestDecompose_AllExtraBecomesTarget(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "22:00", End: "23:00", Kind: shift.SegmentWork, IsExtra: true},
		},
	}

	d := svc.Decompose(planned)

	assert.Equal(t, 0, d.OfficialMinutes)
	assert.Equal(t, 60, d.ExtraMinutes)
	assert.Equal(t, 60, d.TargetMinutes)
	assert.True(t, d.AllExtra)
	assert.Equal(t, "22:00", d.FirstStart)
	assert.Equal(t, "23:00", d.LastEnd)
}

func TestDecompose_NoUsableSegmentsNeedsReview(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "12:00", End: "13:00", Kind: shift.SegmentBreak},
		},
	}

	d := svc.Decompose(planned)

	assert.True(t, d.NeedsShiftReview)
	assert.Equal(t, testDefaultTarget, d.TargetMinutes)
	assert.Empty(t, d.FirstStart)
	assert.Empty(t, d.LastEnd)
}

func TestDecompose_MidnightCrossingSegmentAnchorsLastEnd(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "14:00", End: "18:00", Kind: shift.SegmentWork},
			{Start: "22:00", End: "02:00", Kind: shift.SegmentWork},
		},
	}

	d := svc.Decompose(planned)

	assert.Equal(t, 8*60, d.OfficialMinutes)
	assert.Equal(t, "14:00", d.FirstStart)
	// 02:00 sorts after 18:00 because the segment crosses midnight.
	assert.Equal(t, "02:00", d.LastEnd)
}

func TestDecompose_SplitNightShiftKeepsEveningStart(t *testing.T) {
	svc := newTestService()

	// Both halves of the night shift sit inside one work-day. The
	// post-midnight half must not steal the first-start anchor.
	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "22:00", End: "02:00", Kind: shift.SegmentWork},
			{Start: "03:00", End: "06:00", Kind: shift.SegmentWork},
		},
	}

	d := svc.Decompose(planned)

	assert.Equal(t, 7*60, d.OfficialMinutes)
	assert.Equal(t, "22:00", d.FirstStart)
	assert.Equal(t, "06:00", d.LastEnd)
}

func TestDecompose_SplitNightShiftAnchorsIgnoreStoredOrder(t *testing.T) {
	svc := newTestService()

	// The repository orders segments by raw clock, so the 03:00 half
	// comes first. Anchors must come out the same either way.
	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "03:00", End: "06:00", Kind: shift.SegmentWork},
			{Start: "22:00", End: "02:00", Kind: shift.SegmentWork},
		},
	}

	d := svc.Decompose(planned)

	assert.Equal(t, "22:00", d.FirstStart)
	assert.Equal(t, "06:00", d.LastEnd)
}

func TestFinished_SameDay(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "09:00", End: "17:00", Kind: shift.SegmentWork},
		},
	}

	assert.False(t, svc.Finished(planned, time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)))
	assert.False(t, svc.Finished(planned, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)))
	assert.True(t, svc.Finished(planned, time.Date(2026, 3, 10, 17, 1, 0, 0, time.UTC)))
}

func TestFinished_NightShiftStillRunningPastMidnight(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "22:00", End: "06:00", Kind: shift.SegmentWork},
		},
	}

	// 02:00: the shift runs until the cutoff, not finished.
	assert.False(t, svc.Finished(planned, time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC)))
}

func TestFinished_BeforeCutoffRollsOverMidnight(t *testing.T) {
	svc := newTestService()

	dayShift := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "09:00", End: "17:00", Kind: shift.SegmentWork},
		},
	}

	// 00:30 the next calendar day: a 17:00 end is long over.
	assert.True(t, svc.Finished(dayShift, time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)))
}

func TestFinished_LateEveningEndPastMidnight(t *testing.T) {
	svc := newTestService()

	lateShift := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "15:00", End: "23:30", Kind: shift.SegmentWork},
		},
	}

	// Seen from 00:30, a shift ending after 23:00 may still be running
	// late; the heuristic keeps it open until the cutoff.
	assert.False(t, svc.Finished(lateShift, time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)))

	evenShift := shift.PlannedShift{
		Kind: shift.KindWork,
		Segments: []shift.Segment{
			{Start: "15:00", End: "23:00", Kind: shift.SegmentWork},
		},
	}
	assert.True(t, svc.Finished(evenShift, time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)))
}

func TestFinished_NextWorkDayClosesNightShift(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{
		WorkDay: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Kind:    shift.KindWork,
		Segments: []shift.Segment{
			{Start: "22:00", End: "06:00", Kind: shift.SegmentWork},
		},
	}

	// Still inside the work-day at 05:00.
	assert.False(t, svc.Finished(planned, time.Date(2026, 3, 11, 5, 0, 0, 0, time.UTC)))
	// Past the cutoff the work-day has rolled over; the shift is closed.
	assert.True(t, svc.Finished(planned, time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC)))
}

func TestFinished_NoSegments(t *testing.T) {
	svc := newTestService()

	planned := shift.PlannedShift{Kind: shift.KindWork}
	assert.False(t, svc.Finished(planned, time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)))
}

func TestClockMinutes(t *testing.T) {
	assert.Equal(t, 0, ClockMinutes("00:00"))
	assert.Equal(t, 9*60+30, ClockMinutes("09:30"))
	assert.Equal(t, 23*60+59, ClockMinutes("23:59"))
	assert.Equal(t, 0, ClockMinutes("garbage"))
}
