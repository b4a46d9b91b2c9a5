package shift

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/chronopointe/pointage-go/internal/pkg/workday"
)

type shiftService struct {
	shiftRepo            shift.ShiftRepository
	defaultTargetMinutes int
}

func NewShiftService(shiftRepo shift.ShiftRepository, defaultTargetMinutes int) shift.ShiftService {
	return &shiftService{
		shiftRepo:            shiftRepo,
		defaultTargetMinutes: defaultTargetMinutes,
	}
}

// Match implements shift.ShiftService.
func (s *shiftService) Match(ctx context.Context, employeeID string, workDay time.Time) (*shift.PlannedShift, error) {
	planned, err := s.shiftRepo.GetByEmployeeAndWorkDay(ctx, employeeID, workDay)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("match shift: %w", err)
	}
	return &planned, nil
}

// Decompose implements shift.ShiftService. Breaks are dropped from the
// totals; official and extra minutes stay separate because extra hours
// are authorized independently of the schedule target.
func (s *shiftService) Decompose(planned shift.PlannedShift) shift.Decomposition {
	var d shift.Decomposition

	var official, extra []shift.Segment
	for _, seg := range planned.Segments {
		if seg.Kind == shift.SegmentBreak {
			d.BreakMinutes += segmentMinutes(seg)
			continue
		}
		if seg.IsExtra {
			extra = append(extra, seg)
			d.ExtraMinutes += segmentMinutes(seg)
		} else {
			official = append(official, seg)
			d.OfficialMinutes += segmentMinutes(seg)
		}
	}

	switch {
	case d.OfficialMinutes > 0:
		d.TargetMinutes = d.OfficialMinutes
	case d.ExtraMinutes > 0:
		// The shift exists solely to record supplemental hours; they
		// become the target.
		d.TargetMinutes = d.ExtraMinutes
		d.AllExtra = true
	default:
		// Planned shift with no usable segments. The default target is
		// for display only; no target-based anomaly may fire from it.
		d.TargetMinutes = s.defaultTargetMinutes
		d.NeedsShiftReview = true
		return d
	}

	anchors := official
	if d.AllExtra {
		anchors = extra
	}
	d.FirstStart = anchors[0].Start
	d.LastEnd = anchors[0].End
	earliestStart, latestEnd := segmentBounds(anchors[0])
	for _, seg := range anchors[1:] {
		start, end := segmentBounds(seg)
		if start < earliestStart {
			earliestStart = start
			d.FirstStart = seg.Start
		}
		if end > latestEnd {
			latestEnd = end
			d.LastEnd = seg.End
		}
	}

	return d
}

// Finished implements shift.ShiftService. Once now falls into a later
// work-day the shift is over regardless of its segments. Within the
// shift's own work-day but before the 06:00 cutoff, the comparison
// rolls over midnight: a shift whose latest end is at or before 23:00
// is over, anything ending later is treated as possibly still running.
// A shift ending 23:01-23:59 that actually ran past midnight is
// therefore reported as unfinished; see the matching test.
func (s *shiftService) Finished(planned shift.PlannedShift, now time.Time) bool {
	if !planned.WorkDay.IsZero() && workday.Of(now).After(planned.WorkDay) {
		return true
	}

	latestEnd := -1
	for _, seg := range planned.Segments {
		if end := effectiveEnd(seg); end > latestEnd {
			latestEnd = end
		}
	}
	if latestEnd < 0 {
		return false
	}

	if now.Hour() < 6 {
		return latestEnd <= 23*60
	}
	return now.Hour()*60+now.Minute() > latestEnd
}

// ClockMinutes converts "HH:MM" to minutes since midnight. Malformed
// values collapse to 0 so a bad segment degrades instead of failing.
func ClockMinutes(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return h*60 + m
}

func segmentMinutes(seg shift.Segment) int {
	start := ClockMinutes(seg.Start)
	end := ClockMinutes(seg.End)
	if end <= start {
		end += 24 * 60
	}
	return end - start
}

// effectiveEnd is the segment end in minutes, pushed past 24h when the
// segment crosses midnight so ordering stays correct.
func effectiveEnd(seg shift.Segment) int {
	start := ClockMinutes(seg.Start)
	end := ClockMinutes(seg.End)
	if end <= start {
		end += 24 * 60
	}
	return end
}

// segmentBounds places a segment on the work-day minute axis. A start
// before the 06:00 cutoff belongs to the tail of the day, so the
// post-midnight half of a split night shift sorts after the evening
// half it follows.
func segmentBounds(seg shift.Segment) (start, end int) {
	start = ClockMinutes(seg.Start)
	if start < workday.CutoffHour*60 {
		start += 24 * 60
	}
	return start, start + segmentMinutes(seg)
}
