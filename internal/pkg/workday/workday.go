package workday

import "time"

// CutoffHour is the boundary of the work-day: a punch before 06:00 local
// time still belongs to the previous day's shift (night teams clock out
// after midnight).
const CutoffHour = 6

// Of maps a timestamp to the work-day it belongs to. The returned value
// is the day at midnight in t's location.
func Of(t time.Time) time.Time {
	return OfWithCutoff(t, CutoffHour)
}

// OfWithCutoff is Of with an explicit cutoff hour. Some sites start very
// early shifts and run with a 02:00 cutoff.
func OfWithCutoff(t time.Time, cutoffHour int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.Hour() < cutoffHour {
		day = day.AddDate(0, 0, -1)
	}
	return day
}

// Bounds returns the [start, end) interval of the work-day containing t:
// cutoff hour of the work-day to cutoff hour of the next day.
func Bounds(t time.Time) (start, end time.Time) {
	return BoundsWithCutoff(t, CutoffHour)
}

func BoundsWithCutoff(t time.Time, cutoffHour int) (start, end time.Time) {
	day := OfWithCutoff(t, cutoffHour)
	start = time.Date(day.Year(), day.Month(), day.Day(), cutoffHour, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// SameSegmentDay reports whether an HH:MM segment that may cross midnight
// still belongs to a single work-day. A 22:00-06:00 segment does; a
// 23:00-08:00 segment does not, because its end falls past the cutoff.
func SameSegmentDay(startHour, startMin, endHour, endMin int) bool {
	return SameSegmentDayWithCutoff(startHour, startMin, endHour, endMin, CutoffHour)
}

func SameSegmentDayWithCutoff(startHour, startMin, endHour, endMin, cutoffHour int) bool {
	crossesMidnight := endHour < startHour || (endHour == startHour && endMin <= startMin)
	if !crossesMidnight {
		return true
	}
	return endHour*60+endMin <= cutoffHour*60
}
