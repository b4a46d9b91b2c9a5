package recon

import (
	"time"

	"github.com/chronopointe/pointage-go/internal/domain/anomaly"
	"github.com/chronopointe/pointage-go/internal/domain/punch"
	"github.com/chronopointe/pointage-go/internal/domain/shift"
	"github.com/chronopointe/pointage-go/internal/pkg/workday"
	shiftservice "github.com/chronopointe/pointage-go/internal/service/shift"
)

// Config holds the engine tunables. Tolerance is strict: an ecart of
// exactly ToleranceMinutes raises nothing, one minute more does.
type Config struct {
	ToleranceMinutes     int
	OvertimeAlertMinutes int
	UnplannedMinMinutes  int
	EscalationMinutes    int
}

func DefaultConfig() Config {
	return Config{
		ToleranceMinutes:     5,
		OvertimeAlertMinutes: 120,
		UnplannedMinMinutes:  15,
		EscalationMinutes:    30,
	}
}

// Session is a paired arrival/departure interval. A trailing arrival
// with no departure yields an ongoing session measured up to now.
type Session struct {
	Start   time.Time
	End     time.Time
	Minutes int
	Ongoing bool
}

// Result is the reconciliation of one employee's work-day.
type Result struct {
	EmployeeID         string
	WorkDay            time.Time
	Sessions           []Session
	TotalWorkedMinutes int
	TargetMinutes      int
	// VarianceMinutes is worked minus target; negative values are the
	// "manquant" figure once the shift is finished.
	VarianceMinutes  int
	MissingMinutes   int
	OvertimeMinutes  int
	Ongoing          bool
	ShiftFinished    bool
	HasPlan          bool
	AllExtra         bool
	NeedsShiftReview bool
	Proposals        []anomaly.Anomaly
}

// Decomposer is the slice of the shift matcher the engine needs.
type Decomposer interface {
	Decompose(shift.PlannedShift) shift.Decomposition
	Finished(shift.PlannedShift, time.Time) bool
}

// Engine turns a day's punches and the matched planned shift into a
// reconciliation result with anomaly proposals. Evaluate is a pure
// function of its inputs plus now; it never touches storage and never
// mutates an existing anomaly.
type Engine struct {
	decomposer Decomposer
	cfg        Config
}

func NewEngine(decomposer Decomposer, cfg Config) *Engine {
	return &Engine{decomposer: decomposer, cfg: cfg}
}

func (e *Engine) Evaluate(punches []punch.Punch, planned *shift.PlannedShift, now time.Time) Result {
	result := Result{}
	if len(punches) > 0 {
		result.EmployeeID = punches[0].EmployeeID
		result.WorkDay = punches[0].WorkDay
	} else if planned != nil {
		result.EmployeeID = planned.EmployeeID
		result.WorkDay = planned.WorkDay
	}

	result.Sessions = pairSessions(punches, now)
	for _, s := range result.Sessions {
		result.TotalWorkedMinutes += s.Minutes
		if s.Ongoing {
			result.Ongoing = true
		}
	}

	switch {
	case planned == nil:
		e.evaluateUnplanned(&result)
	case planned.Kind == shift.KindAbsence:
		e.evaluateAbsence(&result, punches)
	default:
		e.evaluatePlanned(&result, punches, *planned, now)
	}

	for i := range result.Proposals {
		result.Proposals[i].EmployeeID = result.EmployeeID
		result.Proposals[i].WorkDay = result.WorkDay
		result.Proposals[i].Status = anomaly.StatusEnAttente
		result.Proposals[i].DetectedAt = now
	}

	return result
}

// pairSessions folds the ordered punch list into arrival/departure
// intervals. Punches that break the alternation are skipped rather
// than failed on.
func pairSessions(punches []punch.Punch, now time.Time) []Session {
	var sessions []Session
	var open *punch.Punch

	for i := range punches {
		p := punches[i]
		switch p.Type {
		case punch.TypeArrivee:
			if open == nil {
				open = &punches[i]
			}
		case punch.TypeDepart:
			if open != nil {
				sessions = append(sessions, Session{
					Start:   open.CapturedAt,
					End:     p.CapturedAt,
					Minutes: int(p.CapturedAt.Sub(open.CapturedAt).Minutes()),
				})
				open = nil
			}
		}
	}

	if open != nil {
		minutes := int(now.Sub(open.CapturedAt).Minutes())
		if minutes < 0 {
			minutes = 0
		}
		sessions = append(sessions, Session{
			Start:   open.CapturedAt,
			End:     now,
			Minutes: minutes,
			Ongoing: true,
		})
	}

	return sessions
}

// evaluateUnplanned handles work with no planned shift. Severity
// scales with the amount of unplanned presence; very short blips are
// ignored.
func (e *Engine) evaluateUnplanned(result *Result) {
	if result.TotalWorkedMinutes < e.cfg.UnplannedMinMinutes {
		return
	}

	severity := anomaly.SeverityInfo
	switch {
	case result.TotalWorkedMinutes >= 8*60:
		severity = anomaly.SeverityCritique
	case result.TotalWorkedMinutes >= 4*60:
		severity = anomaly.SeverityAttention
	}

	worked := result.TotalWorkedMinutes
	result.Proposals = append(result.Proposals, anomaly.Anomaly{
		Type:     anomaly.TypeHorsPlanning,
		Severity: severity,
		Details:  anomaly.Details{EcartMinutes: &worked},
	})
}

func (e *Engine) evaluateAbsence(result *Result, punches []punch.Punch) {
	result.HasPlan = true
	if len(punches) == 0 {
		return
	}

	first := punches[0].CapturedAt.Format("15:04")
	result.Proposals = append(result.Proposals, anomaly.Anomaly{
		Type:     anomaly.TypePresenceNonPrevue,
		Severity: anomaly.SeverityCritique,
		Details:  anomaly.Details{HeureReelle: &first},
	})
}

func (e *Engine) evaluatePlanned(result *Result, punches []punch.Punch, planned shift.PlannedShift, now time.Time) {
	result.HasPlan = true

	decomp := e.decomposer.Decompose(planned)
	result.TargetMinutes = decomp.TargetMinutes
	result.AllExtra = decomp.AllExtra
	result.NeedsShiftReview = decomp.NeedsShiftReview
	result.ShiftFinished = e.decomposer.Finished(planned, now)
	result.VarianceMinutes = result.TotalWorkedMinutes - result.TargetMinutes

	if decomp.NeedsShiftReview {
		// Degenerate shift: the target is display-only, nothing to
		// compare against.
		return
	}

	if len(punches) == 0 {
		if result.ShiftFinished {
			result.MissingMinutes = result.TargetMinutes
		}
		return
	}

	e.checkArrival(result, punches, decomp)
	e.checkDeparture(result, punches, decomp)
	e.checkBreaks(result, decomp)

	if result.ShiftFinished && result.VarianceMinutes < 0 {
		result.MissingMinutes = -result.VarianceMinutes
	}
	if result.VarianceMinutes > 0 {
		result.OvertimeMinutes = result.VarianceMinutes
		if result.OvertimeMinutes > e.cfg.OvertimeAlertMinutes {
			overtime := result.OvertimeMinutes
			result.Proposals = append(result.Proposals, anomaly.Anomaly{
				Type:     anomaly.TypeHeuresSup,
				Severity: anomaly.SeverityAttention,
				Details:  anomaly.Details{EcartMinutes: &overtime},
			})
		}
	}
}

func (e *Engine) checkArrival(result *Result, punches []punch.Punch, decomp shift.Decomposition) {
	var firstArrival *punch.Punch
	for i := range punches {
		if punches[i].Type == punch.TypeArrivee {
			firstArrival = &punches[i]
			break
		}
	}
	if firstArrival == nil {
		return
	}

	plannedStart := workDayMinutes(shiftservice.ClockMinutes(decomp.FirstStart))
	actualStart := punchMinutes(firstArrival.CapturedAt)
	ecart := actualStart - plannedStart
	if ecart <= e.cfg.ToleranceMinutes {
		return
	}

	severity := anomaly.SeverityAttention
	if ecart > e.cfg.EscalationMinutes {
		severity = anomaly.SeverityCritique
	}
	prevue := decomp.FirstStart
	reelle := firstArrival.CapturedAt.Format("15:04")
	result.Proposals = append(result.Proposals, anomaly.Anomaly{
		Type:     anomaly.TypeRetard,
		Severity: severity,
		Details: anomaly.Details{
			EcartMinutes: &ecart,
			HeurePrevue:  &prevue,
			HeureReelle:  &reelle,
		},
	})
}

func (e *Engine) checkDeparture(result *Result, punches []punch.Punch, decomp shift.Decomposition) {
	last := punches[len(punches)-1]
	if last.Type != punch.TypeDepart {
		// Still clocked in; no departure to judge.
		return
	}

	plannedStart := workDayMinutes(shiftservice.ClockMinutes(decomp.FirstStart))
	plannedEnd := workDayMinutes(shiftservice.ClockMinutes(decomp.LastEnd))
	if plannedEnd < plannedStart {
		// An end clock at or before the cutoff belongs to the tail of
		// the day, like a 22:00-06:00 night shift.
		plannedEnd += 24 * 60
	}
	actualEnd := punchMinutes(last.CapturedAt)
	ecart := plannedEnd - actualEnd
	if ecart <= e.cfg.ToleranceMinutes {
		return
	}

	severity := anomaly.SeverityAttention
	if ecart > e.cfg.EscalationMinutes {
		severity = anomaly.SeverityCritique
	}
	prevue := decomp.LastEnd
	reelle := last.CapturedAt.Format("15:04")
	result.Proposals = append(result.Proposals, anomaly.Anomaly{
		Type:     anomaly.TypeDepartAnticipe,
		Severity: severity,
		Details: anomaly.Details{
			EcartMinutes: &ecart,
			HeurePrevue:  &prevue,
			HeureReelle:  &reelle,
		},
	})
}

// checkBreaks compares the gaps taken between sessions with the
// planned pause total. A gap only exists once the employee has come
// back, so an ongoing absence never counts.
func (e *Engine) checkBreaks(result *Result, decomp shift.Decomposition) {
	if len(result.Sessions) < 2 {
		return
	}

	taken := 0
	for i := 1; i < len(result.Sessions); i++ {
		gap := int(result.Sessions[i].Start.Sub(result.Sessions[i-1].End).Minutes())
		if gap > 0 {
			taken += gap
		}
	}

	ecart := taken - decomp.BreakMinutes
	if ecart <= e.cfg.ToleranceMinutes {
		return
	}

	severity := anomaly.SeverityAttention
	if ecart > e.cfg.EscalationMinutes {
		severity = anomaly.SeverityCritique
	}
	result.Proposals = append(result.Proposals, anomaly.Anomaly{
		Type:     anomaly.TypePauseExcessive,
		Severity: severity,
		Details:  anomaly.Details{EcartMinutes: &ecart},
	})
}

// workDayMinutes places a wall-clock minute count on the work-day
// axis: anything before the 06:00 cutoff belongs to the tail of the
// day and sorts after midnight.
func workDayMinutes(clockMin int) int {
	if clockMin < workday.CutoffHour*60 {
		return clockMin + 24*60
	}
	return clockMin
}

func punchMinutes(t time.Time) int {
	return workDayMinutes(t.Hour()*60 + t.Minute())
}
