package anomaly

import (
	"time"
)

type Type string

const (
	TypeRetard            Type = "retard"
	TypeDepartAnticipe    Type = "depart_anticipe"
	TypeHorsPlanning      Type = "pointage_hors_planning"
	TypePresenceNonPrevue Type = "presence_non_prevue"
	TypeHeuresSup         Type = "heures_sup"
	TypePauseExcessive    Type = "pause_excessive"
)

type Severity string

const (
	SeverityInfo      Severity = "info"
	SeverityAttention Severity = "attention"
	SeverityCritique  Severity = "critique"
)

// Status lifecycle: every proposal starts en_attente and only a human
// review action moves it to a terminal status.
type Status string

const (
	StatusEnAttente Status = "en_attente"
	StatusValidee   Status = "validee"
	StatusRefusee   Status = "refusee"
	StatusCorrigee  Status = "corrigee"
)

// Details carries the measured discrepancy behind an anomaly.
type Details struct {
	EcartMinutes *int    `json:"ecart_minutes,omitempty"`
	HeurePrevue  *string `json:"heure_prevue,omitempty"`
	HeureReelle  *string `json:"heure_reelle,omitempty"`
}

type Anomaly struct {
	ID         string
	EmployeeID string
	WorkDay    time.Time
	Type       Type
	Severity   Severity
	Status     Status
	Details    Details
	DetectedAt time.Time
	ReviewedBy *string
	ReviewedAt *time.Time
	ReviewNote *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}
