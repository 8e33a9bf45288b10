// Package domain holds the core lead domain types.
package domain

// Stage is the lead's pipeline position.
type Stage string

const (
	StageNew           Stage = "New"
	StageContacted     Stage = "Contacted"
	StageDemoScheduled Stage = "Demo Scheduled"
	StageNegotiation   Stage = "Negotiation"
	StageWon           Stage = "Won"
	StageLost          Stage = "Lost"
)

// Stages lists all pipeline stages in conventional order.
var Stages = []Stage{
	StageNew,
	StageContacted,
	StageDemoScheduled,
	StageNegotiation,
	StageWon,
	StageLost,
}

// Valid reports whether s is a member of the stage enum.
func (s Stage) Valid() bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// ParseStage returns the Stage for the given value, or false if the value is
// not a member of the enum.
func ParseStage(value string) (Stage, bool) {
	s := Stage(value)
	return s, s.Valid()
}
