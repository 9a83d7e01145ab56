package services

import (
	"github.com/petwhisperer/backend/internal/models"
)

// severityRank orders the closed severity vocabulary by ascending urgency.
var severityRank = map[models.Severity]int{
	models.SeverityNormal:   0,
	models.SeverityLow:      1,
	models.SeverityUrgent:   2,
	models.SeverityCritical: 3,
}

// SeverityRank returns the urgency rank of a severity label, or -1 for a
// label outside the agents service vocabulary.
func SeverityRank(s models.Severity) int {
	rank, ok := severityRank[s]
	if !ok {
		return -1
	}
	return rank
}

// DecideEscalation maps a medical assessment to the rescue-alert decision.
// Only CRITICAL escalates; an unknown severity never does. The result is
// frozen into Analysis.RequiresSOS at creation and never recomputed on read.
func DecideEscalation(assessment models.MedicalAssessment) bool {
	return assessment.Severity == models.SeverityCritical
}
