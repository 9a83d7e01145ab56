package services

import (
	"github.com/petwhisperer/backend/internal/models"
)

// BuildAnalysisContext derives the grounding context for a chat session from
// a stored analysis. Pure function, no I/O: same record in, same context out.
//
// The context is sent to the agents service on every turn, so it keeps only
// the clinical and behavioral signal needed to ground follow-up questions:
// health issues are reduced to their labels, and the nutrition plan's
// hydration, schedule and consideration texts are dropped entirely.
func BuildAnalysisContext(a *models.Analysis) models.AnalysisContext {
	issues := make([]string, 0, len(a.VisionAnalysis.HealthIssues))
	for _, h := range a.VisionAnalysis.HealthIssues {
		issues = append(issues, h.Issue)
	}

	return models.AnalysisContext{
		Species:          a.VisionAnalysis.Species,
		EmotionalState:   a.VisionAnalysis.EmotionalState,
		HealthIssues:     issues,
		Severity:         a.MedicalAssessment.Severity,
		ConditionSummary: a.MedicalAssessment.ConditionSummary,
		ImmediateActions: cloneStrings(a.MedicalAssessment.ImmediateActions),
		CareInstructions: cloneStrings(a.MedicalAssessment.CareInstructions),
		RecommendedFoods: cloneStrings(a.NutritionPlan.RecommendedFoods),
		DangerousFoods:   cloneStrings(a.NutritionPlan.DangerousFoods),
	}
}

func cloneStrings(src []string) []string {
	out := make([]string, len(src))
	copy(out, src)
	return out
}
