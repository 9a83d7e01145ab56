package services

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/petwhisperer/backend/internal/models"
)

func fullyPopulatedAnalysis() *models.Analysis {
	urgency := 4
	return &models.Analysis{
		ID:     "a7f3b2c1-0000-0000-0000-000000000001",
		UserID: 1,
		VisionAnalysis: models.VisionAnalysis{
			Species:           "dog",
			SpeciesConfidence: 0.94,
			EmotionalState:    "stressed",
			EmotionConfidence: 0.81,
			HealthIssues: []models.HealthIssue{
				{Issue: "limping", Confidence: 0.77, Description: "favoring the left hind leg"},
				{Issue: "matted fur", Confidence: 0.55, Description: "possible skin irritation underneath"},
			},
		},
		MedicalAssessment: models.MedicalAssessment{
			Severity:              models.SeverityUrgent,
			ConditionSummary:      "possible sprain, needs vet attention",
			ImmediateActions:      []string{"Restrict movement", "Check paw for debris"},
			CareInstructions:      []string{"Keep the dog rested for 48 hours"},
			WarningSigns:          []string{"Swelling", "Refusal to eat"},
			EstimatedUrgencyHours: &urgency,
		},
		NutritionPlan: models.NutritionPlan{
			RecommendedFoods:      []string{"boiled chicken", "rice"},
			DangerousFoods:        []string{"chocolate", "grapes"},
			HydrationPlan:         "Fresh water available at all times",
			FeedingSchedule:       "Two small meals per day",
			SpecialConsiderations: []string{"Avoid stairs while recovering"},
		},
	}
}

func TestBuildAnalysisContextIsPure(t *testing.T) {
	analysis := fullyPopulatedAnalysis()

	first := BuildAnalysisContext(analysis)
	second := BuildAnalysisContext(analysis)

	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical context from two calls on an unmodified record")
	}

	// Mutating a returned slice must not bleed into the record.
	first.ImmediateActions[0] = "changed"
	if analysis.MedicalAssessment.ImmediateActions[0] != "Restrict movement" {
		t.Error("Context mutation leaked into the analysis record")
	}
}

func TestBuildAnalysisContextReducesIssuesToLabels(t *testing.T) {
	ctx := BuildAnalysisContext(fullyPopulatedAnalysis())

	expected := []string{"limping", "matted fur"}
	if !reflect.DeepEqual(ctx.HealthIssues, expected) {
		t.Errorf("Expected health issue labels %v, got %v", expected, ctx.HealthIssues)
	}
}

func TestBuildAnalysisContextDropsPresentationFields(t *testing.T) {
	ctx := BuildAnalysisContext(fullyPopulatedAnalysis())

	raw, err := json.Marshal(ctx)
	if err != nil {
		t.Fatalf("Failed to marshal context: %v", err)
	}

	for _, dropped := range []string{"hydrationPlan", "feedingSchedule", "specialConsiderations", "warningSigns", "confidence", "description"} {
		if strings.Contains(string(raw), dropped) {
			t.Errorf("Grounding context must not carry %q, got %s", dropped, raw)
		}
	}
}

func TestBuildAnalysisContextKeepsClinicalSignal(t *testing.T) {
	ctx := BuildAnalysisContext(fullyPopulatedAnalysis())

	if ctx.Species != "dog" {
		t.Errorf("Expected species 'dog', got %q", ctx.Species)
	}
	if ctx.Severity != models.SeverityUrgent {
		t.Errorf("Expected severity URGENT, got %q", ctx.Severity)
	}
	if ctx.ConditionSummary == "" {
		t.Error("Expected condition summary to be carried into the context")
	}
	if len(ctx.RecommendedFoods) != 2 || len(ctx.DangerousFoods) != 2 {
		t.Error("Expected both nutrition lists in the context")
	}
	if len(ctx.ImmediateActions) != 2 || len(ctx.CareInstructions) != 1 {
		t.Error("Expected medical action lists in the context")
	}
}
