package services

import (
	"path/filepath"
	"testing"

	"github.com/petwhisperer/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Analysis{}, &models.Chat{}, &models.Feedback{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// sampleAssessment builds an agents service payload with the given severity.
func sampleAssessment(severity string) *AnalyzeResponse {
	urgency := 2
	return &AnalyzeResponse{
		VisionAnalysis: VisionAnalysisPayload{
			Species:           "dog",
			SpeciesConfidence: 0.9,
			EmotionalState:    "stressed",
			EmotionConfidence: 0.8,
			HealthIssues: []HealthIssuePayload{
				{Issue: "open wound", Confidence: 0.85, Description: "laceration on hind leg"},
			},
		},
		MedicalAssessment: MedicalAssessmentPayload{
			Severity:              severity,
			ConditionSummary:      "injured hind leg",
			ImmediateActions:      []string{"Do not move the animal unnecessarily"},
			CareInstructions:      []string{"Keep the wound covered"},
			WarningSigns:          []string{"Bleeding that does not stop"},
			EstimatedUrgencyHours: &urgency,
		},
		NutritionPlan: NutritionPlanPayload{
			RecommendedFoods:      []string{"plain boiled chicken"},
			DangerousFoods:        []string{"chocolate"},
			HydrationPlan:         "offer small sips frequently",
			FeedingSchedule:       "twice daily",
			SpecialConsiderations: []string{"reduced activity"},
		},
		RequiresSOS: severity == "CRITICAL",
	}
}
