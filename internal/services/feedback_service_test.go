package services

import (
	"context"
	"errors"
	"testing"
)

func newFeedbackFixture(t *testing.T) (*FeedbackService, string) {
	t.Helper()
	db := newTestDB(t)
	analysisSvc := NewAnalysisService(db)
	created, err := analysisSvc.Create(context.Background(), 1, CreateAnalysisInput{
		ImageURL:   "http://example.com/dog.jpg",
		Assessment: sampleAssessment("LOW"),
	})
	if err != nil {
		t.Fatalf("Failed to seed analysis: %v", err)
	}
	return NewFeedbackService(db), created.ID
}

func TestSubmitFeedbackCreatesAndUpdates(t *testing.T) {
	svc, analysisID := newFeedbackFixture(t)
	ctx := context.Background()

	accurate := true
	first, err := svc.Submit(ctx, 1, FeedbackInput{
		AnalysisID:      analysisID,
		EmotionAccurate: &accurate,
		OverallRating:   4,
		Comments:        "Mostly right",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if first.OverallRating != 4 {
		t.Errorf("OverallRating = %d, want 4", first.OverallRating)
	}

	// Resubmission replaces the earlier feedback instead of adding a row.
	inaccurate := false
	second, err := svc.Submit(ctx, 1, FeedbackInput{
		AnalysisID:           analysisID,
		EmotionAccurate:      &inaccurate,
		HealthIssuesAccurate: &inaccurate,
		HealthCorrections:    []string{"actually a hot spot, not a wound"},
		OverallRating:        2,
	})
	if err != nil {
		t.Fatalf("Resubmit returned error: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("Resubmission created a new row: %s vs %s", second.ID, first.ID)
	}
	if second.OverallRating != 2 || second.Comments != "" {
		t.Error("Resubmission did not fully replace the earlier feedback")
	}

	stored, err := svc.ForAnalysis(ctx, 1, analysisID)
	if err != nil {
		t.Fatalf("ForAnalysis returned error: %v", err)
	}
	if stored.EmotionAccurate == nil || *stored.EmotionAccurate {
		t.Error("Updated emotion accuracy flag was not persisted")
	}
	if len(stored.HealthCorrections) != 1 {
		t.Errorf("Expected 1 health correction, got %d", len(stored.HealthCorrections))
	}
}

func TestSubmitFeedbackValidation(t *testing.T) {
	svc, analysisID := newFeedbackFixture(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, 1, FeedbackInput{OverallRating: 3}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for missing analysisId, got %v", err)
	}
	for _, rating := range []int{0, 6, -1} {
		if _, err := svc.Submit(ctx, 1, FeedbackInput{AnalysisID: analysisID, OverallRating: rating}); !errors.Is(err, ErrValidation) {
			t.Errorf("Expected ErrValidation for rating %d, got %v", rating, err)
		}
	}
}

func TestSubmitFeedbackRequiresOwnedAnalysis(t *testing.T) {
	svc, analysisID := newFeedbackFixture(t)

	if _, err := svc.Submit(context.Background(), 2, FeedbackInput{
		AnalysisID:    analysisID,
		OverallRating: 3,
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign analysis, got %v", err)
	}
}

func TestFeedbackForAnalysisMissing(t *testing.T) {
	svc, analysisID := newFeedbackFixture(t)

	if _, err := svc.ForAnalysis(context.Background(), 1, analysisID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound before any feedback, got %v", err)
	}
}
