package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/petwhisperer/backend/internal/logger"
	"github.com/petwhisperer/backend/internal/models"
	"gorm.io/gorm"
)

// FeedbackService stores user accuracy feedback attached to analyses. One
// feedback row per (user, analysis), updated in place on resubmission; the
// analysis itself is never touched.
type FeedbackService struct {
	db *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

type FeedbackInput struct {
	AnalysisID           string
	EmotionAccurate      *bool
	EmotionCorrection    string
	HealthIssuesAccurate *bool
	HealthCorrections    []string
	OverallRating        int
	Comments             string
}

// Submit creates or updates the user's feedback for an analysis. The
// referenced analysis must exist and belong to the caller.
func (s *FeedbackService) Submit(ctx context.Context, userID uint, in FeedbackInput) (*models.Feedback, error) {
	if in.AnalysisID == "" {
		return nil, fmt.Errorf("%w: analysisId is required", ErrValidation)
	}
	if in.OverallRating < 1 || in.OverallRating > 5 {
		return nil, fmt.Errorf("%w: overallRating must be between 1 and 5", ErrValidation)
	}

	var analysis models.Analysis
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", in.AnalysisID, userID).
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve analysis: %w", ErrPersistence)
	}

	var feedback models.Feedback
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND analysis_id = ?", userID, in.AnalysisID).
		First(&feedback).Error
	switch {
	case err == nil:
		// Existing feedback is replaced with the latest submission.
	case errors.Is(err, gorm.ErrRecordNotFound):
		feedback = models.Feedback{UserID: userID, AnalysisID: in.AnalysisID}
	default:
		return nil, fmt.Errorf("resolve feedback: %w", ErrPersistence)
	}

	feedback.EmotionAccurate = in.EmotionAccurate
	feedback.EmotionCorrection = in.EmotionCorrection
	feedback.HealthIssuesAccurate = in.HealthIssuesAccurate
	feedback.HealthCorrections = models.StringList(in.HealthCorrections)
	feedback.OverallRating = in.OverallRating
	feedback.Comments = in.Comments

	if err := s.db.WithContext(ctx).Save(&feedback).Error; err != nil {
		logger.WithUser(userID).WithField("error", err.Error()).Error("Failed to save feedback")
		return nil, fmt.Errorf("save feedback: %w", ErrPersistence)
	}

	return &feedback, nil
}

// ForAnalysis returns the user's feedback for one analysis, if any.
func (s *FeedbackService) ForAnalysis(ctx context.Context, userID uint, analysisID string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND analysis_id = ?", userID, analysisID).
		First(&feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get feedback: %w", ErrPersistence)
	}
	return &feedback, nil
}
