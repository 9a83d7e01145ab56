package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/petwhisperer/backend/internal/logger"
	"github.com/petwhisperer/backend/internal/models"
	"gorm.io/gorm"
)

const defaultPageSize = 10

// AnalysisService is the durable store of completed assessments. Records are
// effectively immutable once created; every read and delete is scoped to the
// owning user.
type AnalysisService struct {
	db *gorm.DB
}

func NewAnalysisService(db *gorm.DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// CreateAnalysisInput carries everything needed to persist one assessment.
// Assessment is the untranscoded agents service payload.
type CreateAnalysisInput struct {
	ImageURL   string
	Assessment *AnalyzeResponse
	UserNotes  string
	Location   *models.Location
}

// Create transcodes the agents service payload into the internal record
// shape, decides escalation, and persists. RequiresSOS is computed here,
// exactly once; reads never recompute it.
func (s *AnalysisService) Create(ctx context.Context, userID uint, in CreateAnalysisInput) (*models.Analysis, error) {
	if in.ImageURL == "" {
		return nil, fmt.Errorf("%w: imageUrl is required", ErrValidation)
	}
	if in.Assessment == nil {
		return nil, fmt.Errorf("%w: assessment is required", ErrValidation)
	}
	if in.Location != nil {
		if in.Location.Latitude < -90 || in.Location.Latitude > 90 {
			return nil, fmt.Errorf("%w: latitude must be between -90 and 90", ErrValidation)
		}
		if in.Location.Longitude < -180 || in.Location.Longitude > 180 {
			return nil, fmt.Errorf("%w: longitude must be between -180 and 180", ErrValidation)
		}
	}

	analysis := &models.Analysis{
		UserID:            userID,
		ImageURL:          in.ImageURL,
		VisionAnalysis:    transcodeVision(in.Assessment.VisionAnalysis),
		MedicalAssessment: transcodeMedical(in.Assessment.MedicalAssessment),
		NutritionPlan:     transcodeNutrition(in.Assessment.NutritionPlan),
		UserNotes:         in.UserNotes,
		Location:          in.Location,
	}
	analysis.RequiresSOS = DecideEscalation(analysis.MedicalAssessment)

	if err := s.db.WithContext(ctx).Create(analysis).Error; err != nil {
		logger.WithAnalysis("", userID).WithField("error", err.Error()).Error("Failed to persist analysis")
		return nil, fmt.Errorf("create analysis: %w", ErrPersistence)
	}

	logger.WithAnalysis(analysis.ID, userID).WithFields(map[string]interface{}{
		"severity":     analysis.MedicalAssessment.Severity,
		"requires_sos": analysis.RequiresSOS,
	}).Info("Analysis created")

	return analysis, nil
}

// Get returns a single analysis. A record owned by someone else is reported
// as ErrNotFound; existence is never leaked to a non-owner.
func (s *AnalysisService) Get(ctx context.Context, userID uint, id string) (*models.Analysis, error) {
	var analysis models.Analysis
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		logger.WithAnalysis(id, userID).WithField("error", err.Error()).Error("Failed to fetch analysis")
		return nil, fmt.Errorf("get analysis: %w", ErrPersistence)
	}
	return &analysis, nil
}

// List returns one page of the user's analyses, newest first, plus the total
// count. page is 1-indexed; pageSize defaults to 10. An empty page is valid.
func (s *AnalysisService) List(ctx context.Context, userID uint, page, pageSize int) ([]models.Analysis, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.Analysis{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", ErrPersistence)
	}

	var analyses []models.Analysis
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&analyses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", ErrPersistence)
	}

	return analyses, total, nil
}

// Delete removes an analysis permanently. Ownership is part of the delete
// condition, so a non-owner gets the same ErrNotFound as a missing record.
func (s *AnalysisService) Delete(ctx context.Context, userID uint, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Analysis{})
	if res.Error != nil {
		logger.WithAnalysis(id, userID).WithField("error", res.Error.Error()).Error("Failed to delete analysis")
		return fmt.Errorf("delete analysis: %w", ErrPersistence)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	logger.WithAnalysis(id, userID).Info("Analysis deleted")
	return nil
}

func transcodeVision(p VisionAnalysisPayload) models.VisionAnalysis {
	// Gateway output order is preserved, not re-sorted.
	issues := make([]models.HealthIssue, 0, len(p.HealthIssues))
	for _, h := range p.HealthIssues {
		issues = append(issues, models.HealthIssue{
			Issue:       h.Issue,
			Confidence:  h.Confidence,
			Description: h.Description,
		})
	}
	return models.VisionAnalysis{
		Species:           p.Species,
		SpeciesConfidence: p.SpeciesConfidence,
		EmotionalState:    p.EmotionalState,
		EmotionConfidence: p.EmotionConfidence,
		HealthIssues:      issues,
	}
}

func transcodeMedical(p MedicalAssessmentPayload) models.MedicalAssessment {
	return models.MedicalAssessment{
		Severity:              models.Severity(p.Severity),
		ConditionSummary:      p.ConditionSummary,
		ImmediateActions:      p.ImmediateActions,
		CareInstructions:      p.CareInstructions,
		WarningSigns:          p.WarningSigns,
		EstimatedUrgencyHours: p.EstimatedUrgencyHours,
	}
}

func transcodeNutrition(p NutritionPlanPayload) models.NutritionPlan {
	return models.NutritionPlan{
		RecommendedFoods:      p.RecommendedFoods,
		DangerousFoods:        p.DangerousFoods,
		HydrationPlan:         p.HydrationPlan,
		FeedingSchedule:       p.FeedingSchedule,
		SpecialConsiderations: p.SpecialConsiderations,
	}
}
