package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is user-reported accuracy feedback attached to an Analysis. It
// references the record without ever mutating it; one row per
// (user, analysis), updated in place on resubmission.
type Feedback struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID               uint       `json:"userId" gorm:"not null;uniqueIndex:idx_feedback_user_analysis"`
	AnalysisID           string     `json:"analysisId" gorm:"type:uuid;not null;uniqueIndex:idx_feedback_user_analysis"`
	EmotionAccurate      *bool      `json:"emotionAccurate"`
	EmotionCorrection    string     `json:"emotionCorrection"`
	HealthIssuesAccurate *bool      `json:"healthIssuesAccurate"`
	HealthCorrections    StringList `json:"healthCorrections" gorm:"type:jsonb"`
	OverallRating        int        `json:"overallRating"`
	Comments             string     `json:"comments" gorm:"type:text"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func (Feedback) TableName() string {
	return "feedback"
}
