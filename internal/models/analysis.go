package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Severity is the closed vocabulary returned by the agents service. The set
// is an external contract and must not be extended locally.
type Severity string

const (
	SeverityNormal   Severity = "NORMAL"
	SeverityLow      Severity = "LOW"
	SeverityUrgent   Severity = "URGENT"
	SeverityCritical Severity = "CRITICAL"
)

type HealthIssue struct {
	Issue       string  `json:"issue"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

// VisionAnalysis keeps the health issues in the order the agents service
// reported them; they are never re-sorted.
type VisionAnalysis struct {
	Species           string        `json:"species"`
	SpeciesConfidence float64       `json:"speciesConfidence"`
	EmotionalState    string        `json:"emotionalState"`
	EmotionConfidence float64       `json:"emotionConfidence"`
	HealthIssues      []HealthIssue `json:"healthIssues"`
}

func (v VisionAnalysis) Value() (driver.Value, error) { return jsonbValue(v) }
func (v *VisionAnalysis) Scan(value interface{}) error {
	return jsonbScan(v, value)
}

type MedicalAssessment struct {
	Severity         Severity `json:"severity"`
	ConditionSummary string   `json:"conditionSummary"`
	ImmediateActions []string `json:"immediateActions"`
	CareInstructions []string `json:"careInstructions"`
	WarningSigns     []string `json:"warningSigns"`
	// Nil means no hard deadline.
	EstimatedUrgencyHours *int `json:"estimatedUrgencyHours"`
}

func (m MedicalAssessment) Value() (driver.Value, error) { return jsonbValue(m) }
func (m *MedicalAssessment) Scan(value interface{}) error {
	return jsonbScan(m, value)
}

type NutritionPlan struct {
	RecommendedFoods      []string `json:"recommendedFoods"`
	DangerousFoods        []string `json:"dangerousFoods"`
	HydrationPlan         string   `json:"hydrationPlan"`
	FeedingSchedule       string   `json:"feedingSchedule"`
	SpecialConsiderations []string `json:"specialConsiderations"`
}

func (n NutritionPlan) Value() (driver.Value, error) { return jsonbValue(n) }
func (n *NutritionPlan) Scan(value interface{}) error {
	return jsonbScan(n, value)
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l *Location) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return jsonbValue(*l)
}

func (l *Location) Scan(value interface{}) error {
	return jsonbScan(l, value)
}

// Analysis is one completed assessment of a submitted pet image. The
// assessment sections and RequiresSOS are frozen at creation; nothing in the
// application amends them afterwards.
type Analysis struct {
	ID                string            `json:"id" gorm:"primaryKey;type:uuid"`
	UserID            uint              `json:"userId" gorm:"not null;index:idx_analyses_user_created"`
	ImageURL          string            `json:"imageUrl" gorm:"not null"`
	VisionAnalysis    VisionAnalysis    `json:"visionAnalysis" gorm:"type:jsonb"`
	MedicalAssessment MedicalAssessment `json:"medicalAssessment" gorm:"type:jsonb"`
	NutritionPlan     NutritionPlan     `json:"nutritionPlan" gorm:"type:jsonb"`
	RequiresSOS       bool              `json:"requiresSOS" gorm:"default:false"`
	UserNotes         string            `json:"userNotes,omitempty" gorm:"type:text"`
	Location          *Location         `json:"location,omitempty" gorm:"type:jsonb"`
	CreatedAt         time.Time         `json:"createdAt" gorm:"index:idx_analyses_user_created"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

func (a *Analysis) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (Analysis) TableName() string {
	return "analyses"
}
