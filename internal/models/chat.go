package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessageList is the append-only conversation log, stored as a jsonb array.
// It grows by exactly one user/assistant pair per successful turn.
type MessageList []Message

func (l MessageList) Value() (driver.Value, error) {
	if l == nil {
		return jsonbValue([]Message{})
	}
	return jsonbValue([]Message(l))
}

func (l *MessageList) Scan(value interface{}) error {
	return jsonbScan(l, value)
}

// AnalysisContext is the grounding payload derived from an Analysis when its
// chat session is created. It is deliberately smaller than the full record:
// it is retransmitted to the agents service on every turn.
type AnalysisContext struct {
	Species          string   `json:"species"`
	EmotionalState   string   `json:"emotionalState"`
	HealthIssues     []string `json:"healthIssues"`
	Severity         Severity `json:"severity"`
	ConditionSummary string   `json:"conditionSummary"`
	ImmediateActions []string `json:"immediateActions"`
	CareInstructions []string `json:"careInstructions"`
	RecommendedFoods []string `json:"recommendedFoods"`
	DangerousFoods   []string `json:"dangerousFoods"`
}

func (a AnalysisContext) Value() (driver.Value, error) { return jsonbValue(a) }
func (a *AnalysisContext) Scan(value interface{}) error {
	return jsonbScan(a, value)
}

// Chat is one conversation anchored to a single Analysis. There is at most
// one chat per (user, analysis) pair; AnalysisContext is snapshotted when the
// row is created and never re-derived from the live record.
type Chat struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid"`
	AnalysisID      *string         `json:"analysisId" gorm:"type:uuid;uniqueIndex:idx_chats_user_analysis"`
	UserID          uint            `json:"userId" gorm:"not null;index;uniqueIndex:idx_chats_user_analysis"`
	Messages        MessageList     `json:"messages" gorm:"type:jsonb"`
	AnalysisContext AnalysisContext `json:"analysisContext" gorm:"type:jsonb"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (ch *Chat) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	return nil
}

func (Chat) TableName() string {
	return "chats"
}
