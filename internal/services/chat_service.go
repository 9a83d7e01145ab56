package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/petwhisperer/backend/internal/logger"
	"github.com/petwhisperer/backend/internal/models"
	"gorm.io/gorm"
)

const maxMessageLength = 1000

// ChatService runs the conversation turn protocol: resolve or create the
// session, assemble history, call the agents service, and append the
// user/assistant pair atomically. A turn that fails before the assistant
// reply arrives persists nothing.
type ChatService struct {
	db     *gorm.DB
	agents *AgentsService

	// Serializes appends per session so concurrent turns against the same
	// chat cannot interleave partial message pairs.
	sessionLocks sync.Map
}

func NewChatService(db *gorm.DB, agents *AgentsService) *ChatService {
	return &ChatService{db: db, agents: agents}
}

// ChatTurnResult is the outcome of one successful turn.
type ChatTurnResult struct {
	Response    string
	Suggestions []string
	ChatID      string
}

// SendMessage executes one conversation turn for the user. When analysisID is
// set the turn is grounded: the analysis must belong to the caller (else
// ErrNotFound — never a silent fallback to ungrounded chat) and the session
// is created lazily on the first turn, snapshotting the grounding context at
// that moment. Ungrounded turns go to the agents service without context and
// are not persisted.
func (s *ChatService) SendMessage(ctx context.Context, userID uint, message string, analysisID string) (*ChatTurnResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if len(message) > maxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageLength)
	}

	var chat *models.Chat
	var grounding *models.AnalysisContext

	if analysisID != "" {
		var analysis models.Analysis
		err := s.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", analysisID, userID).
			First(&analysis).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("resolve analysis: %w", ErrPersistence)
		}

		chat, err = s.findOrCreateSession(ctx, userID, &analysis)
		if err != nil {
			return nil, err
		}
		grounding = &chat.AnalysisContext
	}

	history := []ChatTurn{}
	if chat != nil {
		history = make([]ChatTurn, 0, len(chat.Messages))
		for _, m := range chat.Messages {
			history = append(history, ChatTurn{Role: string(m.Role), Content: m.Content})
		}
	}

	reply, err := s.agents.ChatWithWhisperer(ctx, ChatRequest{
		Message: message,
		History: history,
		Context: grounding,
	})
	if err != nil {
		// Turn abandoned: nothing has been appended.
		return nil, err
	}

	result := &ChatTurnResult{
		Response:    reply.Response,
		Suggestions: reply.Suggestions,
	}

	if chat != nil {
		if err := s.appendTurn(ctx, chat.ID, message, reply.Response); err != nil {
			return nil, err
		}
		result.ChatID = chat.ID
	}

	return result, nil
}

// findOrCreateSession resolves the single chat session for (user, analysis),
// creating it with a frozen grounding context snapshot if this is the first
// turn. The unique index on (user_id, analysis_id) closes the race between
// concurrent first turns.
func (s *ChatService) findOrCreateSession(ctx context.Context, userID uint, analysis *models.Analysis) (*models.Chat, error) {
	var chat models.Chat
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND analysis_id = ?", userID, analysis.ID).
		First(&chat).Error
	if err == nil {
		return &chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("resolve chat session: %w", ErrPersistence)
	}

	analysisID := analysis.ID
	chat = models.Chat{
		AnalysisID:      &analysisID,
		UserID:          userID,
		Messages:        models.MessageList{},
		AnalysisContext: BuildAnalysisContext(analysis),
	}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		// A concurrent first turn may have created the row; use theirs.
		var existing models.Chat
		lookupErr := s.db.WithContext(ctx).
			Where("user_id = ? AND analysis_id = ?", userID, analysis.ID).
			First(&existing).Error
		if lookupErr != nil {
			logger.WithChat("", userID).WithField("error", err.Error()).Error("Failed to create chat session")
			return nil, fmt.Errorf("create chat session: %w", ErrPersistence)
		}
		return &existing, nil
	}

	logger.WithChat(chat.ID, userID).WithField("analysis_id", analysis.ID).Info("Chat session created")
	return &chat, nil
}

// appendTurn persists the user/assistant pair as one atomic write. The
// per-session lock plus a re-read inside the transaction keeps concurrent
// turns against the same session in acceptance order.
func (s *ChatService) appendTurn(ctx context.Context, chatID, userMessage, assistantReply string) error {
	lockAny, _ := s.sessionLocks.LoadOrStore(chatID, &sync.Mutex{})
	lock := lockAny.(*sync.Mutex)
	lock.Lock()
	defer lock.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Chat
		if err := tx.Where("id = ?", chatID).First(&current).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		current.Messages = append(current.Messages,
			models.Message{Role: models.MessageRoleUser, Content: userMessage, Timestamp: now},
			models.Message{Role: models.MessageRoleAssistant, Content: assistantReply, Timestamp: now},
		)
		return tx.Save(&current).Error
	})
	if err != nil {
		logger.WithChat(chatID, 0).WithField("error", err.Error()).Error("Failed to append chat turn")
		return fmt.Errorf("append chat turn: %w", ErrPersistence)
	}
	return nil
}

// ChatHistory is the stored conversation for one analysis: the message
// sequence plus the grounding context frozen at session creation.
type ChatHistory struct {
	Messages        []models.Message
	AnalysisContext *models.AnalysisContext
}

// GetHistory returns the conversation for an analysis. No session yet is a
// valid state, reported as an empty message list rather than an error.
func (s *ChatService) GetHistory(ctx context.Context, userID uint, analysisID string) (*ChatHistory, error) {
	var chat models.Chat
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND analysis_id = ?", userID, analysisID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ChatHistory{Messages: []models.Message{}}, nil
		}
		return nil, fmt.Errorf("get chat history: %w", ErrPersistence)
	}

	return &ChatHistory{
		Messages:        chat.Messages,
		AnalysisContext: &chat.AnalysisContext,
	}, nil
}

// ListSessions returns the user's most recently active chat sessions.
func (s *ChatService) ListSessions(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(20).
		Find(&chats).Error
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", ErrPersistence)
	}
	return chats, nil
}
