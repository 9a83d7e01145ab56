package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petwhisperer/backend/internal/services"
)

type ChatController struct {
	chatService *services.ChatService
}

func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

type ChatTurnRequest struct {
	Message    string `json:"message" binding:"required,min=1,max=1000"`
	AnalysisID string `json:"analysisId"`
}

// SendMessage runs one conversation turn. With analysisId the turn is
// grounded in that analysis and the exchange is persisted; without it the
// turn is a one-off general question.
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ChatTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := cc.chatService.SendMessage(c.Request.Context(), userID, req.Message, req.AnalysisID)
	if err != nil {
		respondError(c, err, "Chat service unavailable. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":    result.Response,
		"suggestions": result.Suggestions,
		"chatId":      result.ChatID,
	})
}

// GetChatHistory returns the conversation for an analysis. An analysis
// without a conversation yet yields an empty message list, not an error.
func (cc *ChatController) GetChatHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	history, err := cc.chatService.GetHistory(c.Request.Context(), userID, c.Param("analysisId"))
	if err != nil {
		respondError(c, err, "Failed to retrieve chat history")
		return
	}

	if history.AnalysisContext == nil {
		c.JSON(http.StatusOK, gin.H{"messages": history.Messages})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":        history.Messages,
		"analysisContext": history.AnalysisContext,
	})
}

// GetChatSessions lists the user's most recently active conversations.
func (cc *ChatController) GetChatSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := cc.chatService.ListSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve chat sessions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"chatSessions": sessions})
}
