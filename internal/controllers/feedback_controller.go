package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petwhisperer/backend/internal/services"
)

type FeedbackController struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackController(feedbackService *services.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

type SubmitFeedbackRequest struct {
	AnalysisID           string   `json:"analysisId" binding:"required"`
	EmotionAccurate      *bool    `json:"emotionAccurate"`
	EmotionCorrection    string   `json:"emotionCorrection"`
	HealthIssuesAccurate *bool    `json:"healthIssuesAccurate"`
	HealthCorrections    []string `json:"healthCorrections"`
	OverallRating        int      `json:"overallRating" binding:"required,min=1,max=5"`
	Comments             string   `json:"comments"`
}

// SubmitFeedback records accuracy feedback for an analysis. Resubmitting
// replaces the previous feedback.
func (fc *FeedbackController) SubmitFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := fc.feedbackService.Submit(c.Request.Context(), userID, services.FeedbackInput{
		AnalysisID:           req.AnalysisID,
		EmotionAccurate:      req.EmotionAccurate,
		EmotionCorrection:    req.EmotionCorrection,
		HealthIssuesAccurate: req.HealthIssuesAccurate,
		HealthCorrections:    req.HealthCorrections,
		OverallRating:        req.OverallRating,
		Comments:             req.Comments,
	})
	if err != nil {
		respondError(c, err, "Failed to save feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Feedback saved",
		"feedback": feedback,
	})
}

// GetFeedback returns the caller's feedback for one analysis.
func (fc *FeedbackController) GetFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	feedback, err := fc.feedbackService.ForAnalysis(c.Request.Context(), userID, c.Param("analysisId"))
	if err != nil {
		respondError(c, err, "Failed to fetch feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
