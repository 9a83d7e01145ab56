package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/petwhisperer/backend/internal/logger"
	"github.com/petwhisperer/backend/internal/models"
	"github.com/petwhisperer/backend/internal/services"
)

type AnalysisController struct {
	analysisService *services.AnalysisService
	agentsService   *services.AgentsService
	tracker         *services.LoadingTracker
}

func NewAnalysisController(analysisService *services.AnalysisService, agentsService *services.AgentsService, tracker *services.LoadingTracker) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
		agentsService:   agentsService,
		tracker:         tracker,
	}
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
}

type AnalyzeAnimalRequest struct {
	ImageURL  string           `json:"imageUrl" binding:"required,url"`
	UserNotes string           `json:"userNotes"`
	Location  *LocationRequest `json:"location"`
}

// AnalyzeAnimal submits an image to the agents service and persists the
// resulting assessment.
func (ac *AnalysisController) AnalyzeAnimal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AnalyzeAnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ac.tracker.Begin(userID, req.ImageURL)

	analyzeReq := services.AnalyzeRequest{
		ImageURL:  req.ImageURL,
		UserNotes: req.UserNotes,
	}
	var location *models.Location
	if req.Location != nil {
		analyzeReq.UserLocation = &services.LatLng{
			Lat: req.Location.Latitude,
			Lng: req.Location.Longitude,
		}
		location = &models.Location{
			Latitude:  req.Location.Latitude,
			Longitude: req.Location.Longitude,
		}
	}

	if err := ac.tracker.Advance(userID, services.LoadingStatusAnalyzing); err != nil {
		logger.WithUser(userID).WithField("error", err.Error()).Warn("Loading tracker transition rejected")
	}

	// Detached from the request context: a submission abandoned by the
	// client must still finish inference and be persisted.
	result, err := ac.agentsService.AnalyzeAnimal(context.Background(), analyzeReq)
	if err != nil {
		ac.tracker.Fail(userID, "Analysis failed. Please try again.")
		respondError(c, err, "Analysis failed. Please try again.")
		return
	}

	analysis, err := ac.analysisService.Create(context.Background(), userID, services.CreateAnalysisInput{
		ImageURL:   req.ImageURL,
		Assessment: result,
		UserNotes:  req.UserNotes,
		Location:   location,
	})
	if err != nil {
		ac.tracker.Fail(userID, "Failed to save analysis.")
		respondError(c, err, "Failed to save analysis.")
		return
	}

	ac.tracker.Complete(userID, analysis.ID)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Analysis completed successfully",
		"analysisId": analysis.ID,
		"result": gin.H{
			"visionAnalysis":    analysis.VisionAnalysis,
			"medicalAssessment": analysis.MedicalAssessment,
			"nutritionPlan":     analysis.NutritionPlan,
			"requiresSOS":       analysis.RequiresSOS,
		},
	})
}

// GetAnalysisStatus reports the in-flight submission slot. Observing a
// terminal state discards the slot.
func (ac *AnalysisController) GetAnalysisStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	slot, exists := ac.tracker.Get(userID)
	if !exists {
		c.JSON(http.StatusOK, gin.H{"loading": nil})
		return
	}

	if slot.Status == services.LoadingStatusComplete || slot.Status == services.LoadingStatusError {
		ac.tracker.Clear(userID)
	}

	c.JSON(http.StatusOK, gin.H{"loading": slot})
}

// GetHistory returns one page of the user's analyses, newest first.
func (ac *AnalysisController) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	analyses, total, err := ac.analysisService.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err, "Failed to fetch history")
		return
	}

	pages := (total + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, gin.H{
		"analyses": analyses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": pages,
		},
	})
}

// GetAnalysis returns a single analysis owned by the caller.
func (ac *AnalysisController) GetAnalysis(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	analysis, err := ac.analysisService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch analysis")
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// DeleteAnalysis permanently removes an analysis owned by the caller.
func (ac *AnalysisController) DeleteAnalysis(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := ac.analysisService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete analysis")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted successfully"})
}
