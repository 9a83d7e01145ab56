package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/petwhisperer/backend/internal/services"
)

type SOSController struct {
	agentsService *services.AgentsService
}

func NewSOSController(agentsService *services.AgentsService) *SOSController {
	return &SOSController{agentsService: agentsService}
}

type SOSActivationRequest struct {
	ImageURL         string          `json:"imageUrl" binding:"required,url"`
	ConditionSummary string          `json:"conditionSummary" binding:"required"`
	Location         LocationRequest `json:"location" binding:"required"`
	ContactWhatsapp  string          `json:"contactWhatsapp"`
	ContactEmail     string          `json:"contactEmail" binding:"omitempty,email"`
}

// ActivateSOS forwards a rescue alert to the agents service, which locates
// nearby rescue centers and notifies the given contacts.
func (sc *SOSController) ActivateSOS(c *gin.Context) {
	var req SOSActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := sc.agentsService.ActivateSOS(c.Request.Context(), services.SOSRequest{
		ImageURL:         req.ImageURL,
		ConditionSummary: req.ConditionSummary,
		Location: services.LatLng{
			Lat: req.Location.Latitude,
			Lng: req.Location.Longitude,
		},
		ContactWhatsapp: req.ContactWhatsapp,
		ContactEmail:    req.ContactEmail,
	})
	if err != nil {
		respondError(c, err, "SOS activation failed. Please try again.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "SOS activated successfully",
		"result":  result,
	})
}
