package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/petwhisperer/backend/internal/logger"
	"github.com/petwhisperer/backend/internal/models"
)

// AgentsService is the HTTP client for the external AI agents service. The
// agents service is a black box: every assessment and chat reply comes from
// it, nothing is inferred locally.
type AgentsService struct {
	baseURL string
	client  *http.Client
}

// LatLng carries a coordinate pair in the agents service vocabulary.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type AnalyzeRequest struct {
	ImageURL     string  `json:"image_url"`
	UserNotes    string  `json:"user_notes,omitempty"`
	UserLocation *LatLng `json:"user_location,omitempty"`
}

type HealthIssuePayload struct {
	Issue       string  `json:"issue"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description"`
}

type VisionAnalysisPayload struct {
	Species           string               `json:"species"`
	SpeciesConfidence float64              `json:"species_confidence"`
	EmotionalState    string               `json:"emotional_state"`
	EmotionConfidence float64              `json:"emotion_confidence"`
	HealthIssues      []HealthIssuePayload `json:"health_issues"`
}

type MedicalAssessmentPayload struct {
	Severity              string   `json:"severity"`
	ConditionSummary      string   `json:"condition_summary"`
	ImmediateActions      []string `json:"immediate_actions"`
	CareInstructions      []string `json:"care_instructions"`
	WarningSigns          []string `json:"warning_signs"`
	EstimatedUrgencyHours *int     `json:"estimated_urgency_hours"`
}

type NutritionPlanPayload struct {
	RecommendedFoods      []string `json:"recommended_foods"`
	DangerousFoods        []string `json:"dangerous_foods"`
	HydrationPlan         string   `json:"hydration_plan"`
	FeedingSchedule       string   `json:"feeding_schedule"`
	SpecialConsiderations []string `json:"special_considerations"`
}

// AnalyzeResponse is the agents service's three-part assessment. Field names
// follow the external snake_case contract; transcoding to internal shapes
// happens once, in AnalysisService.Create.
type AnalyzeResponse struct {
	VisionAnalysis    VisionAnalysisPayload    `json:"vision_analysis"`
	MedicalAssessment MedicalAssessmentPayload `json:"medical_assessment"`
	NutritionPlan     NutritionPlanPayload     `json:"nutrition_plan"`
	RequiresSOS       bool                     `json:"requires_sos"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string                  `json:"message"`
	History []ChatTurn              `json:"history"`
	Context *models.AnalysisContext `json:"context,omitempty"`
}

type ChatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

type SOSRequest struct {
	ImageURL         string `json:"image_url"`
	ConditionSummary string `json:"condition_summary"`
	Location         LatLng `json:"location"`
	ContactWhatsapp  string `json:"contact_whatsapp,omitempty"`
	ContactEmail     string `json:"contact_email,omitempty"`
}

type RescueCenterPayload struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Phone      string   `json:"phone"`
	DistanceKm float64  `json:"distance_km"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	PlaceID    string   `json:"place_id"`
	Rating     *float64 `json:"rating"`
	Type       string   `json:"type"`
}

type SOSResponse struct {
	MessageSent         bool                  `json:"message_sent"`
	RescueCenters       []RescueCenterPayload `json:"rescue_centers"`
	SOSMessage          string                `json:"sos_message"`
	RecipientsContacted []string              `json:"recipients_contacted"`
	Error               string                `json:"error,omitempty"`
}

func NewAgentsService(baseURL string) *AgentsService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	// AI operations are slow; the timeout is the bound that keeps a stuck
	// inference backend from hanging a request forever.
	timeout := 60 * time.Second
	if timeoutStr := os.Getenv("AGENTS_TIMEOUT_SECONDS"); timeoutStr != "" {
		if t, err := time.ParseDuration(timeoutStr + "s"); err == nil {
			timeout = t
		}
	}

	return &AgentsService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// AnalyzeAnimal requests the three-part assessment for an image.
func (as *AgentsService) AnalyzeAnimal(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	var result AnalyzeResponse
	if err := as.post(ctx, "/analyze", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChatWithWhisperer sends one conversation turn, optionally grounded in an
// analysis context.
func (as *AgentsService) ChatWithWhisperer(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var result ChatResponse
	if err := as.post(ctx, "/chat", req, &result); err != nil {
		return nil, err
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return &result, nil
}

// ActivateSOS asks the agents service to alert nearby rescue contacts.
func (as *AgentsService) ActivateSOS(ctx context.Context, req SOSRequest) (*SOSResponse, error) {
	var result SOSResponse
	if err := as.post(ctx, "/sos", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthCheck reports whether the agents service is reachable.
func (as *AgentsService) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, as.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := as.client.Do(req)
	if err != nil {
		logger.WithGateway("/health").WithField("error", err.Error()).Warn("Agents service health check failed")
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// post runs one JSON call against the agents service. Any transport error,
// timeout, or non-2xx status maps to ErrUpstreamUnavailable; the upstream
// detail is logged here and never surfaced to the caller.
func (as *AgentsService) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, as.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := as.client.Do(req)
	if err != nil {
		logger.WithGateway(path).WithField("error", err.Error()).Error("Agents service call failed")
		return fmt.Errorf("%s: %w", path, ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.WithGateway(path).WithField("error", err.Error()).Error("Failed to read agents service response")
		return fmt.Errorf("%s: %w", path, ErrUpstreamUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.WithGateway(path).WithFields(map[string]interface{}{
			"status":   resp.StatusCode,
			"duration": time.Since(start).String(),
			"body":     truncate(string(respBody), 512),
		}).Error("Agents service returned error status")
		return fmt.Errorf("%s: %w", path, ErrUpstreamUnavailable)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		logger.WithGateway(path).WithField("error", err.Error()).Error("Failed to decode agents service response")
		return fmt.Errorf("%s: %w", path, ErrUpstreamUnavailable)
	}

	logger.WithGateway(path).WithField("duration", time.Since(start).String()).Debug("Agents service call completed")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
