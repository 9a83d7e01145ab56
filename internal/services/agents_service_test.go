package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newStubAgents(srv *httptest.Server, timeout time.Duration) *AgentsService {
	return &AgentsService{
		baseURL: srv.URL,
		client:  &http.Client{Timeout: timeout},
	}
}

func TestAnalyzeAnimalDecodesAssessment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("Expected /analyze path, got %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"vision_analysis": {
				"species": "cat",
				"species_confidence": 0.91,
				"emotional_state": "scared",
				"emotion_confidence": 0.72,
				"health_issues": [
					{"issue": "eye discharge", "confidence": 0.66, "description": "left eye"}
				]
			},
			"medical_assessment": {
				"severity": "URGENT",
				"condition_summary": "possible eye infection",
				"immediate_actions": ["Keep the eye clean"],
				"care_instructions": ["Wipe gently with saline"],
				"warning_signs": ["Swelling"],
				"estimated_urgency_hours": 24
			},
			"nutrition_plan": {
				"recommended_foods": ["wet food"],
				"dangerous_foods": ["onion"],
				"hydration_plan": "fresh water",
				"feeding_schedule": "3 small meals",
				"special_considerations": []
			},
			"requires_sos": false
		}`))
	}))
	defer srv.Close()

	as := newStubAgents(srv, 5*time.Second)
	result, err := as.AnalyzeAnimal(context.Background(), AnalyzeRequest{ImageURL: "http://example.com/cat.jpg"})
	if err != nil {
		t.Fatalf("AnalyzeAnimal returned error: %v", err)
	}

	if result.VisionAnalysis.Species != "cat" {
		t.Errorf("Expected species 'cat', got %q", result.VisionAnalysis.Species)
	}
	if result.MedicalAssessment.Severity != "URGENT" {
		t.Errorf("Expected severity URGENT, got %q", result.MedicalAssessment.Severity)
	}
	if result.MedicalAssessment.EstimatedUrgencyHours == nil || *result.MedicalAssessment.EstimatedUrgencyHours != 24 {
		t.Error("Expected estimated urgency of 24 hours")
	}
	if len(result.VisionAnalysis.HealthIssues) != 1 {
		t.Fatalf("Expected 1 health issue, got %d", len(result.VisionAnalysis.HealthIssues))
	}
}

func TestAgentsServiceErrorStatusIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "model overloaded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	as := newStubAgents(srv, 5*time.Second)
	_, err := as.ChatWithWhisperer(context.Background(), ChatRequest{Message: "hello"})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("Expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestAgentsServiceTimeoutIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"response": "too late"}`))
	}))
	defer srv.Close()

	as := newStubAgents(srv, 50*time.Millisecond)
	_, err := as.ChatWithWhisperer(context.Background(), ChatRequest{Message: "hello"})
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("Expected ErrUpstreamUnavailable on timeout, got %v", err)
	}
}

func TestChatSuggestionsDefaultToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": "hi there"}`))
	}))
	defer srv.Close()

	as := newStubAgents(srv, 5*time.Second)
	result, err := as.ChatWithWhisperer(context.Background(), ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("ChatWithWhisperer returned error: %v", err)
	}
	if result.Suggestions == nil {
		t.Error("Expected suggestions to default to an empty slice")
	}
}

func TestHealthCheck(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer up.Close()

	if !newStubAgents(up, time.Second).HealthCheck(context.Background()) {
		t.Error("Expected health check against a healthy server to pass")
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	if newStubAgents(down, time.Second).HealthCheck(context.Background()) {
		t.Error("Expected health check against an unhealthy server to fail")
	}
}
