package services

import (
	"testing"
)

func TestLoadingTrackerHappyPath(t *testing.T) {
	tracker := NewLoadingTracker()

	tracker.Begin(1, "http://example.com/pet.jpg")

	slot, ok := tracker.Get(1)
	if !ok || slot.Status != LoadingStatusUploading {
		t.Fatalf("Expected uploading slot, got %+v (ok=%v)", slot, ok)
	}

	if err := tracker.Advance(1, LoadingStatusAnalyzing); err != nil {
		t.Fatalf("Expected advance to analyzing to succeed: %v", err)
	}

	if err := tracker.Complete(1, "analysis-123"); err != nil {
		t.Fatalf("Expected complete to succeed: %v", err)
	}

	slot, _ = tracker.Get(1)
	if slot.Status != LoadingStatusComplete || slot.AnalysisID != "analysis-123" {
		t.Errorf("Expected complete slot with analysis id, got %+v", slot)
	}

	tracker.Clear(1)
	if _, ok := tracker.Get(1); ok {
		t.Error("Expected slot to be cleared")
	}
}

func TestLoadingTrackerMonotonicTransitions(t *testing.T) {
	tracker := NewLoadingTracker()
	tracker.Begin(1, "http://example.com/pet.jpg")

	if err := tracker.Advance(1, LoadingStatusUploading); err == nil {
		t.Error("Expected repeated uploading transition to be rejected")
	}

	if err := tracker.Advance(1, LoadingStatusAnalyzing); err != nil {
		t.Fatalf("Advance to analyzing failed: %v", err)
	}

	if err := tracker.Advance(1, LoadingStatusComplete); err == nil {
		t.Error("Expected terminal transition via Advance to be rejected")
	}
}

func TestLoadingTrackerErrorIsTerminal(t *testing.T) {
	tracker := NewLoadingTracker()
	tracker.Begin(1, "http://example.com/pet.jpg")

	if err := tracker.Fail(1, "inference failed"); err != nil {
		t.Fatalf("Fail returned error: %v", err)
	}

	// No retry from error: every further transition is rejected.
	if err := tracker.Advance(1, LoadingStatusAnalyzing); err == nil {
		t.Error("Expected transitions out of error to be rejected")
	}
	if err := tracker.Complete(1, "analysis-123"); err == nil {
		t.Error("Expected complete after error to be rejected")
	}

	// A new submission restarts cleanly from uploading.
	slot := tracker.Begin(1, "http://example.com/other.jpg")
	if slot.Status != LoadingStatusUploading || slot.Error != "" {
		t.Errorf("Expected fresh uploading slot, got %+v", slot)
	}
}

func TestLoadingTrackerSlotsAreSeparatePerUser(t *testing.T) {
	tracker := NewLoadingTracker()
	tracker.Begin(1, "http://example.com/a.jpg")
	tracker.Begin(2, "http://example.com/b.jpg")

	if err := tracker.Fail(1, "boom"); err != nil {
		t.Fatalf("Fail returned error: %v", err)
	}

	slot, ok := tracker.Get(2)
	if !ok || slot.Status != LoadingStatusUploading {
		t.Errorf("User 2 slot should be untouched, got %+v (ok=%v)", slot, ok)
	}
}

func TestLoadingTrackerTransitionWithoutSubmission(t *testing.T) {
	tracker := NewLoadingTracker()

	if err := tracker.Advance(7, LoadingStatusAnalyzing); err == nil {
		t.Error("Expected advance without an active submission to fail")
	}
	if err := tracker.Complete(7, "analysis-123"); err == nil {
		t.Error("Expected complete without an active submission to fail")
	}
}
