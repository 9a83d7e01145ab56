package services

import (
	"fmt"
	"sync"
	"time"
)

type LoadingStatus string

const (
	LoadingStatusUploading LoadingStatus = "uploading"
	LoadingStatusAnalyzing LoadingStatus = "analyzing"
	LoadingStatusComplete  LoadingStatus = "complete"
	LoadingStatusError     LoadingStatus = "error"
)

// loadingStatusRank orders statuses; transitions may only move forward.
var loadingStatusRank = map[LoadingStatus]int{
	LoadingStatusUploading: 0,
	LoadingStatusAnalyzing: 1,
	LoadingStatusComplete:  2,
	LoadingStatusError:     2,
}

// LoadingAnalysis is the client-observable progress of one in-flight
// submission. Ephemeral only; it is never written to the database.
type LoadingAnalysis struct {
	ImageURL   string        `json:"imageUrl"`
	StartedAt  time.Time     `json:"startedAt"`
	Status     LoadingStatus `json:"status"`
	AnalysisID string        `json:"analysisId,omitempty"`
	Error      string        `json:"error,omitempty"`
}

func (l LoadingAnalysis) terminal() bool {
	return l.Status == LoadingStatusComplete || l.Status == LoadingStatusError
}

// LoadingTracker holds at most one LoadingAnalysis slot per user. State is
// explicit and instance-scoped so concurrent submissions from different
// users never share a slot.
type LoadingTracker struct {
	mu    sync.Mutex
	slots map[uint]*LoadingAnalysis
}

func NewLoadingTracker() *LoadingTracker {
	return &LoadingTracker{slots: make(map[uint]*LoadingAnalysis)}
}

// Begin opens a new submission slot in the uploading state. A fresh
// submission replaces whatever was in the slot: there is no resume from a
// failed one, only a restart.
func (t *LoadingTracker) Begin(userID uint, imageURL string) LoadingAnalysis {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot := &LoadingAnalysis{
		ImageURL:  imageURL,
		StartedAt: time.Now().UTC(),
		Status:    LoadingStatusUploading,
	}
	t.slots[userID] = slot
	return *slot
}

// Advance moves the slot forward to a non-terminal status. Backwards or
// repeated transitions and transitions out of a terminal state are rejected.
func (t *LoadingTracker) Advance(userID uint, status LoadingStatus) error {
	if status == LoadingStatusComplete || status == LoadingStatusError {
		return fmt.Errorf("terminal status %q must be set via Complete or Fail", status)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	slot, ok := t.slots[userID]
	if !ok {
		return fmt.Errorf("no active submission for user %d", userID)
	}
	if slot.terminal() {
		return fmt.Errorf("submission already %s", slot.Status)
	}
	if loadingStatusRank[status] <= loadingStatusRank[slot.Status] {
		return fmt.Errorf("cannot move submission from %s to %s", slot.Status, status)
	}

	slot.Status = status
	return nil
}

// Complete marks the slot terminal with the persisted analysis id.
func (t *LoadingTracker) Complete(userID uint, analysisID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot, ok := t.slots[userID]
	if !ok {
		return fmt.Errorf("no active submission for user %d", userID)
	}
	if slot.terminal() {
		return fmt.Errorf("submission already %s", slot.Status)
	}

	slot.Status = LoadingStatusComplete
	slot.AnalysisID = analysisID
	return nil
}

// Fail marks the slot terminal with an error. There is no retry from error;
// the next submission starts over with Begin.
func (t *LoadingTracker) Fail(userID uint, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot, ok := t.slots[userID]
	if !ok {
		return fmt.Errorf("no active submission for user %d", userID)
	}
	if slot.terminal() {
		return fmt.Errorf("submission already %s", slot.Status)
	}

	slot.Status = LoadingStatusError
	slot.Error = message
	return nil
}

// Get returns a copy of the user's slot.
func (t *LoadingTracker) Get(userID uint) (LoadingAnalysis, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot, ok := t.slots[userID]
	if !ok {
		return LoadingAnalysis{}, false
	}
	return *slot, true
}

// Clear discards the slot, normally once the client has observed a terminal
// state.
func (t *LoadingTracker) Clear(userID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.slots, userID)
}
