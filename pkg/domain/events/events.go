// Package events defines the board events published after each mutation.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the board service.
const (
	TypeTaskAdded        = "task.added"
	TypeTaskMoved        = "task.moved"
	TypeTaskSuggested    = "task.suggested"
	TypeSuggestionStart  = "suggestion.started"
	TypeSuggestionFailed = "suggestion.failed"
)

// BoardEvent describes a change to the board or to the suggestion flow.
type BoardEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	TaskID     string    `json:"task_id,omitempty"`
	Content    string    `json:"content,omitempty"`
	LaneID     string    `json:"lane_id,omitempty"`
	LaneTitle  string    `json:"lane_title,omitempty"`
	FromLaneID string    `json:"from_lane_id,omitempty"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// New stamps an event of the given type with an ID and the current time.
func New(eventType string) *BoardEvent {
	return &BoardEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// IsFailure reports whether the event should be surfaced as an error notice.
func (e *BoardEvent) IsFailure() bool {
	return e.Type == TypeSuggestionFailed
}
