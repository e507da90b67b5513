package events

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimelineSize bounds the activity log kept in memory.
const DefaultTimelineSize = 100

// TimelineEntry is one line in the board activity log.
type TimelineEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	EventType   string    `json:"type"`
	Description string    `json:"description"`
	TaskID      string    `json:"task_id,omitempty"`
	Failure     bool      `json:"failure,omitempty"`
}

// Timeline keeps the most recent board events as human-readable entries.
type Timeline struct {
	mu      sync.RWMutex
	entries []TimelineEntry
	size    int
}

// NewTimeline creates a timeline holding at most size entries.
func NewTimeline(size int) *Timeline {
	if size <= 0 {
		size = DefaultTimelineSize
	}
	return &Timeline{size: size}
}

// Attach subscribes the timeline to p.
func (t *Timeline) Attach(p *Publisher) (detach func()) {
	return p.Subscribe(t.Apply)
}

// Apply records e, evicting the oldest entry when full.
func (t *Timeline) Apply(e *BoardEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = append(t.entries, TimelineEntry{
		Timestamp:   e.Timestamp,
		EventType:   e.Type,
		Description: Describe(e),
		TaskID:      e.TaskID,
		Failure:     e.IsFailure(),
	})
	if over := len(t.entries) - t.size; over > 0 {
		t.entries = append(t.entries[:0:0], t.entries[over:]...)
	}
	return nil
}

// Recent returns up to n entries, oldest first. n <= 0 returns all.
func (t *Timeline) Recent(n int) []TimelineEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	start := 0
	if n > 0 && n < len(t.entries) {
		start = len(t.entries) - n
	}
	result := make([]TimelineEntry, len(t.entries)-start)
	copy(result, t.entries[start:])
	return result
}

// Describe renders e as a one-line, human-readable sentence.
func Describe(e *BoardEvent) string {
	switch e.Type {
	case TypeTaskAdded:
		return fmt.Sprintf("Added %q to %s", e.Content, laneLabel(e))
	case TypeTaskMoved:
		return fmt.Sprintf("Moved %s from %s to %s", e.TaskID, e.FromLaneID, laneLabel(e))
	case TypeTaskSuggested:
		return fmt.Sprintf("Suggested %q for %s", e.Content, laneLabel(e))
	case TypeSuggestionStart:
		return "Requesting a task suggestion"
	case TypeSuggestionFailed:
		if e.Message != "" {
			return e.Message
		}
		return "Suggestion failed"
	default:
		return e.Type
	}
}

func laneLabel(e *BoardEvent) string {
	if e.LaneTitle != "" {
		return e.LaneTitle
	}
	return e.LaneID
}
