package board

import "strings"

// Snapshot is the read-only projection handed to the suggestion generator.
// It exposes lane titles and task contents only.
type Snapshot struct {
	Lanes       []LaneSnapshot `json:"lanes"`
	CurrentTask string         `json:"currentTask,omitempty"`
}

// LaneSnapshot lists one lane's title and its task contents in order.
type LaneSnapshot struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

// Suggestion is the generator's answer: a task and the title of the lane it belongs in.
type Suggestion struct {
	Task string `json:"task"`
	Lane string `json:"lane"`
}

// Snapshot projects the live board. currentTask is an optional hint passed
// through to the generator.
func (b *Board) Snapshot(currentTask string) Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snap := Snapshot{
		Lanes:       make([]LaneSnapshot, 0, len(b.lanes)),
		CurrentTask: strings.TrimSpace(currentTask),
	}
	for _, l := range b.lanes {
		tasks := make([]string, 0, len(l.Tasks))
		for _, t := range l.Tasks {
			tasks = append(tasks, t.Content)
		}
		snap.Lanes = append(snap.Lanes, LaneSnapshot{Name: l.Title, Tasks: tasks})
	}
	return snap
}

// Titles returns the lane titles in board order.
func (s Snapshot) Titles() []string {
	titles := make([]string, 0, len(s.Lanes))
	for _, l := range s.Lanes {
		titles = append(titles, l.Name)
	}
	return titles
}
