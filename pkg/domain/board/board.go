// Package board holds the roadmap board state: a fixed, ordered set of lanes,
// each carrying an ordered list of tasks.
package board

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// maxIDAttempts bounds regeneration when an ID generator returns an ID already seen.
const maxIDAttempts = 8

// Task is a unit of free text. Content is never edited after creation.
type Task struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Lane is a named column of tasks. Titles are for display and need not be unique.
type Lane struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color,omitempty"`
	Tasks []Task `json:"tasks"`
}

// IDGenerator produces task identifiers.
type IDGenerator func() string

// NewTaskID returns a random task identifier.
func NewTaskID() string {
	return "task-" + uuid.NewString()
}

// Option configures a Board.
type Option func(*Board)

// WithIDGenerator overrides task ID generation.
func WithIDGenerator(gen IDGenerator) Option {
	return func(b *Board) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// Board owns the lanes. Every exported method runs as a single critical
// section, so an operation either completes fully or leaves the board as it was.
type Board struct {
	mu    sync.RWMutex
	lanes []Lane
	seen  map[string]struct{}
	newID IDGenerator
}

// New builds a board from a seed definition. The seed is copied; later
// changes to it do not affect the board.
func New(lanes []Lane, opts ...Option) (*Board, error) {
	b := &Board{
		lanes: make([]Lane, 0, len(lanes)),
		seen:  make(map[string]struct{}),
		newID: NewTaskID,
	}
	for _, opt := range opts {
		opt(b)
	}

	laneIDs := make(map[string]struct{}, len(lanes))
	for _, l := range lanes {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			return nil, fmt.Errorf("lane %q: empty lane ID", l.Title)
		}
		if _, dup := laneIDs[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLane, id)
		}
		laneIDs[id] = struct{}{}

		lane := Lane{ID: id, Title: l.Title, Color: l.Color, Tasks: make([]Task, 0, len(l.Tasks))}
		for _, t := range l.Tasks {
			content := strings.TrimSpace(t.Content)
			if content == "" {
				return nil, fmt.Errorf("lane %s: %w", id, ErrEmptyContent)
			}
			taskID := t.ID
			if taskID == "" {
				var err error
				if taskID, err = b.nextID(); err != nil {
					return nil, err
				}
			}
			if _, dup := b.seen[taskID]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateTask, taskID)
			}
			b.seen[taskID] = struct{}{}
			lane.Tasks = append(lane.Tasks, Task{ID: taskID, Content: content})
		}
		b.lanes = append(b.lanes, lane)
	}

	return b, nil
}

// Lanes returns a deep copy of the current lanes in board order.
func (b *Board) Lanes() []Lane {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Lane, len(b.lanes))
	for i, l := range b.lanes {
		out[i] = l
		out[i].Tasks = append(make([]Task, 0, len(l.Tasks)), l.Tasks...)
	}
	return out
}

// Lane returns a copy of the lane with the given ID.
func (b *Board) Lane(laneID string) (Lane, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.indexOf(laneID)
	if i < 0 {
		return Lane{}, false
	}
	l := b.lanes[i]
	l.Tasks = append(make([]Task, 0, len(l.Tasks)), l.Tasks...)
	return l, true
}

// MoveTask removes the task from the source lane and appends it to the end of
// the target lane, returning the target lane without its tasks. Source and
// target may be the same lane, in which case the task moves to the end of that lane.
func (b *Board) MoveTask(taskID, sourceLaneID, targetLaneID string) (Lane, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	src := b.indexOf(sourceLaneID)
	if src < 0 {
		return Lane{}, &LaneError{Ref: sourceLaneID}
	}
	dst := b.indexOf(targetLaneID)
	if dst < 0 {
		return Lane{}, &LaneError{Ref: targetLaneID}
	}

	pos := -1
	for i, t := range b.lanes[src].Tasks {
		if t.ID == taskID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return Lane{}, fmt.Errorf("%w: %s in %s", ErrTaskNotFound, taskID, sourceLaneID)
	}

	task := b.lanes[src].Tasks[pos]
	tasks := b.lanes[src].Tasks
	b.lanes[src].Tasks = append(tasks[:pos:pos], tasks[pos+1:]...)
	b.lanes[dst].Tasks = append(b.lanes[dst].Tasks, task)
	return b.lanes[dst].header(), nil
}

// AddTask appends a new task with the trimmed content to the lane and returns
// it together with the lane it landed in.
func (b *Board) AddTask(laneID, content string) (Task, Lane, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Task{}, Lane{}, ErrEmptyContent
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(laneID)
	if i < 0 {
		return Task{}, Lane{}, &LaneError{Ref: laneID}
	}
	task, err := b.appendTask(i, content)
	if err != nil {
		return Task{}, Lane{}, err
	}
	return task, b.lanes[i].header(), nil
}

// ApplySuggestion adds a task to the first lane, in board order, whose title
// equals laneTitle exactly. Nothing is added when no title matches.
func (b *Board) ApplySuggestion(laneTitle, content string) (Task, Lane, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Task{}, Lane{}, ErrEmptyContent
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, l := range b.lanes {
		if l.Title != laneTitle {
			continue
		}
		task, err := b.appendTask(i, content)
		if err != nil {
			return Task{}, Lane{}, err
		}
		return task, l.header(), nil
	}
	return Task{}, Lane{}, &LaneError{Ref: laneTitle}
}

// header copies the lane without its tasks.
func (l Lane) header() Lane {
	return Lane{ID: l.ID, Title: l.Title, Color: l.Color}
}

// appendTask must be called with the write lock held.
func (b *Board) appendTask(laneIdx int, content string) (Task, error) {
	id, err := b.nextID()
	if err != nil {
		return Task{}, err
	}
	b.seen[id] = struct{}{}
	task := Task{ID: id, Content: content}
	b.lanes[laneIdx].Tasks = append(b.lanes[laneIdx].Tasks, task)
	return task, nil
}

// nextID returns an ID never handed out or seeded on this board.
func (b *Board) nextID() (string, error) {
	for range maxIDAttempts {
		id := b.newID()
		if id == "" {
			continue
		}
		if _, used := b.seen[id]; !used {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: generator exhausted after %d attempts", ErrDuplicateTask, maxIDAttempts)
}

func (b *Board) indexOf(laneID string) int {
	for i, l := range b.lanes {
		if l.ID == laneID {
			return i
		}
	}
	return -1
}
