package board

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := New([]Lane{
		{ID: "todo", Title: "To Do", Tasks: []Task{
			{ID: "t1", Content: "one"},
			{ID: "t2", Content: "two"},
			{ID: "t3", Content: "three"},
		}},
		{ID: "doing", Title: "Doing", Tasks: []Task{
			{ID: "t4", Content: "four"},
		}},
		{ID: "done", Title: "Done"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b
}

func taskIDs(l Lane) []string {
	ids := make([]string, 0, len(l.Tasks))
	for _, t := range l.Tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func mustLane(t *testing.T, b *Board, id string) Lane {
	t.Helper()
	l, ok := b.Lane(id)
	if !ok {
		t.Fatalf("lane %s missing", id)
	}
	return l
}

func TestNew_RejectsDuplicateLaneIDs(t *testing.T) {
	_, err := New([]Lane{{ID: "a", Title: "A"}, {ID: "a", Title: "B"}})
	if !errors.Is(err, ErrDuplicateLane) {
		t.Errorf("expected ErrDuplicateLane, got %v", err)
	}
}

func TestNew_RejectsDuplicateTaskIDs(t *testing.T) {
	_, err := New([]Lane{
		{ID: "a", Tasks: []Task{{ID: "x", Content: "1"}}},
		{ID: "b", Tasks: []Task{{ID: "x", Content: "2"}}},
	})
	if !errors.Is(err, ErrDuplicateTask) {
		t.Errorf("expected ErrDuplicateTask, got %v", err)
	}
}

func TestNew_RejectsEmptySeedContent(t *testing.T) {
	_, err := New([]Lane{{ID: "a", Tasks: []Task{{ID: "x", Content: "   "}}}})
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestNew_CopiesSeed(t *testing.T) {
	seed := []Lane{{ID: "a", Title: "A", Tasks: []Task{{ID: "x", Content: "1"}}}}
	b, err := New(seed)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	seed[0].Tasks[0].Content = "changed"
	if got := mustLane(t, b, "a").Tasks[0].Content; got != "1" {
		t.Errorf("board shares seed storage, got %q", got)
	}
}

func TestMoveTask_BetweenLanes(t *testing.T) {
	b := newTestBoard(t)

	lane, err := b.MoveTask("t2", "todo", "doing")
	if err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	if lane.ID != "doing" || lane.Title != "Doing" || lane.Tasks != nil {
		t.Errorf("expected target lane header, got %+v", lane)
	}

	if got, want := taskIDs(mustLane(t, b, "todo")), []string{"t1", "t3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("source lane = %v, want %v", got, want)
	}
	if got, want := taskIDs(mustLane(t, b, "doing")), []string{"t4", "t2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("target lane = %v, want %v", got, want)
	}
}

func TestMoveTask_SameLaneMovesToEnd(t *testing.T) {
	b := newTestBoard(t)

	if _, err := b.MoveTask("t1", "todo", "todo"); err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	if got, want := taskIDs(mustLane(t, b, "todo")), []string{"t2", "t3", "t1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lane = %v, want %v", got, want)
	}

	// Already last: order is unchanged.
	if _, err := b.MoveTask("t1", "todo", "todo"); err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	if got, want := taskIDs(mustLane(t, b, "todo")), []string{"t2", "t3", "t1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lane = %v, want %v", got, want)
	}
}

func TestMoveTask_PreconditionMissLeavesBoardUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		taskID  string
		from    string
		to      string
		wantErr error
	}{
		{"unknown source", "t1", "nope", "done", ErrLaneNotFound},
		{"unknown target", "t1", "todo", "nope", ErrLaneNotFound},
		{"unknown task", "missing", "todo", "done", ErrTaskNotFound},
		{"task in other lane", "t4", "todo", "done", ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t)
			before := b.Lanes()

			_, err := b.MoveTask(tt.taskID, tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if after := b.Lanes(); !reflect.DeepEqual(before, after) {
				t.Errorf("board changed:\nbefore %+v\nafter  %+v", before, after)
			}
		})
	}
}

func TestAddTask_TrimsAndAppends(t *testing.T) {
	b := newTestBoard(t)

	task, added, err := b.AddTask("done", "  Buy milk  ")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if added.ID != "done" || added.Title != "Done" || added.Tasks != nil {
		t.Errorf("expected lane header for done, got %+v", added)
	}
	if task.Content != "Buy milk" {
		t.Errorf("expected trimmed content, got %q", task.Content)
	}
	lane := mustLane(t, b, "done")
	if len(lane.Tasks) != 1 || lane.Tasks[0] != task {
		t.Errorf("expected lane to hold only the new task, got %+v", lane.Tasks)
	}
}

func TestAddTask_PreconditionMiss(t *testing.T) {
	b := newTestBoard(t)
	before := b.Lanes()

	if _, _, err := b.AddTask("todo", "  \t "); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
	if _, _, err := b.AddTask("nope", "real"); !errors.Is(err, ErrLaneNotFound) {
		t.Errorf("expected ErrLaneNotFound, got %v", err)
	}
	if after := b.Lanes(); !reflect.DeepEqual(before, after) {
		t.Errorf("board changed after failed adds")
	}
}

func TestAddTask_UniqueIDs(t *testing.T) {
	b := newTestBoard(t)
	seen := map[string]bool{"t1": true, "t2": true, "t3": true, "t4": true}

	for i := 0; i < 200; i++ {
		task, _, err := b.AddTask("todo", fmt.Sprintf("task %d", i))
		if err != nil {
			t.Fatalf("AddTask failed: %v", err)
		}
		if seen[task.ID] {
			t.Fatalf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestAddTask_RegeneratesCollidingIDs(t *testing.T) {
	ids := []string{"t1", "t1", "fresh"}
	gen := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	b, err := New([]Lane{{ID: "a", Tasks: []Task{{ID: "t1", Content: "x"}}}}, WithIDGenerator(gen))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	task, _, err := b.AddTask("a", "y")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.ID != "fresh" {
		t.Errorf("expected regenerated id 'fresh', got %q", task.ID)
	}
}

func TestAddTask_ExhaustedGenerator(t *testing.T) {
	b, err := New([]Lane{{ID: "a", Tasks: []Task{{ID: "same", Content: "x"}}}},
		WithIDGenerator(func() string { return "same" }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	before := b.Lanes()

	if _, _, err := b.AddTask("a", "y"); !errors.Is(err, ErrDuplicateTask) {
		t.Errorf("expected ErrDuplicateTask, got %v", err)
	}
	if !reflect.DeepEqual(before, b.Lanes()) {
		t.Error("board changed after exhausted generator")
	}
}

func TestApplySuggestion(t *testing.T) {
	b := newTestBoard(t)

	task, lane, err := b.ApplySuggestion("Doing", " Ship it ")
	if err != nil {
		t.Fatalf("ApplySuggestion failed: %v", err)
	}
	if lane.ID != "doing" {
		t.Errorf("expected lane doing, got %s", lane.ID)
	}
	if got := mustLane(t, b, "doing").Tasks; got[len(got)-1] != task || task.Content != "Ship it" {
		t.Errorf("suggested task not appended: %+v", got)
	}
}

func TestApplySuggestion_UnknownTitle(t *testing.T) {
	b := newTestBoard(t)
	before := b.Lanes()

	_, _, err := b.ApplySuggestion("Nonexistent Lane", "Do X")
	if !errors.Is(err, ErrLaneNotFound) {
		t.Errorf("expected ErrLaneNotFound, got %v", err)
	}
	var laneErr *LaneError
	if !errors.As(err, &laneErr) || laneErr.Ref != "Nonexistent Lane" {
		t.Errorf("expected LaneError naming the title, got %v", err)
	}
	if !reflect.DeepEqual(before, b.Lanes()) {
		t.Error("board changed after unresolved suggestion")
	}
}

func TestApplySuggestion_MatchesTitleNotID(t *testing.T) {
	b := newTestBoard(t)
	if _, _, err := b.ApplySuggestion("doing", "x"); !errors.Is(err, ErrLaneNotFound) {
		t.Errorf("lane ID must not resolve as a title, got %v", err)
	}
	if _, _, err := b.ApplySuggestion("to do", "x"); !errors.Is(err, ErrLaneNotFound) {
		t.Errorf("title match must be exact, got %v", err)
	}
}

func TestApplySuggestion_DuplicateTitlesFirstWins(t *testing.T) {
	b, err := New([]Lane{
		{ID: "first", Title: "Backlog"},
		{ID: "second", Title: "Backlog"},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, lane, err := b.ApplySuggestion("Backlog", "x")
	if err != nil {
		t.Fatalf("ApplySuggestion failed: %v", err)
	}
	if lane.ID != "first" {
		t.Errorf("expected first match, got %s", lane.ID)
	}
	if len(mustLane(t, b, "second").Tasks) != 0 {
		t.Error("second lane should be untouched")
	}
}

func TestApplySuggestion_EmptyContent(t *testing.T) {
	b := newTestBoard(t)
	if _, _, err := b.ApplySuggestion("Done", " "); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestLanes_ReturnsCopy(t *testing.T) {
	b := newTestBoard(t)
	lanes := b.Lanes()
	lanes[0].Tasks[0].Content = "mutated"
	lanes[0].Tasks = append(lanes[0].Tasks, Task{ID: "rogue", Content: "x"})

	if l := mustLane(t, b, "todo"); l.Tasks[0].Content != "one" || len(l.Tasks) != 3 {
		t.Errorf("Lanes leaked internal state: %+v", l.Tasks)
	}
}

func TestEndToEnd_AddThenMove(t *testing.T) {
	b, err := New([]Lane{{ID: "To Do", Title: "To Do"}, {ID: "Done", Title: "Done"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	task, _, err := b.AddTask("To Do", "Write docs")
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	todo := mustLane(t, b, "To Do")
	if len(todo.Tasks) != 1 || todo.Tasks[0].Content != "Write docs" {
		t.Fatalf("unexpected To Do lane: %+v", todo.Tasks)
	}

	if _, err := b.MoveTask(task.ID, "To Do", "Done"); err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}
	if n := len(mustLane(t, b, "To Do").Tasks); n != 0 {
		t.Errorf("expected To Do empty, got %d tasks", n)
	}
	done := mustLane(t, b, "Done")
	if len(done.Tasks) != 1 || done.Tasks[0].Content != "Write docs" {
		t.Errorf("unexpected Done lane: %+v", done.Tasks)
	}
}

func TestDefaultLanes_BuildBoard(t *testing.T) {
	b, err := New(DefaultLanes())
	if err != nil {
		t.Fatalf("default lanes invalid: %v", err)
	}
	if n := len(b.Lanes()); n != 5 {
		t.Errorf("expected 5 lanes, got %d", n)
	}
}
