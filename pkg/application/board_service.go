package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/events"
)

// SuggestResult reports a suggestion that was added to the board.
type SuggestResult struct {
	Task       board.Task       `json:"task"`
	Lane       board.Lane       `json:"lane"`
	Suggestion board.Suggestion `json:"suggestion"`
}

// BoardService is the single entry point the adapters use. It owns the board,
// the suggestion gate and the event stream.
type BoardService struct {
	board     *board.Board
	gate      *board.SuggestionGate
	suggester Suggester
	publisher *events.Publisher
	timeline  *events.Timeline
	logger    *slog.Logger
}

// NewBoardService wires a board to a suggester. publisher and logger may be nil.
func NewBoardService(b *board.Board, suggester Suggester, publisher *events.Publisher, logger *slog.Logger) (*BoardService, error) {
	if b == nil {
		return nil, fmt.Errorf("board is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = events.NewPublisher(logger)
	}
	gate, err := board.NewSuggestionGate()
	if err != nil {
		return nil, err
	}
	timeline := events.NewTimeline(events.DefaultTimelineSize)
	timeline.Attach(publisher)
	return &BoardService{
		board:     b,
		gate:      gate,
		suggester: suggester,
		publisher: publisher,
		timeline:  timeline,
		logger:    logger,
	}, nil
}

// Lanes returns the current board state.
func (s *BoardService) Lanes() []board.Lane {
	return s.board.Lanes()
}

// Snapshot returns the projection that would be sent to the generator.
func (s *BoardService) Snapshot(currentTask string) board.Snapshot {
	return s.board.Snapshot(currentTask)
}

// Events exposes the publisher for stream adapters.
func (s *BoardService) Events() *events.Publisher {
	return s.publisher
}

// Activity returns up to n recent timeline entries, oldest first.
func (s *BoardService) Activity(n int) []events.TimelineEntry {
	return s.timeline.Recent(n)
}

// Suggesting reports whether a suggestion request is in flight.
func (s *BoardService) Suggesting() bool {
	return s.gate.Busy()
}

// MoveTask relocates a task to the end of the target lane.
func (s *BoardService) MoveTask(taskID, fromLaneID, toLaneID string) error {
	lane, err := s.board.MoveTask(taskID, fromLaneID, toLaneID)
	if err != nil {
		s.logger.Debug("move ignored", "task", taskID, "from", fromLaneID, "to", toLaneID, "reason", err)
		return err
	}

	s.logger.Info("task moved", "task", taskID, "from", fromLaneID, "to", toLaneID)
	e := events.New(events.TypeTaskMoved)
	e.TaskID = taskID
	e.FromLaneID = fromLaneID
	e.LaneID = lane.ID
	e.LaneTitle = lane.Title
	s.publisher.Publish(e)
	return nil
}

// AddTask appends a manually entered task.
func (s *BoardService) AddTask(laneID, content string) (board.Task, error) {
	task, lane, err := s.board.AddTask(laneID, content)
	if err != nil {
		s.logger.Debug("add ignored", "lane", laneID, "reason", err)
		return board.Task{}, err
	}

	e := events.New(events.TypeTaskAdded)
	e.TaskID = task.ID
	e.Content = task.Content
	e.LaneID = lane.ID
	e.LaneTitle = lane.Title
	s.logger.Info("task added", "task", task.ID, "lane", laneID)
	s.publisher.Publish(e)
	return task, nil
}

// Suggest asks the generator for a task against the live board and adds it.
// Only one request may be in flight; a second caller gets
// board.ErrSuggestionInFlight. The gate is released on every return path.
func (s *BoardService) Suggest(ctx context.Context, currentTask string) (*SuggestResult, error) {
	if s.suggester == nil {
		return nil, fmt.Errorf("suggestions are not configured")
	}

	release, err := s.gate.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	s.publisher.Publish(events.New(events.TypeSuggestionStart))

	result, err := s.suggest(ctx, currentTask)
	if err != nil {
		s.logger.Warn("suggestion failed", "error", err)
		e := events.New(events.TypeSuggestionFailed)
		e.Message = failureNotice(err)
		s.publisher.Publish(e)
		return nil, err
	}

	s.logger.Info("task suggested", "task", result.Task.ID, "lane", result.Lane.ID)
	e := events.New(events.TypeTaskSuggested)
	e.TaskID = result.Task.ID
	e.Content = result.Task.Content
	e.LaneID = result.Lane.ID
	e.LaneTitle = result.Lane.Title
	s.publisher.Publish(e)
	return result, nil
}

func (s *BoardService) suggest(ctx context.Context, currentTask string) (*SuggestResult, error) {
	suggestion, err := s.suggester.Suggest(ctx, s.board.Snapshot(currentTask))
	if err != nil {
		return nil, err
	}

	task, lane, err := s.board.ApplySuggestion(suggestion.Lane, suggestion.Task)
	if err != nil {
		return nil, fmt.Errorf("apply suggestion %q: %w", suggestion.Lane, err)
	}
	return &SuggestResult{Task: task, Lane: lane, Suggestion: suggestion}, nil
}

func failureNotice(err error) string {
	var laneErr *board.LaneError
	switch {
	case errors.As(err, &laneErr):
		return fmt.Sprintf("Could not find lane %q to add suggested task.", laneErr.Ref)
	case errors.Is(err, ErrMalformedSuggestion):
		return "The suggestion service returned an unreadable answer."
	default:
		return "Could not get a task suggestion at this time."
	}
}
