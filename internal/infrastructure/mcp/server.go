// Package mcp exposes the roadmap board to MCP clients as a small set of tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/roadmapper/pkg/application"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
)

var Version = "dev"

// BoardService is the part of the application layer the tools drive.
type BoardService interface {
	Lanes() []board.Lane
	Snapshot(currentTask string) board.Snapshot
	MoveTask(taskID, fromLaneID, toLaneID string) error
	AddTask(laneID, content string) (board.Task, error)
	Suggest(ctx context.Context, currentTask string) (*application.SuggestResult, error)
}

type Server struct {
	mcpServer *mcp.Server
	svc       BoardService
	logger    *slog.Logger
}

func NewServer(svc BoardService, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("board service is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: mcp.NewServer(mcp.ServerInfo{Name: "roadmapper", Version: Version},
			mcp.WithTitle("Roadmapper MCP Server"),
			mcp.WithDescription("Roadmapper exposes a kanban roadmap board: lanes, tasks and AI task suggestions."),
			mcp.WithInstructions("Call board_lanes first to learn lane IDs, then add, move or suggest tasks."),
		),
		svc:    svc,
		logger: logger,
	}
	s.registerTools()
	return s, nil
}

type SnapshotArgs struct {
	CurrentTask string `json:"current_task,omitempty" jsonschema:"description=Optional task the user is working on"`
}

type AddTaskArgs struct {
	LaneID  string `json:"lane_id" jsonschema:"description=ID of the lane to append to"`
	Content string `json:"content" jsonschema:"description=Task text; surrounding whitespace is trimmed"`
}

type MoveTaskArgs struct {
	TaskID     string `json:"task_id" jsonschema:"description=ID of the task to move"`
	FromLaneID string `json:"from_lane_id" jsonschema:"description=ID of the lane currently holding the task"`
	ToLaneID   string `json:"to_lane_id" jsonschema:"description=ID of the lane to append the task to"`
}

type SuggestArgs struct {
	CurrentTask string `json:"current_task,omitempty" jsonschema:"description=Optional task to base the suggestion on"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("board_lanes").
		Description("List lanes with their IDs, titles and ordered tasks").
		Handler(s.handleLanes)

	s.mcpServer.Tool("board_snapshot").
		Description("Show the board as the suggestion generator sees it: lane titles and task texts").
		Handler(s.handleSnapshot)

	s.mcpServer.Tool("add_task").
		Description("Append a new task to the end of a lane").
		Handler(s.handleAddTask)

	s.mcpServer.Tool("move_task").
		Description("Move a task to the end of another lane (or of its own lane)").
		Handler(s.handleMoveTask)

	s.mcpServer.Tool("suggest_task").
		Description("Ask the configured AI provider for the next logical task and add it to the board").
		Handler(s.handleSuggest)
}

func (s *Server) handleLanes(ctx context.Context, args struct{}) (any, error) {
	return s.svc.Lanes(), nil
}

func (s *Server) handleSnapshot(ctx context.Context, args SnapshotArgs) (any, error) {
	return s.svc.Snapshot(args.CurrentTask), nil
}

func (s *Server) handleAddTask(ctx context.Context, args AddTaskArgs) (string, error) {
	task, err := s.svc.AddTask(args.LaneID, args.Content)
	if err != nil {
		return "", toolErr(err)
	}
	return fmt.Sprintf("Added task %s to lane %s: %s", task.ID, args.LaneID, task.Content), nil
}

func (s *Server) handleMoveTask(ctx context.Context, args MoveTaskArgs) (string, error) {
	if err := s.svc.MoveTask(args.TaskID, args.FromLaneID, args.ToLaneID); err != nil {
		return "", toolErr(err)
	}
	return fmt.Sprintf("Moved task %s from %s to the end of %s", args.TaskID, args.FromLaneID, args.ToLaneID), nil
}

func (s *Server) handleSuggest(ctx context.Context, args SuggestArgs) (any, error) {
	res, err := s.svc.Suggest(ctx, args.CurrentTask)
	if err != nil {
		s.logger.Warn("mcp suggestion failed", "error", err)
		return nil, toolErr(err)
	}
	return res, nil
}

// toolErr turns board errors into messages an agent can act on. Transport and
// provider details stay in the log.
func toolErr(err error) error {
	var laneErr *board.LaneError
	switch {
	case errors.As(err, &laneErr):
		return fmt.Errorf("no lane %q; call board_lanes for lane IDs", laneErr.Ref)
	case errors.Is(err, board.ErrTaskNotFound):
		return errors.New("task not found in the source lane; call board_lanes for task IDs")
	case errors.Is(err, board.ErrEmptyContent):
		return errors.New("task content must not be empty")
	case errors.Is(err, board.ErrSuggestionInFlight):
		return errors.New("a suggestion is already being generated; try again shortly")
	case errors.Is(err, application.ErrMalformedSuggestion):
		return errors.New("the suggestion service returned an unreadable answer")
	default:
		return errors.New("the request failed; see the roadmapper log for details")
	}
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
