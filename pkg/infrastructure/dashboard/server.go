// Package dashboard serves the roadmap board in the browser: the board page,
// a JSON API over the board service and live event streams.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/felixgeelhaar/roadmapper/internal/infrastructure/sse"
	"github.com/felixgeelhaar/roadmapper/pkg/application"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
	"github.com/felixgeelhaar/roadmapper/pkg/domain/events"
)

//go:embed templates/*
var templatesFS embed.FS

// BoardService is the part of the application layer the dashboard drives.
type BoardService interface {
	Lanes() []board.Lane
	Snapshot(currentTask string) board.Snapshot
	Activity(n int) []events.TimelineEntry
	Suggesting() bool
	MoveTask(taskID, fromLaneID, toLaneID string) error
	AddTask(laneID, content string) (board.Task, error)
	Suggest(ctx context.Context, currentTask string) (*application.SuggestResult, error)
	Events() *events.Publisher
}

// Server is the dashboard HTTP server.
type Server struct {
	addr    string
	svc     BoardService
	server  *http.Server
	// cancelStreams ends open SSE streams so Shutdown does not wait on them.
	cancelStreams context.CancelFunc
	tmpl    *template.Template
	stream  *sse.SSEHandler
	sockets *socketHub
	logger  *slog.Logger
}

// NewServer creates a new dashboard server.
func NewServer(addr string, svc BoardService, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("board service is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	funcMap := template.FuncMap{
		"formatTime": formatTime,
		"json":       toJSON,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		addr:    addr,
		svc:     svc,
		tmpl:    tmpl,
		stream:  sse.NewSSEHandler(svc.Events(), logger),
		sockets: newSocketHub(svc.Events(), logger),
		logger:  logger,
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	s.cancelStreams = cancel
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No WriteTimeout: event streams stay open and suggestions may wait on the generator.
	}
	return s, nil
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/board", s.handleAPIBoard)
	mux.HandleFunc("GET /api/snapshot", s.handleAPISnapshot)
	mux.HandleFunc("GET /api/activity", s.handleAPIActivity)
	mux.HandleFunc("POST /api/lanes/{laneID}/tasks", s.handleAPIAddTask)
	mux.HandleFunc("POST /api/tasks/{taskID}/move", s.handleAPIMoveTask)
	mux.HandleFunc("POST /api/suggest", s.handleAPISuggest)
	mux.Handle("GET /events", s.stream)
	mux.Handle("GET /ws", s.sockets)

	return mux
}

// Start listens until Shutdown is called, then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("dashboard server starting", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown closes event streams and waits for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sockets.closeAll()
	s.cancelStreams()
	return s.server.Shutdown(ctx)
}

// PageData holds data for template rendering.
type PageData struct {
	Title      string
	Lanes      []board.Lane
	Activity   []events.TimelineEntry
	Suggesting bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "board.html", PageData{
		Title:      "Roadmap",
		Lanes:      s.svc.Lanes(),
		Activity:   s.svc.Activity(10),
		Suggesting: s.svc.Suggesting(),
	})
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04:05")
}

func toJSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return template.JS(b)
}
