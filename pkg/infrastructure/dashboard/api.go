package dashboard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/roadmapper/pkg/domain/board"
)

const maxBodyBytes = 64 << 10

type addTaskRequest struct {
	Content string `json:"content"`
}

type moveTaskRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type suggestRequest struct {
	CurrentTask string `json:"currentTask"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type boardResponse struct {
	Lanes      []board.Lane `json:"lanes"`
	Suggesting bool         `json:"suggesting"`
}

func (s *Server) handleAPIBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, boardResponse{
		Lanes:      s.svc.Lanes(),
		Suggesting: s.svc.Suggesting(),
	})
}

func (s *Server) handleAPISnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot(r.URL.Query().Get("currentTask")))
}

func (s *Server) handleAPIActivity(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		n = parsed
	}
	writeJSON(w, http.StatusOK, s.svc.Activity(n))
}

func (s *Server) handleAPIAddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := s.svc.AddTask(r.PathValue("laneID"), req.Content)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, task)
	case errors.Is(err, board.ErrLaneNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, board.ErrEmptyContent):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("add task failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleAPIMoveTask(w http.ResponseWriter, r *http.Request) {
	var req moveTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.svc.MoveTask(r.PathValue("taskID"), req.From, req.To)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, boardResponse{Lanes: s.svc.Lanes(), Suggesting: s.svc.Suggesting()})
	case errors.Is(err, board.ErrLaneNotFound), errors.Is(err, board.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("move task failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleAPISuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	res, err := s.svc.Suggest(r.Context(), req.CurrentTask)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, res)
	case errors.Is(err, board.ErrSuggestionInFlight):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, board.ErrLaneNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
