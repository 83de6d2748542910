package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/fmoraes/quadro/internal/task"
)

// logged wraps a handler with a per-request id and access log line.
func (s *Server) logged(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		s.logger.Printf("[%s] %s %s", reqID, r.Method, r.URL.Path)
		next(w, r)
	}
}

// decode reads a JSON request body into v. An empty body leaves v at its
// zero value, so tools with all-optional parameters accept bare POSTs.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return task.Validationf("malformed request body: %v", err)
	}
	return nil
}

// respond writes a JSON success response.
func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("failed to encode response: %v", err)
	}
}

// respondError maps the board error taxonomy onto HTTP status codes.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, task.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, task.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, task.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, task.ErrStoreIO):
		status = http.StatusBadGateway
	case errors.Is(err, task.ErrConsistency):
		status = http.StatusInternalServerError
	}
	s.respond(w, status, map[string]string{"error": err.Error()})
}

// requirePost rejects non-POST methods on tool endpoints.
func (s *Server) requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		s.respond(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	return true
}

type queryTasksRequest struct {
	Filters    *task.SearchFilters `json:"filters"`
	Pagination *task.Pagination    `json:"pagination"`
}

func (s *Server) handleQueryTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req queryTasksRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	page, err := s.board.Query(r.Context(), req.Filters, req.Pagination)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, page)
}

type getTaskRequest struct {
	Project string `json:"project"`
	TaskID  string `json:"task_id"`
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req getTaskRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	t, err := s.board.GetOne(r.Context(), req.Project, req.TaskID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, t)
}

type addTaskResponse struct {
	Project string `json:"project"`
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var t task.Task
	if err := decode(r, &t); err != nil {
		s.respondError(w, err)
		return
	}

	key, err := s.board.AddOne(r.Context(), t)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.notifyTaskUpdate(TaskUpdateData{Project: key.Project, TaskID: key.TaskID, Action: "created"})
	s.respond(w, http.StatusCreated, addTaskResponse{
		Project: key.Project,
		TaskID:  key.TaskID,
		Message: "task added",
	})
}

type addTasksBatchRequest struct {
	Tasks []task.Task `json:"tasks"`
}

func (s *Server) handleAddTasksBatch(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req addTasksBatchRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.board.BatchAdd(r.Context(), req.Tasks)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if result.SuccessCount > 0 {
		s.notifyTaskUpdate(TaskUpdateData{Action: "batch_created", Count: result.SuccessCount})
	}
	s.respond(w, http.StatusOK, result)
}

type updateTaskRequest struct {
	Project string     `json:"project"`
	TaskID  string     `json:"task_id"`
	Fields  task.Patch `json:"fields"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req updateTaskRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	t, err := s.board.UpdateOne(r.Context(), req.Project, req.TaskID, req.Fields)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.notifyTaskUpdate(TaskUpdateData{Project: req.Project, TaskID: req.TaskID, Action: "updated"})
	s.respond(w, http.StatusOK, t)
}

type updateTasksBatchRequest struct {
	Updates []task.Update `json:"updates"`
}

func (s *Server) handleUpdateTasksBatch(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req updateTasksBatchRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.board.BatchUpdate(r.Context(), req.Updates)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if result.SuccessCount > 0 {
		s.notifyTaskUpdate(TaskUpdateData{Action: "batch_updated", Count: result.SuccessCount})
	}
	s.respond(w, http.StatusOK, result)
}

type sprintStatsRequest struct {
	Project string `json:"project"`
}

func (s *Server) handleSprintStats(w http.ResponseWriter, r *http.Request) {
	if !s.requirePost(w, r) {
		return
	}
	var req sprintStatsRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}

	stats, err := s.board.SprintStats(r.Context(), req.Project)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, stats)
}

func (s *Server) handleGetValidConfigs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		s.respond(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	s.respond(w, http.StatusOK, s.board.ValidConfigs())
}
