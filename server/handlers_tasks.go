package server

import (
	"net/http"
)

type createTaskRequest struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

type deleteTaskRequest struct {
	ID string `json:"id"`
}

func (s *Server) ListTasksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		list, err := s.tasks.List(r.Context(), caller)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, list, http.StatusOK)
	}
}

func (s *Server) CreateTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		var req createTaskRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			respondError(w, r, err)
			return
		}

		task, err := s.tasks.Create(r.Context(), caller, req.Description, req.Date)
		if err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, task, http.StatusCreated)
	}
}

// DeleteTaskHandler answers 404 both for missing tasks and for tasks owned by someone else
func (s *Server) DeleteTaskHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerFrom(r)
		if err != nil {
			respondError(w, r, err)
			return
		}

		var req deleteTaskRequest
		if err := decodeJSON(w, r, &req, true); err != nil {
			respondError(w, r, err)
			return
		}
		if req.ID == "" {
			writeJSONError(w, "Missing task ID", http.StatusBadRequest)
			return
		}

		if err := s.tasks.Delete(r.Context(), caller, req.ID); err != nil {
			respondError(w, r, err)
			return
		}
		writeJSON(w, map[string]string{"message": "Task deleted"}, http.StatusOK)
	}
}
