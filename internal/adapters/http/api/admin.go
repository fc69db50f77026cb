package api

import (
	"net/http"

	"github.com/okian/typerank/internal/domain/score"
	"github.com/okian/typerank/pkg/metrics"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type addScoreResponse struct {
	Message string       `json:"message"`
	Score   score.Record `json:"score"`
}

// handleLogin handles POST /api/admin/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_login"
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		metrics.RecordLoginAttempt(metrics.OutcomeError)
		s.writeFailure(r.Context(), w, op, err)
		return
	}
	token, err := s.authn.Login(r.Context(), req.Password)
	if err != nil {
		metrics.RecordLoginAttempt(metrics.OutcomeDenied)
		s.writeFailure(r.Context(), w, op, err)
		return
	}
	metrics.RecordLoginAttempt(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// handleAddScore handles POST /api/admin/add-score.
func (s *Server) handleAddScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_add_score"
	var in score.Input
	if err := decodeBody(w, r, &in); err != nil {
		s.writeFailure(r.Context(), w, op, err)
		return
	}
	rec, err := s.deps.AddScore(r.Context(), isAdmin(r.Context()), in)
	if err != nil {
		s.writeFailure(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, addScoreResponse{Message: "Score added successfully", Score: rec})
}

// handleDeleteScore handles DELETE /api/admin/score/{id}.
func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_delete_score"
	id, err := pathParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := s.deps.DeleteScore(r.Context(), isAdmin(r.Context()), id); err != nil {
		s.writeFailure(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Score deleted successfully"})
}
