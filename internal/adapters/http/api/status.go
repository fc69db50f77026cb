package api

import (
	"net/http"

	"github.com/okian/typerank/internal/domain/score"
)

// handleStatus handles GET /api/status: liveness plus the configured capabilities.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":           "ok",
		"message":          "API is working",
		"timestamp":        s.now().UTC().Format(score.DateLayout),
		"hasAdminPassword": s.authn.HasPassword(),
	}
	for k, v := range s.deps.Stats(r.Context()) {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}
