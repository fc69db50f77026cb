package api

import (
	"net/http"

	"github.com/okian/typerank/internal/domain/score"
)

type leaderboardResponse struct {
	Scores []score.Record `json:"scores"`
}

// handleGetLeaderboard handles GET /api/leaderboard.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	scores, err := s.deps.GetLeaderboard(r.Context())
	if err != nil {
		s.writeFailure(r.Context(), w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Scores: scores})
}
