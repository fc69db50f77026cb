package api

import "net/http"

type rankNotFoundResponse struct {
	Rank    *int   `json:"rank"`
	Message string `json:"message"`
}

// handleGetRank handles GET /api/rank/{name}. An unknown player is a 200 with
// a null rank.
func (s *Server) handleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingName)
		return
	}
	placement, found, err := s.deps.GetRank(r.Context(), name)
	if err != nil {
		s.writeFailure(r.Context(), w, op, err)
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, rankNotFoundResponse{Message: "Player not found"})
		return
	}
	writeJSON(w, http.StatusOK, placement)
}
