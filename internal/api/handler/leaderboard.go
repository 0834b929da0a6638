package handler

import (
	"net/http"

	"github.com/mcoot/quizrace/internal/api/response"
	"github.com/mcoot/quizrace/internal/services/leaderboard"
)

// LeaderboardHandler handles the standalone leaderboard endpoint
type LeaderboardHandler struct {
	leaderboardService *leaderboard.Service
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *leaderboard.Service) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// Get handles GET /leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	players, err := h.leaderboardService.TopN(r.Context(), leaderboard.DefaultSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{
		Leaderboard: response.LeaderboardFromModel(players, false),
	})
}
