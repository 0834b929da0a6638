package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/quizrace/internal/api/handler"
	"github.com/mcoot/quizrace/internal/api/middleware"
	"github.com/mcoot/quizrace/internal/services/claim"
	"github.com/mcoot/quizrace/internal/services/leaderboard"
	"github.com/mcoot/quizrace/internal/services/lifecycle"
	"github.com/mcoot/quizrace/internal/services/player"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	PlayerService      *player.Service
	LifecycleService   *lifecycle.Service
	ClaimService       *claim.Service
	LeaderboardService *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService)
	questionHandler := handler.NewQuestionHandler(cfg.LifecycleService)
	answerHandler := handler.NewAnswerHandler(cfg.ClaimService)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)

	// Common middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.HandleFunc("/join", playerHandler.Join).Methods(http.MethodPost)
	r.HandleFunc("/question", questionHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/answer", answerHandler.Submit).Methods(http.MethodPost)
	r.HandleFunc("/leaderboard", leaderboardHandler.Get).Methods(http.MethodGet)

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
