package player

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/quizrace/internal/dependencies/clock"
	"github.com/mcoot/quizrace/internal/model"
	"github.com/mcoot/quizrace/internal/storage"
)

// Service manages player identity and session joins
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new player service
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clk,
		logger:  logger,
	}
}

// Join creates or re-activates the player for the given username.
//
// The username is trimmed and truncated to the maximum length. A returning
// player's session score resets to 0 while their high score is preserved;
// a new player starts with both at 0.
func (s *Service) Join(ctx context.Context, username string) (*model.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrUsernameRequired
	}
	if runes := []rune(username); len(runes) > model.MaxUsernameLength {
		username = string(runes[:model.MaxUsernameLength])
	}

	existing, err := s.storage.GetPlayerByUsername(ctx, username)
	if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Score = 0
		if err := s.storage.SavePlayer(ctx, existing); err != nil {
			return nil, err
		}

		s.logger.Info("player rejoined",
			slog.String("player_id", string(existing.ID)),
			slog.String("username", existing.Username),
			slog.Int64("high_score", existing.HighScore),
		)
		return existing, nil
	}

	player := &model.Player{
		ID:        model.PlayerID(uuid.NewString()),
		Username:  username,
		Score:     0,
		HighScore: 0,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player joined",
		slog.String("player_id", string(player.ID)),
		slog.String("username", player.Username),
	)

	return player, nil
}

// Get retrieves a player by ID
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}
