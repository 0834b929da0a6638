package leaderboard

import (
	"context"

	"github.com/mcoot/quizrace/internal/model"
	"github.com/mcoot/quizrace/internal/storage"
)

// DefaultSize is the number of players returned when no size is given
const DefaultSize = 10

// Service is a read-only ranked projection over player scores
type Service struct {
	storage storage.Storage
}

// New creates a new leaderboard service
func New(storage storage.Storage) *Service {
	return &Service{
		storage: storage,
	}
}

// TopN returns up to n players by score descending. Ordering among equal
// scores follows the storage layer and is otherwise unspecified.
func (s *Service) TopN(ctx context.Context, n int) ([]*model.Player, error) {
	if n <= 0 {
		n = DefaultSize
	}
	return s.storage.TopPlayers(ctx, n)
}
