package storage

import (
	"context"
	"time"

	"github.com/mcoot/quizrace/internal/model"
)

// Storage defines the interface for data persistence.
//
// ActivateQuestion, ClaimWin and RetireQuestion are the three operations
// that must be atomic against concurrent callers; implementations use the
// backing store's native conditional-update facility rather than
// application-level locks held across a round trip.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)

	// AwardWin atomically increments the player's score by one and raises
	// their high score if the new score exceeds it. Returns the updated player.
	AwardWin(ctx context.Context, id model.PlayerID) (*model.Player, error)

	// TopPlayers returns up to n players ordered by score descending.
	// Ties are broken by the store's own ordering; no further tie-break
	// is imposed.
	TopPlayers(ctx context.Context, n int) ([]*model.Player, error)

	// Question operations
	GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error)
	GetActiveQuestion(ctx context.Context) (*model.Question, error)

	// ActivateQuestion stores the question and marks it as the single
	// active question, but only if no question is currently active.
	// Returns false if another question won the activation race.
	ActivateQuestion(ctx context.Context, question *model.Question) (bool, error)

	// ClaimWin records the winner on the question, but only if the
	// question is still active and has no winner. Returns true exactly
	// once per question across any number of concurrent callers.
	ClaimWin(ctx context.Context, id model.QuestionID, winnerID model.PlayerID, winnerName string, wonAt time.Time) (bool, error)

	// RetireQuestion flips the question from active to retired. Returns
	// false if the question was already retired (or unknown), so only
	// one caller proceeds to create the successor.
	RetireQuestion(ctx context.Context, id model.QuestionID) (bool, error)
}
