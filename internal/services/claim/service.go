package claim

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/quizrace/internal/dependencies/clock"
	"github.com/mcoot/quizrace/internal/model"
	"github.com/mcoot/quizrace/internal/storage"
)

// Outcome identifies how a submission was resolved. Every submission
// yields exactly one outcome; "too late" is informational, not a failure.
type Outcome string

const (
	OutcomeQuestionNotFound Outcome = "question_not_found"
	OutcomeInactive         Outcome = "inactive"
	OutcomeAlreadyWon       Outcome = "already_won"
	OutcomeWrongAnswer      Outcome = "wrong_answer"
	OutcomeTooLate          Outcome = "too_late"
	OutcomeWin              Outcome = "win"
)

// Result is the resolution of a single answer submission
type Result struct {
	Outcome Outcome

	// Player holds the updated player after a win, nil otherwise
	Player *model.Player
}

// Correct reports whether the submitted value matched the answer
func (r Result) Correct() bool {
	return r.Outcome == OutcomeWin || r.Outcome == OutcomeTooLate
}

// Won reports whether this submission was recorded as the winner
func (r Result) Won() bool {
	return r.Outcome == OutcomeWin
}

// Message returns the human-readable text for the outcome
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeQuestionNotFound:
		return "Question not found"
	case OutcomeInactive:
		return "This question is no longer active"
	case OutcomeAlreadyWon:
		return "This question has already been won"
	case OutcomeWrongAnswer:
		return "Wrong answer, try again!"
	case OutcomeTooLate:
		return "Correct, but someone beat you to it!"
	case OutcomeWin:
		return "Correct! You win this round!"
	default:
		return ""
	}
}

// Rotator schedules the grace-delayed rotation after a win
type Rotator interface {
	ScheduleRotation(id model.QuestionID)
}

// Service implements the winner claim protocol: deciding, atomically,
// whether a submission is the first correct answer for a question.
type Service struct {
	storage storage.Storage
	rotator Rotator
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new claim service
func New(storage storage.Storage, rotator Rotator, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		rotator: rotator,
		clock:   clk,
		logger:  logger,
	}
}

// SubmitAnswer resolves one answer submission.
//
// Cheap read-side rejections come first. A matching value then attempts
// the single atomic conditional update against storage: set the winner
// only if the question is still active and unwon. That conditional write
// is the sole defense against two submissions both passing the read
// checks; at most one caller per question ever observes OutcomeWin.
// A wrong answer mutates nothing, no matter how often it is repeated.
func (s *Service) SubmitAnswer(ctx context.Context, playerID model.PlayerID, questionID model.QuestionID, value float64) (Result, error) {
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return Result{}, err
	}

	question, err := s.storage.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, model.ErrQuestionNotFound) {
			return Result{Outcome: OutcomeQuestionNotFound}, nil
		}
		return Result{}, err
	}

	if !question.IsActive {
		return Result{Outcome: OutcomeInactive}, nil
	}
	if question.HasWinner() {
		// A correct value still gets acknowledged as correct even though
		// the round is decided; only a wrong value reads as already-won
		if value == float64(question.Answer) {
			return Result{Outcome: OutcomeTooLate}, nil
		}
		return Result{Outcome: OutcomeAlreadyWon}, nil
	}

	// Exact numeric equality, no tolerance
	if value != float64(question.Answer) {
		return Result{Outcome: OutcomeWrongAnswer}, nil
	}

	claimed, err := s.storage.ClaimWin(ctx, questionID, player.ID, player.Username, s.clock.Now())
	if err != nil {
		return Result{}, err
	}
	if !claimed {
		// The answer was correct; a concurrent submission just got there
		// first. Distinct from a wrong answer.
		return Result{Outcome: OutcomeTooLate}, nil
	}

	updated, err := s.storage.AwardWin(ctx, player.ID)
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("question won",
		slog.String("question_id", string(questionID)),
		slog.String("player_id", string(player.ID)),
		slog.String("username", player.Username),
		slog.Int64("score", updated.Score),
	)

	s.rotator.ScheduleRotation(questionID)

	return Result{Outcome: OutcomeWin, Player: updated}, nil
}
