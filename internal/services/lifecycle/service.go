package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mcoot/quizrace/internal/dependencies/clock"
	"github.com/mcoot/quizrace/internal/dependencies/random"
	"github.com/mcoot/quizrace/internal/model"
	"github.com/mcoot/quizrace/internal/services/generator"
	"github.com/mcoot/quizrace/internal/storage"
)

const (
	questionIDLength   = 12
	questionIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Bound for the background rotation after the grace delay; normal
	// request paths are bounded by the caller's context instead.
	rotationTimeout = 10 * time.Second
)

// Config holds the quiz lifecycle rules
type Config struct {
	// QuestionTimeout is the active window after which an unwon question
	// is retired.
	QuestionTimeout time.Duration

	// WinGraceDelay is how long a won question stays visible before it is
	// retired, so pollers can observe the winner announcement.
	WinGraceDelay time.Duration

	// LeaderboardSize is the number of players included in snapshots.
	LeaderboardSize int
}

// DefaultConfig returns the standard quiz rules
func DefaultConfig() Config {
	return Config{
		QuestionTimeout: 60 * time.Second,
		WinGraceDelay:   3 * time.Second,
		LeaderboardSize: 10,
	}
}

// Service owns the single authoritative current question.
//
// There is no background scheduler: lifecycle transitions happen lazily,
// on whatever request happens to inspect the state. A quiz nobody polls
// never advances, which is intentional.
type Service struct {
	storage   storage.Storage
	generator *generator.Service
	clock     clock.Clock
	random    random.Random
	cfg       Config
	logger    *slog.Logger
}

// New creates a new lifecycle service
func New(
	storage storage.Storage,
	gen *generator.Service,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		generator: gen,
		clock:     clk,
		random:    rnd,
		cfg:       cfg,
		logger:    logger,
	}
}

// Config returns the lifecycle rules in effect
func (s *Service) Config() Config {
	return s.cfg
}

// Snapshot returns the current question, its remaining time and the
// leaderboard. As a side effect it performs any lifecycle transition the
// current state calls for: creating the first question, retiring a timed
// out one, or rotating a won question whose grace window has lapsed.
func (s *Service) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	question, err := s.ensureCurrentQuestion(ctx)
	if err != nil {
		return nil, err
	}

	leaders, err := s.storage.TopPlayers(ctx, s.cfg.LeaderboardSize)
	if err != nil {
		return nil, err
	}

	remaining := s.cfg.QuestionTimeout - question.Age(s.clock.Now())
	if remaining < 0 {
		remaining = 0
	}

	return &model.Snapshot{
		Question:    question,
		RemainingMs: remaining.Milliseconds(),
		Leaderboard: leaders,
	}, nil
}

// ScheduleRotation arms a fire-and-forget timer that retires the won
// question after the grace delay and creates its successor. If the
// process dies before the timer fires, the read-path check in
// ensureCurrentQuestion performs the same rotation on the next poll.
func (s *Service) ScheduleRotation(id model.QuestionID) {
	time.AfterFunc(s.cfg.WinGraceDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), rotationTimeout)
		defer cancel()

		if _, err := s.rotate(ctx, id); err != nil {
			// Not retried; the lazy read-path rotation covers it
			s.logger.Error("post-win rotation failed",
				slog.String("question_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
	})
}

// ensureCurrentQuestion applies the lazy state machine and returns the
// question that is active after any transition
func (s *Service) ensureCurrentQuestion(ctx context.Context) (*model.Question, error) {
	question, err := s.storage.GetActiveQuestion(ctx)
	if errors.Is(err, model.ErrNoActiveQuestion) {
		return s.createQuestion(ctx)
	}
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if !question.HasWinner() && question.Age(now) >= s.cfg.QuestionTimeout {
		s.logger.Info("question timed out",
			slog.String("question_id", string(question.ID)),
		)
		return s.rotate(ctx, question.ID)
	}

	if question.HasWinner() && now.Sub(question.WonAt) >= s.cfg.WinGraceDelay {
		// The scheduled post-win rotation never fired (for instance the
		// process hosting it restarted); rotate on read instead
		return s.rotate(ctx, question.ID)
	}

	return question, nil
}

// rotate retires the question and creates its successor. Exactly one of
// any concurrent rotators wins the retire; the others fall through to
// reading or racing for the successor.
func (s *Service) rotate(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	retired, err := s.storage.RetireQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if retired {
		s.logger.Info("question retired",
			slog.String("question_id", string(id)),
		)
	}
	return s.createQuestion(ctx)
}

// createQuestion generates a new question and races to make it the
// active one. Losing the race means another request already created the
// successor, so that one is returned instead.
func (s *Service) createQuestion(ctx context.Context) (*model.Question, error) {
	gen := s.generator.Generate()
	question := &model.Question{
		ID:        model.QuestionID(s.random.String(questionIDLength, questionIDAlphabet)),
		Text:      gen.Text,
		Answer:    gen.Answer,
		IsActive:  true,
		CreatedAt: s.clock.Now(),
	}

	activated, err := s.storage.ActivateQuestion(ctx, question)
	if err != nil {
		return nil, err
	}

	if !activated {
		current, err := s.storage.GetActiveQuestion(ctx)
		if errors.Is(err, model.ErrNoActiveQuestion) {
			// The racing creator's question was already retired again;
			// one more attempt is enough in practice
			return s.createQuestion(ctx)
		}
		return current, err
	}

	s.logger.Info("question created",
		slog.String("question_id", string(question.ID)),
		slog.String("text", question.Text),
	)

	return question, nil
}
