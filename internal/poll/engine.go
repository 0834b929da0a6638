package poll

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/quizrace/internal/client"
)

// Health classifies the connection state as seen by the polling engine
type Health int

const (
	HealthConnected Health = iota
	HealthReconnecting
	HealthOffline
)

// String returns the health state name
func (h Health) String() string {
	switch h {
	case HealthConnected:
		return "connected"
	case HealthReconnecting:
		return "reconnecting"
	case HealthOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// Config holds the adaptive polling cadence
type Config struct {
	ConnectedInterval    time.Duration
	ReconnectingInterval time.Duration
	OfflineInterval      time.Duration

	// ReconnectingAfter and OfflineAfter are consecutive-failure
	// thresholds.
	ReconnectingAfter int
	OfflineAfter      int
}

// DefaultConfig returns the standard polling cadence
func DefaultConfig() Config {
	return Config{
		ConnectedInterval:    1500 * time.Millisecond,
		ReconnectingInterval: 4000 * time.Millisecond,
		OfflineInterval:      10000 * time.Millisecond,
		ReconnectingAfter:    2,
		OfflineAfter:         5,
	}
}

// HealthTracker drives the health state and poll interval from a
// consecutive-failure counter. One success resets it outright; there is
// no gradual ramp-down.
type HealthTracker struct {
	cfg      Config
	failures int
}

// NewHealthTracker creates a tracker in the connected state
func NewHealthTracker(cfg Config) *HealthTracker {
	return &HealthTracker{cfg: cfg}
}

// RecordSuccess resets the consecutive-failure counter
func (t *HealthTracker) RecordSuccess() {
	t.failures = 0
}

// RecordFailure counts one more consecutive failure
func (t *HealthTracker) RecordFailure() {
	t.failures++
}

// Failures returns the current consecutive-failure count
func (t *HealthTracker) Failures() int {
	return t.failures
}

// Health returns the current connection-health classification
func (t *HealthTracker) Health() Health {
	switch {
	case t.failures >= t.cfg.OfflineAfter:
		return HealthOffline
	case t.failures >= t.cfg.ReconnectingAfter:
		return HealthReconnecting
	default:
		return HealthConnected
	}
}

// Interval returns the poll interval for the current health state
func (t *HealthTracker) Interval() time.Duration {
	switch t.Health() {
	case HealthOffline:
		return t.cfg.OfflineInterval
	case HealthReconnecting:
		return t.cfg.ReconnectingInterval
	default:
		return t.cfg.ConnectedInterval
	}
}

// Snapshotter fetches the current question snapshot
type Snapshotter interface {
	Question(ctx context.Context) (*client.Snapshot, error)
}

// Event is delivered to the consumer after every poll cycle
type Event struct {
	// Snapshot is nil when the poll failed
	Snapshot *client.Snapshot
	Err      error

	Health   Health
	Interval time.Duration

	// QuestionChanged is set when the snapshot's question differs from
	// the previously observed one; the consumer clears pending answer
	// input on it.
	QuestionChanged bool

	// KeepFeedback is set when the question changed but the new snapshot
	// already carries a winner, so the winner banner should not be
	// cleared away.
	KeepFeedback bool
}

// Engine is the per-client polling loop: fetch a snapshot, deliver an
// event, sleep the adaptive interval, repeat. It is a single
// cooperative loop; cancellation comes from the context.
type Engine struct {
	source  Snapshotter
	tracker *HealthTracker
	logger  *slog.Logger

	events         chan Event
	lastQuestionID string
}

// New creates a new polling engine
func New(source Snapshotter, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		source:  source,
		tracker: NewHealthTracker(cfg),
		logger:  logger,
		events:  make(chan Event),
	}
}

// Events returns the channel events are delivered on. It is closed when
// Run returns.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Run polls until the context is cancelled
func (e *Engine) Run(ctx context.Context) {
	defer close(e.events)

	for {
		e.pollOnce(ctx)

		timer := time.NewTimer(e.tracker.Interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (e *Engine) pollOnce(ctx context.Context) {
	snapshot, err := e.source.Question(ctx)
	if err != nil {
		e.tracker.RecordFailure()
		e.logger.Warn("poll failed",
			slog.Int("consecutive_failures", e.tracker.Failures()),
			slog.String("health", e.tracker.Health().String()),
			slog.String("error", err.Error()),
		)
		e.deliver(ctx, Event{
			Err:      err,
			Health:   e.tracker.Health(),
			Interval: e.tracker.Interval(),
		})
		return
	}

	e.tracker.RecordSuccess()

	changed := e.lastQuestionID != "" && snapshot.QuestionID != e.lastQuestionID
	e.lastQuestionID = snapshot.QuestionID

	e.deliver(ctx, Event{
		Snapshot:        snapshot,
		Health:          e.tracker.Health(),
		Interval:        e.tracker.Interval(),
		QuestionChanged: changed,
		KeepFeedback:    changed && snapshot.HasWinner(),
	})
}

func (e *Engine) deliver(ctx context.Context, event Event) {
	select {
	case e.events <- event:
	case <-ctx.Done():
	}
}
