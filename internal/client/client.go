package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrNetworkFailure is returned once a request's whole retry budget is
// exhausted. Callers treat it as transient: polling counts it as a
// failed cycle, submission surfaces a generic try-again message.
var ErrNetworkFailure = errors.New("network error, please try again")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// Config holds client connection and retry settings.
//
// Every request is wrapped in retry-with-backoff: up to the budget's
// retries, each attempt bounded by AttemptTimeout, waiting
// RetryBaseDelay × 2^attempt between attempts. Polls get a short budget
// to stay snappy; answers get a longer one since a single answer's
// delivery matters more than latency.
type Config struct {
	BaseURL        string
	AttemptTimeout time.Duration
	RetryBaseDelay time.Duration
	PollRetries    uint64
	AnswerRetries  uint64
}

// DefaultConfig returns the standard client settings
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8080",
		AttemptTimeout: 8 * time.Second,
		RetryBaseDelay: 300 * time.Millisecond,
		PollRetries:    1,
		AnswerRetries:  2,
	}
}

// Client is a resilient HTTP client for the quiz API
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a new API client
func New(cfg Config) *Client {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		// Per-attempt deadlines come from the context; no transport-level
		// timeout on top
		httpClient: &http.Client{},
	}
}

// JoinResult is the response to a join request
type JoinResult struct {
	PlayerID  string `json:"playerId"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
	HighScore int64  `json:"highScore"`
}

// LeaderboardEntry is one ranked player in a response
type LeaderboardEntry struct {
	ID        string `json:"_id,omitempty"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
	HighScore int64  `json:"highScore"`
}

// Snapshot is the current-question response
type Snapshot struct {
	QuestionID  string             `json:"questionId"`
	Text        string             `json:"text"`
	WinnerID    string             `json:"winnerId"`
	WinnerName  string             `json:"winnerName"`
	RemainingMs int64              `json:"remainingMs"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// HasWinner reports whether the snapshot carries a winner announcement
func (s *Snapshot) HasWinner() bool {
	return s.WinnerID != ""
}

// AnswerResult is the response to an answer submission
type AnswerResult struct {
	Correct bool   `json:"correct"`
	Won     bool   `json:"won"`
	Message string `json:"message"`
}

// LeaderboardResult is the response to a leaderboard request
type LeaderboardResult struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// HealthResult is the response to a health check
type HealthResult struct {
	Status string `json:"status"`
}

// Join registers or re-activates a player
func (c *Client) Join(ctx context.Context, username string) (*JoinResult, error) {
	var result JoinResult
	body := map[string]string{"username": username}
	err := c.doWithRetry(ctx, c.cfg.AnswerRetries, func(ctx context.Context) error {
		return c.do(ctx, http.MethodPost, "/join", body, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Question fetches the current question snapshot (poll retry budget)
func (c *Client) Question(ctx context.Context) (*Snapshot, error) {
	var result Snapshot
	err := c.doWithRetry(ctx, c.cfg.PollRetries, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/question", nil, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitAnswer submits an answer for the given question (answer retry budget)
func (c *Client) SubmitAnswer(ctx context.Context, playerID, questionID string, answer float64) (*AnswerResult, error) {
	var result AnswerResult
	body := map[string]any{
		"playerId":   playerID,
		"questionId": questionID,
		"answer":     answer,
	}
	err := c.doWithRetry(ctx, c.cfg.AnswerRetries, func(ctx context.Context) error {
		return c.do(ctx, http.MethodPost, "/answer", body, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Leaderboard fetches the top players (poll retry budget)
func (c *Client) Leaderboard(ctx context.Context) (*LeaderboardResult, error) {
	var result LeaderboardResult
	err := c.doWithRetry(ctx, c.cfg.PollRetries, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/leaderboard", nil, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Health checks server health
func (c *Client) Health(ctx context.Context) (*HealthResult, error) {
	var result HealthResult
	err := c.doWithRetry(ctx, c.cfg.PollRetries, func(ctx context.Context) error {
		return c.do(ctx, http.MethodGet, "/health", nil, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// doWithRetry runs fn under the retry-with-backoff policy. Validation
// and not-found responses are permanent and surface immediately;
// transport errors and server faults retry until the budget exhausts
// and then collapse into ErrNetworkFailure.
func (c *Client) doWithRetry(ctx context.Context, maxRetries uint64, fn func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryBaseDelay
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx)

	err := backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.AttemptTimeout)
		defer cancel()

		err := fn(attemptCtx)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
}

// do performs a single HTTP attempt
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	url := c.cfg.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Check for error responses
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(respBody))
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			message = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	// Parse successful response
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
