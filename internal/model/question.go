package model

import "time"

// QuestionID uniquely identifies a question
type QuestionID string

// Question represents a single quiz question and its lifecycle state.
//
// A question moves through four states: before any question exists
// (pending creation), active with no winner, active with a winner set
// (momentarily, during the grace window), and retired. IsActive flips
// true -> false exactly once, either because the question was won or
// because it timed out; the record is immutable afterwards.
type Question struct {
	ID     QuestionID `json:"id"`
	Text   string     `json:"text"`
	Answer int64      `json:"answer"`
	// IsActive is written only by the lifecycle service.
	IsActive bool `json:"is_active"`
	// WinnerID and WinnerName are written exactly once, by the winner
	// claim's atomic conditional update. Empty until won.
	WinnerID   PlayerID `json:"winner_id"`
	WinnerName string   `json:"winner_name"`
	// CreatedAt fixes the start of the question's active window.
	CreatedAt time.Time `json:"created_at"`
	// WonAt is set at the same moment the winner fields are set. The
	// lifecycle read path uses it to rotate questions whose grace timer
	// never fired.
	WonAt time.Time `json:"won_at"`
}

// HasWinner reports whether a winner has been recorded
func (q *Question) HasWinner() bool {
	return q.WinnerID != ""
}

// Age returns how long the question has been active as of now
func (q *Question) Age(now time.Time) time.Duration {
	return now.Sub(q.CreatedAt)
}

// Snapshot is the read-only view returned to polling clients
type Snapshot struct {
	Question    *Question
	RemainingMs int64
	Leaderboard []*Player
}
