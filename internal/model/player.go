package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// MaxUsernameLength is the maximum length of a username in runes.
// Longer names are truncated on join, not rejected.
const MaxUsernameLength = 20

// Player represents a quiz participant
type Player struct {
	ID       PlayerID `json:"id"`
	Username string   `json:"username"`
	// Score is the current-session counter. It resets to 0 when the
	// player rejoins with the same username.
	Score int64 `json:"score"`
	// HighScore is monotonically non-decreasing across sessions and is
	// never reset by a rejoin.
	HighScore int64     `json:"high_score"`
	CreatedAt time.Time `json:"created_at"`
}
