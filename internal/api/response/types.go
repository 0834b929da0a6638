package response

import "github.com/mcoot/quizrace/internal/model"

// Join is the response to a successful join
type Join struct {
	PlayerID  string `json:"playerId"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
	HighScore int64  `json:"highScore"`
}

// JoinFromModel converts a model.Player to a Join response
func JoinFromModel(p *model.Player) Join {
	return Join{
		PlayerID:  string(p.ID),
		Username:  p.Username,
		Score:     p.Score,
		HighScore: p.HighScore,
	}
}

// LeaderboardEntry is one ranked player. The ID field is only populated
// in question snapshots.
type LeaderboardEntry struct {
	ID        string `json:"_id,omitempty"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
	HighScore int64  `json:"highScore"`
}

// LeaderboardFromModel converts ranked players to response entries
func LeaderboardFromModel(players []*model.Player, includeIDs bool) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{
			Username:  p.Username,
			Score:     p.Score,
			HighScore: p.HighScore,
		}
		if includeIDs {
			entries[i].ID = string(p.ID)
		}
	}
	return entries
}

// Question is the current-question snapshot returned to polling clients.
// WinnerID and WinnerName are empty strings until the question is won.
type Question struct {
	QuestionID  string             `json:"questionId"`
	Text        string             `json:"text"`
	WinnerID    string             `json:"winnerId"`
	WinnerName  string             `json:"winnerName"`
	RemainingMs int64              `json:"remainingMs"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

// QuestionFromSnapshot converts a model.Snapshot to a Question response.
// The stored answer is deliberately never included.
func QuestionFromSnapshot(s *model.Snapshot) Question {
	return Question{
		QuestionID:  string(s.Question.ID),
		Text:        s.Question.Text,
		WinnerID:    string(s.Question.WinnerID),
		WinnerName:  s.Question.WinnerName,
		RemainingMs: s.RemainingMs,
		Leaderboard: LeaderboardFromModel(s.Leaderboard, true),
	}
}

// Answer is the response to an answer submission
type Answer struct {
	Correct bool   `json:"correct"`
	Won     bool   `json:"won"`
	Message string `json:"message"`
}

// Leaderboard is the response for the standalone leaderboard endpoint
type Leaderboard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
