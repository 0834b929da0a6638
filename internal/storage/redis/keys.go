package redis

import (
	"fmt"

	"github.com/mcoot/quizrace/internal/model"
)

// Key prefix for all quiz-related data
const keyPrefix = "quizrace"

// playerKey returns the Redis key for a Player hash
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// leaderboardKey returns the Redis key for the score-ordered leaderboard ZSET
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

// questionKey returns the Redis key for a Question
func questionKey(id model.QuestionID) string {
	return fmt.Sprintf("%s:question:%s", keyPrefix, id)
}

// activeQuestionKey returns the Redis key of the pointer to the single
// active question
func activeQuestionKey() string {
	return fmt.Sprintf("%s:question:active", keyPrefix)
}
