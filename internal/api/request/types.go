package request

import (
	"encoding/json"
	"strconv"
	"strings"
)

// JoinRequest is the request body for joining the quiz
type JoinRequest struct {
	Username string `json:"username"`
}

// Number is a JSON value that may arrive as a number or a numeric
// string. Anything else leaves Valid false.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		n.Value = v
		n.Valid = true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil {
			n.Value = f
			n.Valid = true
		}
	}
	return nil
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	PlayerID   string `json:"playerId"`
	QuestionID string `json:"questionId"`
	Answer     Number `json:"answer"`
}
