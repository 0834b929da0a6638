package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/quizrace/internal/factory"
	"github.com/mcoot/quizrace/internal/testutil"
)

type APISuite struct {
	suite.Suite
	app    *factory.TestApp
	server *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.app = factory.NewTestApp()
	// Question IDs for the questions created during the test; the
	// generator falls back to "1 + 1" with no queued operator rolls
	s.app.MockRandom.QueueString("QUESTION1", "QUESTION2", "QUESTION3")

	router := NewRouter(RouterConfig{
		Logger:             testutil.NopLogger(),
		PlayerService:      s.app.PlayerService,
		LifecycleService:   s.app.LifecycleService,
		ClaimService:       s.app.ClaimService,
		LeaderboardService: s.app.LeaderboardService,
	})
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
}

func (s *APISuite) post(path string, body any) (*http.Response, map[string]any) {
	data, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(data))
	s.Require().NoError(err)
	return resp, s.decode(resp)
}

func (s *APISuite) postRaw(path string, body string) (*http.Response, map[string]any) {
	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader([]byte(body)))
	s.Require().NoError(err)
	return resp, s.decode(resp)
}

func (s *APISuite) get(path string) (*http.Response, map[string]any) {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp, s.decode(resp)
}

func (s *APISuite) decode(resp *http.Response) map[string]any {
	defer func() { _ = resp.Body.Close() }()
	var body map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (s *APISuite) join(username string) string {
	resp, body := s.post("/join", map[string]string{"username": username})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return body["playerId"].(string)
}

// Join endpoint

func (s *APISuite) TestJoin() {
	resp, body := s.post("/join", map[string]string{"username": "alice"})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(body["playerId"])
	s.Equal("alice", body["username"])
	s.Equal(float64(0), body["score"])
	s.Equal(float64(0), body["highScore"])
}

func (s *APISuite) TestJoinEmptyUsername() {
	resp, body := s.post("/join", map[string]string{"username": "  "})

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Username is required", body["error"])
}

func (s *APISuite) TestJoinInvalidBody() {
	resp, body := s.postRaw("/join", "{not json")

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.NotEmpty(body["error"])
}

func (s *APISuite) TestRejoinKeepsIdentity() {
	first := s.join("alice")
	second := s.join("alice")
	s.Equal(first, second)
}

// Question endpoint

func (s *APISuite) TestQuestionCreatesOnFirstRead() {
	resp, body := s.get("/question")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("QUESTION1", body["questionId"])
	s.Equal("1 + 1", body["text"])
	s.Equal("", body["winnerId"])
	s.Equal("", body["winnerName"])
	s.Equal(float64(60000), body["remainingMs"])

	// The stored answer must never appear on the wire
	s.NotContains(body, "answer")
}

func (s *APISuite) TestQuestionStableAcrossReads() {
	_, first := s.get("/question")
	_, second := s.get("/question")
	s.Equal(first["questionId"], second["questionId"])
}

// Answer endpoint

func (s *APISuite) TestWrongAnswer() {
	playerID := s.join("alice")
	_, question := s.get("/question")

	resp, body := s.post("/answer", map[string]any{
		"playerId":   playerID,
		"questionId": question["questionId"],
		"answer":     3,
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(false, body["correct"])
	s.Equal(false, body["won"])
	s.Equal("Wrong answer, try again!", body["message"])
}

func (s *APISuite) TestCorrectAnswerWins() {
	playerID := s.join("alice")
	_, question := s.get("/question")

	resp, body := s.post("/answer", map[string]any{
		"playerId":   playerID,
		"questionId": question["questionId"],
		"answer":     2,
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(true, body["correct"])
	s.Equal(true, body["won"])
	s.Equal("Correct! You win this round!", body["message"])

	// The winner announcement is visible to pollers within the grace
	// window, and the snapshot leaderboard carries player ids
	_, snapshot := s.get("/question")
	s.Equal(question["questionId"], snapshot["questionId"])
	s.Equal(playerID, snapshot["winnerId"])
	s.Equal("alice", snapshot["winnerName"])

	leaders := snapshot["leaderboard"].([]any)
	s.Require().Len(leaders, 1)
	entry := leaders[0].(map[string]any)
	s.Equal(playerID, entry["_id"])
	s.Equal("alice", entry["username"])
	s.Equal(float64(1), entry["score"])
	s.Equal(float64(1), entry["highScore"])
}

func (s *APISuite) TestSecondCorrectAnswerTooLate() {
	alice := s.join("alice")
	bob := s.join("bob")
	_, question := s.get("/question")

	_, body := s.post("/answer", map[string]any{
		"playerId":   alice,
		"questionId": question["questionId"],
		"answer":     2,
	})
	s.Equal(true, body["won"])

	// The runner-up's correct answer is acknowledged as correct but does
	// not win
	resp, body := s.post("/answer", map[string]any{
		"playerId":   bob,
		"questionId": question["questionId"],
		"answer":     2,
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(true, body["correct"])
	s.Equal(false, body["won"])
	s.Equal("Correct, but someone beat you to it!", body["message"])
}

func (s *APISuite) TestWrongAnswerAfterWin() {
	alice := s.join("alice")
	bob := s.join("bob")
	_, question := s.get("/question")

	_, body := s.post("/answer", map[string]any{
		"playerId":   alice,
		"questionId": question["questionId"],
		"answer":     2,
	})
	s.Equal(true, body["won"])

	resp, body := s.post("/answer", map[string]any{
		"playerId":   bob,
		"questionId": question["questionId"],
		"answer":     3,
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(false, body["correct"])
	s.Equal(false, body["won"])
	s.Equal("This question has already been won", body["message"])
}

func (s *APISuite) TestAnswerAcceptsNumericString() {
	playerID := s.join("alice")
	_, question := s.get("/question")

	resp, body := s.post("/answer", map[string]any{
		"playerId":   playerID,
		"questionId": question["questionId"],
		"answer":     "2",
	})

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(true, body["correct"])
}

func (s *APISuite) TestAnswerRejectsNonNumeric() {
	playerID := s.join("alice")
	_, question := s.get("/question")

	resp, body := s.post("/answer", map[string]any{
		"playerId":   playerID,
		"questionId": question["questionId"],
		"answer":     "banana",
	})

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("answer must be a number", body["error"])
}

func (s *APISuite) TestAnswerValidation() {
	resp, body := s.post("/answer", map[string]any{
		"questionId": "q1",
		"answer":     2,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("playerId is required", body["error"])

	resp, body = s.post("/answer", map[string]any{
		"playerId": "p1",
		"answer":   2,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("questionId is required", body["error"])

	resp, body = s.post("/answer", map[string]any{
		"playerId":   "p1",
		"questionId": "q1",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("answer must be a number", body["error"])
}

func (s *APISuite) TestAnswerUnknownQuestion() {
	playerID := s.join("alice")

	resp, body := s.post("/answer", map[string]any{
		"playerId":   playerID,
		"questionId": "nonexistent",
		"answer":     2,
	})

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("Question not found", body["error"])
}

func (s *APISuite) TestAnswerUnknownPlayer() {
	_, question := s.get("/question")

	resp, body := s.post("/answer", map[string]any{
		"playerId":   "nonexistent",
		"questionId": question["questionId"],
		"answer":     2,
	})

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("Player not found", body["error"])
}

// Leaderboard endpoint

func (s *APISuite) TestLeaderboard() {
	playerID := s.join("alice")
	s.join("bob")
	_, question := s.get("/question")

	_, body := s.post("/answer", map[string]any{
		"playerId":   playerID,
		"questionId": question["questionId"],
		"answer":     2,
	})
	s.Equal(true, body["won"])

	resp, board := s.get("/leaderboard")
	s.Equal(http.StatusOK, resp.StatusCode)

	leaders := board["leaderboard"].([]any)
	s.Require().Len(leaders, 2)
	top := leaders[0].(map[string]any)
	s.Equal("alice", top["username"])
	s.Equal(float64(1), top["score"])

	// Standalone leaderboard entries omit player ids
	s.NotContains(top, "_id")
}

// Health endpoint

func (s *APISuite) TestHealth() {
	resp, body := s.get("/health")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("ok", body["status"])
}
