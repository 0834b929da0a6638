package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/quizrace/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RetiredQuestionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:        "player-1",
		Username:  "alice",
		Score:     3,
		HighScore: 5,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("alice", retrieved.Username)
	s.Equal(int64(3), retrieved.Score)
	s.Equal(int64(5), retrieved.HighScore)
	s.True(player.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByUsername() {
	player := &model.Player{ID: "player-1", Username: "alice", CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.ID)

	_, err = s.storage.GetPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestSavePlayerOverwrites() {
	player := &model.Player{ID: "player-1", Username: "alice", Score: 4, HighScore: 4, CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	player.Score = 0
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(0), retrieved.Score)
	s.Equal(int64(4), retrieved.HighScore)
}

func (s *StorageSuite) TestAwardWin() {
	player := &model.Player{ID: "player-1", Username: "alice", CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	updated, err := s.storage.AwardWin(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(1), updated.Score)
	s.Equal(int64(1), updated.HighScore)

	updated, err = s.storage.AwardWin(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(2), updated.Score)
	s.Equal(int64(2), updated.HighScore)
}

func (s *StorageSuite) TestAwardWinPreservesHigherHighScore() {
	player := &model.Player{ID: "player-1", Username: "alice", Score: 0, HighScore: 10, CreatedAt: time.Now()}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	updated, err := s.storage.AwardWin(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(1), updated.Score)
	s.Equal(int64(10), updated.HighScore)
}

func (s *StorageSuite) TestAwardWinUnknownPlayer() {
	_, err := s.storage.AwardWin(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestTopPlayers() {
	for _, p := range []*model.Player{
		{ID: "p1", Username: "alice", Score: 3, CreatedAt: time.Now()},
		{ID: "p2", Username: "bob", Score: 7, CreatedAt: time.Now()},
		{ID: "p3", Username: "carol", Score: 5, CreatedAt: time.Now()},
	} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
	}

	top, err := s.storage.TopPlayers(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.PlayerID("p2"), top[0].ID)
	s.Equal(model.PlayerID("p3"), top[1].ID)
}

func (s *StorageSuite) TestTopPlayersTracksAwards() {
	for _, p := range []*model.Player{
		{ID: "p1", Username: "alice", CreatedAt: time.Now()},
		{ID: "p2", Username: "bob", CreatedAt: time.Now()},
	} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
	}

	_, err := s.storage.AwardWin(s.ctx, "p2")
	s.Require().NoError(err)

	top, err := s.storage.TopPlayers(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 2)
	s.Equal(model.PlayerID("p2"), top[0].ID)
	s.Equal(int64(1), top[0].Score)
}

func (s *StorageSuite) TestTopPlayersEmpty() {
	top, err := s.storage.TopPlayers(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

// Question tests

func (s *StorageSuite) questionFixture(id model.QuestionID) *model.Question {
	return &model.Question{
		ID:        id,
		Text:      "7 × 8",
		Answer:    56,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *StorageSuite) TestActivateAndGetQuestion() {
	activated, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)
	s.True(activated)

	question, err := s.storage.GetQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.Equal("7 × 8", question.Text)
	s.Equal(int64(56), question.Answer)
	s.True(question.IsActive)
	s.False(question.HasWinner())

	active, err := s.storage.GetActiveQuestion(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.QuestionID("q1"), active.ID)
}

func (s *StorageSuite) TestActivateQuestionLosesRace() {
	activated, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)
	s.True(activated)

	activated, err = s.storage.ActivateQuestion(s.ctx, s.questionFixture("q2"))
	s.Require().NoError(err)
	s.False(activated)

	active, err := s.storage.GetActiveQuestion(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.QuestionID("q1"), active.ID)
}

func (s *StorageSuite) TestGetQuestionNotFound() {
	_, err := s.storage.GetQuestion(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrQuestionNotFound)
}

func (s *StorageSuite) TestGetActiveQuestionNone() {
	_, err := s.storage.GetActiveQuestion(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveQuestion)
}

func (s *StorageSuite) TestClaimWin() {
	_, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)

	wonAt := time.Date(2024, 1, 1, 12, 0, 30, 0, time.UTC)
	claimed, err := s.storage.ClaimWin(s.ctx, "q1", "player-1", "alice", wonAt)
	s.Require().NoError(err)
	s.True(claimed)

	question, err := s.storage.GetQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), question.WinnerID)
	s.Equal("alice", question.WinnerName)
	s.True(wonAt.Equal(question.WonAt))
	s.True(question.IsActive)
}

func (s *StorageSuite) TestClaimWinOnlyOnce() {
	_, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)

	claimed, err := s.storage.ClaimWin(s.ctx, "q1", "player-1", "alice", time.Now().UTC())
	s.Require().NoError(err)
	s.True(claimed)

	claimed, err = s.storage.ClaimWin(s.ctx, "q1", "player-2", "bob", time.Now().UTC())
	s.Require().NoError(err)
	s.False(claimed)

	question, err := s.storage.GetQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), question.WinnerID)
	s.Equal("alice", question.WinnerName)
}

func (s *StorageSuite) TestClaimWinRetiredQuestion() {
	_, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)
	_, err = s.storage.RetireQuestion(s.ctx, "q1")
	s.Require().NoError(err)

	claimed, err := s.storage.ClaimWin(s.ctx, "q1", "player-1", "alice", time.Now().UTC())
	s.Require().NoError(err)
	s.False(claimed)
}

func (s *StorageSuite) TestClaimWinMissingQuestion() {
	claimed, err := s.storage.ClaimWin(s.ctx, "nonexistent", "player-1", "alice", time.Now().UTC())
	s.Require().NoError(err)
	s.False(claimed)
}

func (s *StorageSuite) TestRetireQuestion() {
	_, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)

	retired, err := s.storage.RetireQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.True(retired)

	retired, err = s.storage.RetireQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.False(retired)

	_, err = s.storage.GetActiveQuestion(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveQuestion)

	question, err := s.storage.GetQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.False(question.IsActive)
}

func (s *StorageSuite) TestRetireQuestionSetsTTL() {
	_, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)
	_, err = s.storage.RetireQuestion(s.ctx, "q1")
	s.Require().NoError(err)

	s.Positive(s.mini.TTL(questionKey("q1")))
}

func (s *StorageSuite) TestRetireDoesNotReleaseSuccessorPointer() {
	_, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)
	_, err = s.storage.RetireQuestion(s.ctx, "q1")
	s.Require().NoError(err)

	activated, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q2"))
	s.Require().NoError(err)
	s.True(activated)

	// A stale retire of q1 must not clear q2's active pointer
	retired, err := s.storage.RetireQuestion(s.ctx, "q1")
	s.Require().NoError(err)
	s.False(retired)

	active, err := s.storage.GetActiveQuestion(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.QuestionID("q2"), active.ID)
}

func (s *StorageSuite) TestDanglingActivePointer() {
	_, err := s.storage.ActivateQuestion(s.ctx, s.questionFixture("q1"))
	s.Require().NoError(err)

	// Simulate the question record expiring out from under the pointer
	s.mini.Del(questionKey("q1"))

	_, err = s.storage.GetActiveQuestion(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveQuestion)
}
