package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mcoot/quizrace/internal/model"
	"github.com/mcoot/quizrace/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	usernameIndex map[string]model.PlayerID
	questions     map[model.QuestionID]*model.Question
	activeID      model.QuestionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.Player),
		usernameIndex: make(map[string]model.PlayerID),
		questions:     make(map[model.QuestionID]*model.Question),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *player
	s.players[p.ID] = &p
	s.usernameIndex[p.Username] = p.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) AwardWin(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player.Score++
	if player.Score > player.HighScore {
		player.HighScore = player.Score
	}
	p := *player
	return &p, nil
}

func (s *Storage) TopPlayers(ctx context.Context, n int) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]*model.Player, 0, len(s.players))
	for _, player := range s.players {
		p := *player
		players = append(players, &p)
	}

	// Score descending; equal scores in ID order so results are stable
	sort.Slice(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return players[i].ID < players[j].ID
	})

	if len(players) > n {
		players = players[:n]
	}
	return players, nil
}

// Question operations

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[id]
	if !ok {
		return nil, model.ErrQuestionNotFound
	}
	q := *question
	return &q, nil
}

func (s *Storage) GetActiveQuestion(ctx context.Context) (*model.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeID == "" {
		return nil, model.ErrNoActiveQuestion
	}
	question, ok := s.questions[s.activeID]
	if !ok {
		return nil, model.ErrNoActiveQuestion
	}
	q := *question
	return &q, nil
}

func (s *Storage) ActivateQuestion(ctx context.Context, question *model.Question) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID != "" {
		return false, nil
	}
	q := *question
	q.IsActive = true
	s.questions[q.ID] = &q
	s.activeID = q.ID
	return true, nil
}

func (s *Storage) ClaimWin(ctx context.Context, id model.QuestionID, winnerID model.PlayerID, winnerName string, wonAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	if !ok {
		return false, nil
	}
	if !question.IsActive || question.HasWinner() {
		return false, nil
	}
	question.WinnerID = winnerID
	question.WinnerName = winnerName
	question.WonAt = wonAt
	return true, nil
}

func (s *Storage) RetireQuestion(ctx context.Context, id model.QuestionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	if !ok {
		return false, nil
	}
	if !question.IsActive {
		return false, nil
	}
	question.IsActive = false
	if s.activeID == id {
		s.activeID = ""
	}
	return true, nil
}
