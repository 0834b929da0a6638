package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/quizrace/internal/model"
	"github.com/mcoot/quizrace/internal/storage"
)

// Lua scripts for the operations that must be atomic against concurrent
// callers. Each script touches a single logical record, which is the only
// atomicity guarantee the design relies on.
var (
	// awardWinScript increments the player's score and raises their high
	// score if exceeded, keeping the leaderboard ZSET in sync.
	// KEYS[1] = player hash, KEYS[2] = leaderboard ZSET, ARGV[1] = player id
	awardWinScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
local score = redis.call('HINCRBY', KEYS[1], 'score', 1)
local high = tonumber(redis.call('HGET', KEYS[1], 'high_score') or '0')
if score > high then
	redis.call('HSET', KEYS[1], 'high_score', score)
end
redis.call('ZADD', KEYS[2], score, ARGV[1])
return 1
`)

	// activateQuestionScript installs a new active question only if no
	// question currently holds the active pointer.
	// KEYS[1] = active pointer, KEYS[2] = question key
	// ARGV[1] = question id, ARGV[2] = question JSON
	activateQuestionScript = redis.NewScript(`
if redis.call('SET', KEYS[1], ARGV[1], 'NX') then
	redis.call('SET', KEYS[2], ARGV[2])
	return 1
end
return 0
`)

	// claimWinScript is the winner-claim conditional update: set the
	// winner fields only if the question is still active and unwon.
	// KEYS[1] = question key
	// ARGV[1] = winner id, ARGV[2] = winner name, ARGV[3] = won_at
	claimWinScript = redis.NewScript(`
local data = redis.call('GET', KEYS[1])
if not data then
	return 0
end
local q = cjson.decode(data)
if q.is_active ~= true or q.winner_id ~= '' then
	return 0
end
q.winner_id = ARGV[1]
q.winner_name = ARGV[2]
q.won_at = ARGV[3]
redis.call('SET', KEYS[1], cjson.encode(q))
return 1
`)

	// retireQuestionScript flips a question to retired exactly once and
	// releases the active pointer if it still refers to this question.
	// KEYS[1] = question key, KEYS[2] = active pointer
	// ARGV[1] = question id, ARGV[2] = retired TTL in seconds (0 = none)
	retireQuestionScript = redis.NewScript(`
local data = redis.call('GET', KEYS[1])
if not data then
	return 0
end
local q = cjson.decode(data)
if q.is_active ~= true then
	return 0
end
q.is_active = false
redis.call('SET', KEYS[1], cjson.encode(q))
local ttl = tonumber(ARGV[2])
if ttl > 0 then
	redis.call('EXPIRE', KEYS[1], ttl)
end
if redis.call('GET', KEYS[2]) == ARGV[1] then
	redis.call('DEL', KEYS[2])
end
return 1
`)
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	// Pipeline the hash, username index and leaderboard entry together
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, playerKey(player.ID),
		"id", string(player.ID),
		"username", player.Username,
		"score", player.Score,
		"high_score", player.HighScore,
		"created_at", player.CreatedAt.Format(time.RFC3339Nano),
	)
	pipe.Set(ctx, usernameIndexKey(player.Username), string(player.ID), 0)
	pipe.ZAdd(ctx, leaderboardKey(), redis.Z{
		Score:  float64(player.Score),
		Member: string(player.ID),
	})
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	fields, err := s.client.HGetAll(ctx, playerKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrPlayerNotFound
	}
	return playerFromHash(fields)
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(playerIDStr))
}

func (s *Storage) AwardWin(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	keys := []string{playerKey(id), leaderboardKey()}
	res, err := awardWinScript.Run(ctx, s.client, keys, string(id)).Int()
	if err != nil {
		return nil, err
	}
	if res == 0 {
		return nil, model.ErrPlayerNotFound
	}

	return s.GetPlayer(ctx, id)
}

func (s *Storage) TopPlayers(ctx context.Context, n int) ([]*model.Player, error) {
	if n <= 0 {
		return []*model.Player{}, nil
	}

	// Equal scores come back in member order, which is the ZSET's own
	// deterministic ordering
	ids, err := s.client.ZRevRange(ctx, leaderboardKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue // Leaderboard entry without a player record
			}
			return nil, err
		}
		players = append(players, player)
	}

	return players, nil
}

// Question operations

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	data, err := s.client.Get(ctx, questionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrQuestionNotFound
		}
		return nil, err
	}

	var question model.Question
	if err := json.Unmarshal(data, &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *Storage) GetActiveQuestion(ctx context.Context) (*model.Question, error) {
	idStr, err := s.client.Get(ctx, activeQuestionKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNoActiveQuestion
		}
		return nil, err
	}

	question, err := s.GetQuestion(ctx, model.QuestionID(idStr))
	if err != nil {
		if errors.Is(err, model.ErrQuestionNotFound) {
			// Dangling pointer; treat as no active question
			return nil, model.ErrNoActiveQuestion
		}
		return nil, err
	}
	return question, nil
}

func (s *Storage) ActivateQuestion(ctx context.Context, question *model.Question) (bool, error) {
	q := *question
	q.IsActive = true

	data, err := json.Marshal(&q)
	if err != nil {
		return false, err
	}

	keys := []string{activeQuestionKey(), questionKey(q.ID)}
	res, err := activateQuestionScript.Run(ctx, s.client, keys, string(q.ID), string(data)).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (s *Storage) ClaimWin(ctx context.Context, id model.QuestionID, winnerID model.PlayerID, winnerName string, wonAt time.Time) (bool, error) {
	keys := []string{questionKey(id)}
	res, err := claimWinScript.Run(ctx, s.client, keys,
		string(winnerID),
		winnerName,
		wonAt.Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (s *Storage) RetireQuestion(ctx context.Context, id model.QuestionID) (bool, error) {
	ttlSeconds := int64(s.cfg.RetiredQuestionTTL / time.Second)
	keys := []string{questionKey(id), activeQuestionKey()}
	res, err := retireQuestionScript.Run(ctx, s.client, keys,
		string(id),
		strconv.FormatInt(ttlSeconds, 10),
	).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// playerFromHash converts a Redis hash into a Player
func playerFromHash(fields map[string]string) (*model.Player, error) {
	score, err := strconv.ParseInt(fields["score"], 10, 64)
	if err != nil {
		return nil, err
	}
	highScore, err := strconv.ParseInt(fields["high_score"], 10, 64)
	if err != nil {
		return nil, err
	}

	var createdAt time.Time
	if raw := fields["created_at"]; raw != "" {
		createdAt, err = time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
	}

	return &model.Player{
		ID:        model.PlayerID(fields["id"]),
		Username:  fields["username"],
		Score:     score,
		HighScore: highScore,
		CreatedAt: createdAt,
	}, nil
}
