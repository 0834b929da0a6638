package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/quizrace/internal/dependencies/clock"
	"github.com/mcoot/quizrace/internal/dependencies/random"
	"github.com/mcoot/quizrace/internal/services/claim"
	"github.com/mcoot/quizrace/internal/services/generator"
	"github.com/mcoot/quizrace/internal/services/leaderboard"
	"github.com/mcoot/quizrace/internal/services/lifecycle"
	"github.com/mcoot/quizrace/internal/services/player"
	"github.com/mcoot/quizrace/internal/storage"
	"github.com/mcoot/quizrace/internal/storage/memory"
	redisstorage "github.com/mcoot/quizrace/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	GeneratorService   *generator.Service
	PlayerService      *player.Service
	LifecycleService   *lifecycle.Service
	ClaimService       *claim.Service
	LeaderboardService *leaderboard.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Quiz holds the lifecycle rules (optional)
	// If zero value, defaults to lifecycle.DefaultConfig()
	Quiz lifecycle.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default quiz rules if not provided
	quizCfg := cfg.Quiz
	if quizCfg.QuestionTimeout == 0 {
		quizCfg = lifecycle.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, quizCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, quizCfg lifecycle.Config, logger *slog.Logger) *App {
	generatorService := generator.New(rnd)
	playerService := player.New(store, clk, logger)
	lifecycleService := lifecycle.New(store, generatorService, clk, rnd, quizCfg, logger)
	claimService := claim.New(store, lifecycleService, clk, logger)
	leaderboardService := leaderboard.New(store)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		GeneratorService:   generatorService,
		PlayerService:      playerService,
		LifecycleService:   lifecycleService,
		ClaimService:       claimService,
		LeaderboardService: leaderboardService,
	}
}
