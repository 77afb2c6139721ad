package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/lcastelli/motdepasse-server/internal/dependencies/clock"
	"github.com/lcastelli/motdepasse-server/internal/dependencies/random"
	"github.com/lcastelli/motdepasse-server/internal/services/round"
	"github.com/lcastelli/motdepasse-server/internal/services/scoring"
	"github.com/lcastelli/motdepasse-server/internal/services/teams"
	"github.com/lcastelli/motdepasse-server/internal/services/wordbank"
	"github.com/lcastelli/motdepasse-server/internal/session"
	"github.com/lcastelli/motdepasse-server/internal/storage"
	"github.com/lcastelli/motdepasse-server/internal/storage/memory"
	redisstorage "github.com/lcastelli/motdepasse-server/internal/storage/redis"
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
	WordBank     *wordbank.Service
	TeamsService *teams.Service
	Scoring      *scoring.Service
	Machine      *round.Machine
	Registry     *session.Registry
}

// Config holds configuration for the application factory
type Config struct {
	// WordBankPath is the path to a word bank file (optional)
	// If empty, the embedded default bank is loaded
	WordBankPath string
	// IdleRoomTTL is how long empty rooms linger (optional)
	// If zero, session.DefaultIdleTTL is used
	IdleRoomTTL time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired and the
// word bank loaded
func New(ctx context.Context, cfg Config) (*App, error) {
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

	clk := clock.New()
	rnd := random.New()

	app := newWithDependencies(store, clk, rnd, cfg.IdleRoomTTL, logger)

	if cfg.WordBankPath != "" {
		if err := app.WordBank.LoadFromFile(ctx, cfg.WordBankPath); err != nil {
			return nil, err
		}
	} else if err := app.WordBank.LoadDefaults(ctx); err != nil {
		return nil, err
	}

	return app, nil
}

// Close shuts down the registry and releases storage connections
func (a *App) Close() {
	a.Registry.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		_ = closer.Close()
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, idleTTL time.Duration, logger *slog.Logger) *App {
	wordBank := wordbank.New(store, rnd)
	teamsService := teams.New()
	scoringService := scoring.New()
	machine := round.NewMachine(wordBank, scoringService, logger)

	registry := session.NewRegistry(session.Deps{
		Teams:    teamsService,
		Scoring:  scoringService,
		Machine:  machine,
		WordBank: wordBank,
		Storage:  store,
		Clock:    clk,
		Logger:   logger,
	}, rnd, idleTTL, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		WordBank:     wordBank,
		TeamsService: teamsService,
		Scoring:      scoringService,
		Machine:      machine,
		Registry:     registry,
	}
}
