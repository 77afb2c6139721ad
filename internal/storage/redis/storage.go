package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/storage"
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

// Word bank operations

func (s *Storage) SaveWords(ctx context.Context, words []model.Word) error {
	data, err := json.Marshal(words)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, wordsKey(), data, 0).Err()
}

func (s *Storage) GetWords(ctx context.Context) ([]model.Word, error) {
	data, err := s.client.Get(ctx, wordsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrWordBankExhausted
		}
		return nil, err
	}

	var words []model.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, err
	}
	return words, nil
}

// Game archive operations

func (s *Storage) SaveGameRecord(ctx context.Context, record *model.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := recordsKey(record.RoomCode)

	// Append and refresh the TTL in one round trip
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	if s.cfg.GameRecordTTL > 0 {
		pipe.Expire(ctx, key, s.cfg.GameRecordTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGameRecords(ctx context.Context, code model.RoomCode) ([]*model.GameRecord, error) {
	items, err := s.client.LRange(ctx, recordsKey(code), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.ErrRecordNotFound
	}

	records := make([]*model.GameRecord, 0, len(items))
	for _, item := range items {
		var record model.GameRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, nil
}
