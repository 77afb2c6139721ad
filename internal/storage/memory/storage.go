package memory

import (
	"context"
	"sync"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	words   []model.Word
	records map[model.RoomCode][]*model.GameRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		records: make(map[model.RoomCode][]*model.GameRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Word bank operations

func (s *Storage) SaveWords(ctx context.Context, words []model.Word) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make([]model.Word, len(words))
	copy(s.words, words)
	return nil
}

func (s *Storage) GetWords(ctx context.Context) ([]model.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return nil, model.ErrWordBankExhausted
	}
	result := make([]model.Word, len(s.words))
	copy(result, s.words)
	return result, nil
}

// Game archive operations

func (s *Storage) SaveGameRecord(ctx context.Context, record *model.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.RoomCode] = append(s.records[record.RoomCode], record)
	return nil
}

func (s *Storage) GetGameRecords(ctx context.Context, code model.RoomCode) ([]*model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.records[code]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	result := make([]*model.GameRecord, len(records))
	copy(result, records)
	return result, nil
}
