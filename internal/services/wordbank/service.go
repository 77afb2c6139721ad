package wordbank

import (
	"context"
	_ "embed"
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/lcastelli/motdepasse-server/internal/dependencies/random"
	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/storage"
)

//go:embed words.json
var defaultBank []byte

// Service provides random, non-repeating word retrieval per game.
// Words are grouped by category; rooms restrict draws to their active
// categories and exclude words already played this game.
type Service struct {
	storage storage.Storage
	random  random.Random

	mu    sync.RWMutex
	words []model.Word
}

// New creates a new word bank Service
func New(storage storage.Storage, random random.Random) *Service {
	return &Service{
		storage: storage,
		random:  random,
	}
}

// bankFile is the on-disk word bank layout: category -> entries
type bankFile map[model.CategoryKey][]struct {
	Text  string `json:"text"`
	Emoji string `json:"emoji"`
}

// LoadDefaults loads the embedded word bank
func (s *Service) LoadDefaults(ctx context.Context) error {
	return s.loadJSON(ctx, defaultBank)
}

// LoadFromFile loads a word bank from a JSON file, replacing any
// previously loaded words
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.loadJSON(ctx, data)
}

// LoadFromStorage restores a word bank previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetWords(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.words = words
	s.mu.Unlock()
	return nil
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []model.Word) {
	s.mu.Lock()
	s.words = make([]model.Word, len(words))
	copy(s.words, words)
	s.mu.Unlock()
}

func (s *Service) loadJSON(ctx context.Context, data []byte) error {
	var bank bankFile
	if err := json.Unmarshal(data, &bank); err != nil {
		return err
	}

	var words []model.Word
	for category, entries := range bank {
		for _, e := range entries {
			words = append(words, model.Word{
				Text:     e.Text,
				Category: category,
				Emoji:    e.Emoji,
			})
		}
	}

	// Persist so a redis-backed deployment shares one bank
	if err := s.storage.SaveWords(ctx, words); err != nil {
		return err
	}

	s.mu.Lock()
	s.words = words
	s.mu.Unlock()
	return nil
}

// Categories returns the sorted list of category keys in the bank
func (s *Service) Categories() []model.CategoryKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[model.CategoryKey]struct{})
	var keys []model.CategoryKey
	for _, w := range s.words {
		if _, ok := seen[w.Category]; !ok {
			seen[w.Category] = struct{}{}
			keys = append(keys, w.Category)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// HasCategory reports whether the bank contains the given category
func (s *Service) HasCategory(key model.CategoryKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.words {
		if w.Category == key {
			return true
		}
	}
	return false
}

// WordCount returns the number of words in the bank
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// DrawWord selects uniformly at random a word whose category is
// active and which is not in the exclusion set. Returns
// model.ErrWordBankExhausted when no eligible word remains.
func (s *Service) DrawWord(categories []model.CategoryKey, exclude map[string]struct{}) (model.Word, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make(map[model.CategoryKey]struct{}, len(categories))
	for _, c := range categories {
		active[c] = struct{}{}
	}

	var eligible []model.Word
	for _, w := range s.words {
		if _, ok := active[w.Category]; !ok {
			continue
		}
		if _, used := exclude[w.Text]; used {
			continue
		}
		eligible = append(eligible, w)
	}

	if len(eligible) == 0 {
		return model.Word{}, model.ErrWordBankExhausted
	}

	return eligible[s.random.Intn(len(eligible))], nil
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadDefaults(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadFromStorage(ctx context.Context) error
	Categories() []model.CategoryKey
	HasCategory(key model.CategoryKey) bool
	WordCount() int
	DrawWord(categories []model.CategoryKey, exclude map[string]struct{}) (model.Word, error)
}

var _ ServiceInterface = (*Service)(nil)
