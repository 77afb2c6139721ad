package storage

import (
	"context"

	"github.com/lcastelli/motdepasse-server/internal/model"
)

// Storage defines the interface for data persistence.
//
// Live room and round state is owned by in-memory session actors and
// never goes through here; storage holds the word bank and the archive
// of completed games.
type Storage interface {
	// Word bank operations
	SaveWords(ctx context.Context, words []model.Word) error
	GetWords(ctx context.Context) ([]model.Word, error)

	// Game archive operations
	SaveGameRecord(ctx context.Context, record *model.GameRecord) error
	GetGameRecords(ctx context.Context, code model.RoomCode) ([]*model.GameRecord, error)
}
