package redis

import (
	"github.com/lcastelli/motdepasse-server/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "motdepasse:"

// wordsKey returns the Redis key for the word bank
func wordsKey() string {
	return keyPrefix + "words"
}

// recordsKey returns the Redis key for a room's completed-game list
func recordsKey(code model.RoomCode) string {
	return keyPrefix + "records:" + string(code)
}
