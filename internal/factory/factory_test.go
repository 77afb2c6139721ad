package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(context.Background(), Config{})
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Storage)
	assert.NotNil(t, app.Registry)
	assert.Greater(t, app.WordBank.WordCount(), 0, "embedded bank loads by default")
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: "scrolls"})
	assert.Error(t, err)
}

func TestNewRedisRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)
}

func TestNewRejectsMissingWordFile(t *testing.T) {
	_, err := New(context.Background(), Config{WordBankPath: "does/not/exist.json"})
	assert.Error(t, err)
}
