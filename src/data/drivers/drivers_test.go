package drivers

import (
	"context"
	"testing"

	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDegradesToNoop(t *testing.T) {
	store := Open(context.Background(), config.StoreConfig{})
	assert.Equal(t, "noop", store.Driver())
	assert.ErrorIs(t, store.Ping(context.Background()), data.ErrUnavailable)

	_, err := store.GetGuild(context.Background(), "1")
	assert.ErrorIs(t, err, data.ErrNotFound)
	assert.NoError(t, store.UpsertGuild(context.Background(), "1", "Team"))
}

func TestOpenMissingURIDegrades(t *testing.T) {
	store := Open(context.Background(), config.StoreConfig{Driver: "mongo"})
	assert.Equal(t, "noop", store.Driver())
}

func TestConnectMemory(t *testing.T) {
	store, err := Connect(context.Background(), config.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Driver())
	assert.NoError(t, store.Ping(context.Background()))
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect(context.Background(), config.StoreConfig{Driver: "sqlite"})
	assert.Error(t, err)
}
