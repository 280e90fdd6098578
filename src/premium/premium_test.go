package premium

import (
	"context"
	"testing"
	"time"

	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/data/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeWithoutPriorFlagIsNoop(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store)

	revoked, err := svc.Revoke(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
	_, err = store.GetGuild(ctx, "unknown")
	assert.ErrorIs(t, err, data.ErrNotFound)

	require.NoError(t, store.UpsertGuild(ctx, "plain", "Plain"))
	revoked, err = svc.Revoke(ctx, "plain")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestGrantAndRevoke(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store)

	st, err := svc.Grant(ctx, "g", 30)
	require.NoError(t, err)
	assert.True(t, st.IsPremium)
	assert.Equal(t, 30, st.DaysRemaining)

	st, err = svc.Status(ctx, "g")
	require.NoError(t, err)
	assert.True(t, st.IsPremium)
	assert.False(t, st.Lifetime)
	assert.Equal(t, 30, st.DaysRemaining)

	revoked, err := svc.Revoke(ctx, "g")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.False(t, svc.IsPremium(ctx, "g"))
}

func TestLifetimeGrant(t *testing.T) {
	svc := NewService(memory.New())
	_, err := svc.Grant(context.Background(), "g", 0)
	require.NoError(t, err)
	st, err := svc.Status(context.Background(), "g")
	require.NoError(t, err)
	assert.True(t, st.Lifetime)
	assert.Nil(t, st.ExpiresAt)

	_, err = svc.Grant(context.Background(), "g", -1)
	assert.Error(t, err)
}

func TestExpiredPremiumIsRevokedOnRead(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store)
	start := time.Now()
	svc.now = func() time.Time { return start }

	_, err := svc.Grant(ctx, "g", 1)
	require.NoError(t, err)

	svc.now = func() time.Time { return start.Add(25 * time.Hour) }
	assert.False(t, svc.IsPremium(ctx, "g"))

	g, err := store.GetGuild(ctx, "g")
	require.NoError(t, err)
	assert.False(t, g.Premium)
	assert.Nil(t, g.PremiumExpiresAt)
}
