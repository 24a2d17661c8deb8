package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLocker(client), mr
}

func TestLocker_TryLock_Exclusive(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	value, ok, err := locker.TryLock(ctx, "reminder:42:1h", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, value)

	_, ok, err = locker.TryLock(ctx, "reminder:42:1h", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocker_Unlock(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	value, ok, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	assert.ErrorIs(t, locker.Unlock(ctx, "k", "someone-else"), ErrNotOwner)
	require.NoError(t, locker.Unlock(ctx, "k", value))

	_, ok, err = locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocker_Expires(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	_, ok, err := locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	_, ok, err = locker.TryLock(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
