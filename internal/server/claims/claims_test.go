package claims

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop_AlwaysGrants(t *testing.T) {
	var l Noop
	for i := 0; i < 3; i++ {
		ok, err := l.TryClaim(context.Background(), "123", "u"+string(rune('a'+i)))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestMemory_ExclusiveUntilExpiry(t *testing.T) {
	m := NewMemory(time.Minute)
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := m.TryClaim(ctx, "123", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.TryClaim(ctx, "123", "bob")
	assert.False(t, ok)

	ok, _ = m.TryClaim(ctx, "123", "alice")
	assert.True(t, ok, "owner may re-claim")

	now = now.Add(2 * time.Minute)
	ok, _ = m.TryClaim(ctx, "123", "bob")
	assert.True(t, ok, "expired lease is free")
}

func TestMemory_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	m := NewMemory(time.Minute)
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := m.TryClaim(context.Background(), "123", string(rune('a'+i)))
			if err == nil && ok {
				wins.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedis(client, time.Minute)
}

func TestRedis_ExclusiveUntilExpiry(t *testing.T) {
	mr, r := newRedis(t)
	ctx := context.Background()

	ok, err := r.TryClaim(ctx, "123", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.TryClaim(ctx, "123", "bob")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.TryClaim(ctx, "123", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = r.TryClaim(ctx, "123", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_ConnectionErrorIsStoreError(t *testing.T) {
	mr, r := newRedis(t)
	mr.Close()

	_, err := r.TryClaim(context.Background(), "123", "alice")
	assert.ErrorIs(t, err, common.ErrStore)
}

func TestNew_Modes(t *testing.T) {
	ctx := context.Background()

	l, closeFn, err := New(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, l)
	assert.NoError(t, closeFn())

	l, _, err = New(ctx, Options{Mode: ModeMemory, TTL: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, l)

	mr := miniredis.RunT(t)
	l, closeFn, err = New(ctx, Options{Mode: ModeRedis, RedisAddr: mr.Addr(), TTL: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, l)
	assert.NoError(t, closeFn())

	_, _, err = New(ctx, Options{Mode: "zookeeper"})
	assert.ErrorIs(t, err, common.ErrValidation)
}
