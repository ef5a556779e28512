package progress

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisKV(client), srv
}

func TestRedisKVRoundTrip(t *testing.T) {
	kv, _ := newTestRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "quiz_progress_week1", `{"answers":{}}`, time.Minute))

	value, ok, err := kv.Get(ctx, "quiz_progress_week1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"answers":{}}`, value)
}

func TestRedisKVMissingKey(t *testing.T) {
	kv, _ := newTestRedisKV(t)

	_, ok, err := kv.Get(context.Background(), "quiz_progress_week9")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisKVTTLExpires(t *testing.T) {
	kv, srv := newTestRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "quiz_progress_week1", "v", 15*time.Minute))
	srv.FastForward(16 * time.Minute)

	_, ok, err := kv.Get(ctx, "quiz_progress_week1")
	require.NoError(t, err)
	assert.False(t, ok, "redis drops the entry after the TTL window")
}

func TestRedisKVDelete(t *testing.T) {
	kv, _ := newTestRedisKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "quiz_progress_week1", "v", time.Minute))
	require.NoError(t, kv.Delete(ctx, "quiz_progress_week1"))

	_, ok, err := kv.Get(ctx, "quiz_progress_week1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheOverRedis(t *testing.T) {
	kv, srv := newTestRedisKV(t)
	clock := newFakeClock()
	cache := New(kv, clock, 0, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week3", map[int]string{1: "Thinning"}))

	loaded, err := cache.Load(ctx, "week3")
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "Thinning"}, loaded)

	// the redis TTL mirrors the cache window as a second line of defense
	srv.FastForward(16 * time.Minute)
	loaded, err = cache.Load(ctx, "week3")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
