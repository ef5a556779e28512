package progress

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache(t *testing.T) (*Cache, *MemoryKV, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	kv := NewMemoryKV()
	// pin the kv to the same clock so substrate TTL can't race the
	// cache's own staleness check
	kv.now = clock.Now
	return New(kv, clock, 0, zerolog.Nop()), kv, clock
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	answers := map[int]string{0: "Selective cutting", 3: "Clear felling"}
	require.NoError(t, cache.Save(ctx, "week1", answers))

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err)
	assert.Equal(t, answers, loaded)
}

func TestCacheMissIsNilNil(t *testing.T) {
	cache, _, _ := newTestCache(t)

	loaded, err := cache.Load(context.Background(), "week4")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCacheEntryJustUnderExpiryRestorable(t *testing.T) {
	cache, _, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week1", map[int]string{0: "a"}))
	clock.Advance(15*time.Minute - time.Second)

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "a"}, loaded)
}

func TestCacheExpiredEntryDropped(t *testing.T) {
	cache, kv, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week1", map[int]string{0: "a"}))
	clock.Advance(15*time.Minute + time.Second)

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	_, ok, err := kv.Get(ctx, "quiz_progress_week1")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry deleted on read")
}

func TestCacheExactExpiryBoundaryDropped(t *testing.T) {
	cache, _, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week1", map[int]string{0: "a"}))
	clock.Advance(15 * time.Minute)

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err)
	assert.Nil(t, loaded, "age equal to expiry counts as stale")
}

func TestCacheCorruptEntryDropped(t *testing.T) {
	cache, kv, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "quiz_progress_week1", "{not json", 0))

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err, "corrupt entries are absent, not failures")
	assert.Nil(t, loaded)

	_, ok, err := kv.Get(ctx, "quiz_progress_week1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheNonNumericIndexDropped(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.kv.Set(ctx, "quiz_progress_week1",
		`{"answers":{"zero":"a"},"timestamp":`+"1748779200000"+`}`, 0))

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCacheEmptySaveIsNoop(t *testing.T) {
	cache, kv, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week1", map[int]string{}))

	_, ok, err := kv.Get(ctx, "quiz_progress_week1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheSaveOverwritesAndRefreshesTimestamp(t *testing.T) {
	cache, _, clock := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week1", map[int]string{0: "a"}))
	clock.Advance(14 * time.Minute)
	require.NoError(t, cache.Save(ctx, "week1", map[int]string{0: "a", 1: "b"}))
	clock.Advance(14 * time.Minute)

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "a", 1: "b"}, loaded,
		"second save restarts the freshness window")
}

func TestCacheClear(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week1", map[int]string{0: "a"}))
	require.NoError(t, cache.Clear(ctx, "week1"))

	loaded, err := cache.Load(ctx, "week1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestCacheWeeksIsolated(t *testing.T) {
	cache, _, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "week1", map[int]string{0: "a"}))
	require.NoError(t, cache.Save(ctx, "week2", map[int]string{0: "b"}))
	require.NoError(t, cache.Clear(ctx, "week1"))

	loaded, err := cache.Load(ctx, "week2")
	require.NoError(t, err)
	assert.Equal(t, map[int]string{0: "b"}, loaded)
}
