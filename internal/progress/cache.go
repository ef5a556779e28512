// Package progress persists in-flight quiz answers for a bounded window so
// an interrupted attempt can pick up where it left off.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultExpiry is how long saved progress stays restorable.
const DefaultExpiry = 15 * time.Minute

const keyPrefix = "quiz_progress_"

// Clock abstracts time for expiry checks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// entry is the stored wire shape: answer options keyed by stringified
// question index, plus the save instant in epoch milliseconds.
type entry struct {
	Answers   map[string]string `json:"answers"`
	Timestamp int64             `json:"timestamp"`
}

// Cache stores per-week answer maps with a freshness window. Entries older
// than the expiry, and entries that fail to decode, are treated as absent
// and removed on read.
type Cache struct {
	kv     KV
	clock  Clock
	expiry time.Duration
	logger zerolog.Logger
}

// New builds a cache over the given substrate. A zero expiry means
// DefaultExpiry; a nil clock means wall time.
func New(kv KV, clock Clock, expiry time.Duration, logger zerolog.Logger) *Cache {
	if clock == nil {
		clock = systemClock{}
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Cache{
		kv:     kv,
		clock:  clock,
		expiry: expiry,
		logger: logger.With().Str("component", "progress_cache").Logger(),
	}
}

// Load returns the saved answers for week, or nil when nothing restorable
// exists. Stale and corrupt entries are deleted and reported as absent;
// only substrate failures come back as errors.
func (c *Cache) Load(ctx context.Context, week string) (map[int]string, error) {
	key := keyPrefix + week

	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var stored entry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		c.logger.Warn().Err(err).Str("week", week).Msg("discarding corrupt progress entry")
		c.deleteQuietly(ctx, key, week)
		return nil, nil
	}

	age := c.clock.Now().UnixMilli() - stored.Timestamp
	if age >= c.expiry.Milliseconds() {
		c.logger.Info().Str("week", week).Int64("age_ms", age).Msg("progress expired")
		c.deleteQuietly(ctx, key, week)
		return nil, nil
	}

	answers := make(map[int]string, len(stored.Answers))
	for rawIdx, option := range stored.Answers {
		idx, err := strconv.Atoi(rawIdx)
		if err != nil {
			c.logger.Warn().Str("week", week).Str("index", rawIdx).Msg("discarding corrupt progress entry")
			c.deleteQuietly(ctx, key, week)
			return nil, nil
		}
		answers[idx] = option
	}
	return answers, nil
}

// Save overwrites the week's entry with the given answers, stamped now. An
// empty map is a no-op: there is nothing worth restoring.
func (c *Cache) Save(ctx context.Context, week string, answers map[int]string) error {
	if len(answers) == 0 {
		return nil
	}

	stored := entry{
		Answers:   make(map[string]string, len(answers)),
		Timestamp: c.clock.Now().UnixMilli(),
	}
	for idx, option := range answers {
		stored.Answers[strconv.Itoa(idx)] = option
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := c.kv.Set(ctx, keyPrefix+week, string(raw), c.expiry); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Clear removes the week's entry.
func (c *Cache) Clear(ctx context.Context, week string) error {
	if err := c.kv.Delete(ctx, keyPrefix+week); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func (c *Cache) deleteQuietly(ctx context.Context, key, week string) {
	if err := c.kv.Delete(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("week", week).Msg("failed to drop progress entry")
	}
}
