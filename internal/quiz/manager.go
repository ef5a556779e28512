package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ManagerOptions tunes session lifecycle behavior.
type ManagerOptions struct {
	// AutoAdvanceSeconds is passed through to each session. Defaults to 3.
	AutoAdvanceSeconds int
	// TickInterval is how often each session's clock ticks. Defaults to 1s.
	TickInterval time.Duration
}

// Manager owns the live session registry and drives each session's per-second
// tick from a dedicated goroutine.
type Manager struct {
	source QuestionSource
	cache  ProgressStore
	clock  Clock
	logger zerolog.Logger
	opts   ManagerOptions

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	stops    map[uuid.UUID]chan struct{}
}

// NewManager builds an empty session registry.
func NewManager(source QuestionSource, cache ProgressStore, clock Clock, opts ManagerOptions, logger zerolog.Logger) *Manager {
	if opts.AutoAdvanceSeconds <= 0 {
		opts.AutoAdvanceSeconds = defaultAutoAdvanceSeconds
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	return &Manager{
		source:   source,
		cache:    cache,
		clock:    clock,
		logger:   logger.With().Str("component", "quiz_manager").Logger(),
		opts:     opts,
		sessions: make(map[uuid.UUID]*Session),
		stops:    make(map[uuid.UUID]chan struct{}),
	}
}

// StartSession creates, starts, and registers a new session. Mixed mode
// always spans the whole dataset regardless of the requested week. visible
// seeds the timer state: a session created for a hidden view accrues no
// time until the first visible signal arrives.
func (m *Manager) StartSession(ctx context.Context, mode, weekKey string, visible bool) (*Session, error) {
	if mode != ModeSingleWeek && mode != ModeMixed {
		return nil, fmt.Errorf("start session: unknown mode %q", mode)
	}
	if mode == ModeMixed {
		weekKey = WeekMixed
	}

	rng := rand.New(rand.NewSource(m.clock.Now().UnixNano()))
	session := NewSession(mode, weekKey, m.source, m.cache, m.clock, rng, Options{
		AutoAdvanceSeconds: m.opts.AutoAdvanceSeconds,
		Hidden:             !visible,
	}, m.logger)

	if err := session.Start(ctx); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	stop := make(chan struct{})
	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.stops[session.ID()] = stop
	m.mu.Unlock()

	go m.run(session, stop)

	m.logger.Info().
		Str("session_id", session.ID().String()).
		Str("mode", mode).
		Str("week", weekKey).
		Msg("session started")
	return session, nil
}

func (m *Manager) run(session *Session, stop chan struct{}) {
	ticker := time.NewTicker(m.opts.TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			session.Tick()
		}
	}
}

// Get looks up a live session by id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close stops the session's tick runner and removes it from the registry.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stop, ok := m.stops[id]
	if !ok {
		return
	}
	close(stop)
	delete(m.stops, id)
	delete(m.sessions, id)
	m.logger.Info().Str("session_id", id.String()).Msg("session closed")
}

// Shutdown stops every session runner. Called once during app teardown.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, stop := range m.stops {
		close(stop)
		delete(m.stops, id)
		delete(m.sessions, id)
	}
	m.logger.Info().Msg("all sessions stopped")
}
