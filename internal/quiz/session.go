package quiz

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"coursequiz/internal/questionbank"
)

// QuestionSource supplies the static week -> questions dataset.
type QuestionSource interface {
	Questions(week string) []questionbank.Question
	All() []questionbank.Question
}

// ProgressStore persists in-progress answers across reloads within a bounded
// time window. Load returns nil for absent, expired, or malformed entries;
// only substrate failures surface as errors.
type ProgressStore interface {
	Load(ctx context.Context, week string) (map[int]string, error)
	Save(ctx context.Context, week string, answers map[int]string) error
	Clear(ctx context.Context, week string) error
}

// Options tunes per-session behavior.
type Options struct {
	// AutoAdvanceSeconds is the mixed-mode countdown armed after an answer.
	// Defaults to 3.
	AutoAdvanceSeconds int
	// Hidden marks the hosting view as not visible at creation time: the
	// timer starts paused and accrues nothing until the first visible
	// signal.
	Hidden bool
}

const defaultAutoAdvanceSeconds = 3

// Session is the state machine for one quiz attempt. It owns the shuffled
// question set, the user's answers, completion status, score, the active
// timer, and the mixed-mode auto-advance countdown.
//
// All methods serialize on one mutex: operations and timer ticks interleave
// exactly like the single-threaded event loop this behavior was designed
// for. Invalid transitions (answer after completion, duplicate submit,
// out-of-range navigation) are logged no-ops, never errors.
type Session struct {
	mu sync.Mutex

	id      uuid.UUID
	mode    string
	weekKey string

	source QuestionSource
	cache  ProgressStore
	clock  Clock
	rng    *rand.Rand
	logger zerolog.Logger

	status    string
	visible   bool
	questions []questionbank.Question
	answers   map[int]string
	score     int
	timer     *Timer
	current   int
	countdown int // pending auto-advance seconds, 0 = none

	autoAdvanceSecs int
}

// NewSession builds a session in the loading state. Call Start to pull and
// shuffle questions.
func NewSession(mode, weekKey string, source QuestionSource, cache ProgressStore, clock Clock, rng *rand.Rand, opts Options, logger zerolog.Logger) *Session {
	if opts.AutoAdvanceSeconds <= 0 {
		opts.AutoAdvanceSeconds = defaultAutoAdvanceSeconds
	}
	return &Session{
		id:      uuid.New(),
		mode:    mode,
		weekKey: weekKey,
		source:  source,
		cache:   cache,
		clock:   clock,
		rng:     rng,
		logger: logger.With().
			Str("component", "quiz_session").
			Str("mode", mode).
			Str("week", weekKey).
			Logger(),
		status:          StatusLoading,
		visible:         !opts.Hidden,
		answers:         make(map[int]string),
		autoAdvanceSecs: opts.AutoAdvanceSeconds,
	}
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Start selects and shuffles the question set for the session's selector,
// restores cached answers (single-week mode only), resets score and
// completion, and starts the timer. When the selector resolves zero
// questions, ErrEmptyDataset is returned and the session stays in loading.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx)
}

func (s *Session) startLocked(ctx context.Context) error {
	var pool []questionbank.Question
	if s.mode == ModeMixed || s.weekKey == WeekAll {
		pool = s.source.All()
	} else {
		pool = s.source.Questions(s.weekKey)
	}
	if len(pool) == 0 {
		emptyDatasetStarts.Inc()
		s.logger.Error().Int("questions", 0).Msg("failed to load questions")
		return ErrEmptyDataset
	}

	s.questions = ShuffleQuestions(s.rng, pool)
	s.answers = make(map[int]string)
	s.score = 0
	s.current = 0
	s.countdown = 0
	s.status = StatusInProgress
	s.timer = NewTimer(s.clock, s.visible)

	if s.mode == ModeSingleWeek {
		s.restoreProgressLocked(ctx)
	}

	sessionsStarted.WithLabelValues(s.mode).Inc()
	s.logger.Info().Int("questions", len(s.questions)).Msg("questions shuffled")
	return nil
}

func (s *Session) restoreProgressLocked(ctx context.Context) {
	cached, err := s.cache.Load(ctx, s.weekKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("progress restore failed")
		return
	}
	if len(cached) == 0 {
		return
	}
	// indices beyond the current question count cannot refer to anything
	for idx, option := range cached {
		if idx >= 0 && idx < len(s.questions) {
			s.answers[idx] = option
		}
	}
	if len(s.answers) > 0 {
		progressRestores.Inc()
		s.logger.Info().Int("restored", len(s.answers)).Msg("progress restored")
	}
}

// SelectAnswer records the chosen option for questionIndex. The in-memory
// update always precedes the cache write, so a reload can never observe a
// persisted answer that memory did not hold first. In mixed mode the first
// answer is final and arms the auto-advance countdown when the answered
// question is the one on display and not the last.
func (s *Session) SelectAnswer(ctx context.Context, questionIndex int, option string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		s.logger.Warn().Int("question_index", questionIndex).Msg("answer after completion ignored")
		return
	}
	if questionIndex < 0 || questionIndex >= len(s.questions) {
		s.logger.Warn().Int("question_index", questionIndex).Msg("answer index out of range")
		return
	}
	if s.mode == ModeMixed {
		if _, answered := s.answers[questionIndex]; answered {
			s.logger.Warn().Int("question_index", questionIndex).Msg("question already answered")
			return
		}
	}

	s.answers[questionIndex] = option

	if s.mode == ModeSingleWeek {
		if err := s.cache.Save(ctx, s.weekKey, s.answers); err != nil {
			s.logger.Warn().Err(err).Msg("progress save failed")
		}
	}

	if s.mode == ModeMixed && questionIndex == s.current && s.current < len(s.questions)-1 {
		s.countdown = s.autoAdvanceSecs
	}

	s.logger.Info().
		Int("question_index", questionIndex).
		Int("total_answered", len(s.answers)).
		Msg("answer selected")
}

// Submit scores the session and freezes it: answers and score stay exactly
// as computed until a restart replaces them. A second call is a no-op.
func (s *Session) Submit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		s.logger.Warn().Msg("duplicate submit ignored")
		return
	}

	s.score = Score(s.questions, s.answers)
	s.status = StatusCompleted
	s.countdown = 0
	s.timer.Stop()
	sessionsSubmitted.Inc()
	s.logger.Info().
		Int("score", s.score).
		Int("questions", len(s.questions)).
		Int("elapsed_seconds", s.timer.Elapsed()).
		Msg("quiz submitted")
}

// Restart clears the cached progress for the week and starts a brand-new
// attempt with a fresh shuffle, discarding all prior state.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cache.Clear(ctx, s.weekKey); err != nil {
		s.logger.Warn().Err(err).Msg("progress clear failed")
	}
	s.status = StatusLoading
	s.logger.Info().Msg("quiz reset")
	return s.startLocked(ctx)
}

// Next advances the question pointer, clamping at the last question. Manual
// navigation always clears a pending auto-advance so it cannot fire a second
// advance later.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countdown = 0
	if s.current < len(s.questions)-1 {
		s.current++
		s.logger.Info().Int("new_index", s.current).Msg("navigated to next question")
	}
}

// Previous moves back one question, clamping at zero, and clears any pending
// auto-advance.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.countdown = 0
	if s.current > 0 {
		s.current--
		s.logger.Info().Int("new_index", s.current).Msg("navigated to previous question")
	}
}

// SetVisible mirrors the hosting view's visibility signal into the timer.
// The latest signal also seeds the timer of any later restart.
func (s *Session) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.visible = visible
	if s.timer == nil {
		return
	}
	if visible {
		s.timer.Resume()
		s.logger.Info().Int("elapsed_seconds", s.timer.Elapsed()).Msg("timer resumed")
	} else {
		s.timer.Pause()
		s.logger.Info().Int("elapsed_seconds", s.timer.Elapsed()).Msg("timer paused")
	}
}

// Tick advances one second of session time: the active timer and, when
// armed, the auto-advance countdown. Driven once per second by the manager's
// runner.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Tick()
	}
	if s.countdown > 0 {
		s.countdown--
		if s.countdown == 0 && s.current < len(s.questions)-1 {
			s.current++
			s.logger.Info().Int("new_index", s.current).Msg("auto-advanced to next question")
		}
	}
}

// Snapshot returns a consistent copy of the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make(map[int]string, len(s.answers))
	for idx, option := range s.answers {
		answers[idx] = option
	}

	elapsed, active := 0, false
	if s.timer != nil {
		elapsed = s.timer.Elapsed()
		active = s.timer.Running()
	}

	return Snapshot{
		ID:             s.id.String(),
		Mode:           s.mode,
		WeekKey:        s.weekKey,
		Status:         s.status,
		Questions:      s.questions,
		Answers:        answers,
		Completed:      s.status == StatusCompleted,
		Score:          s.score,
		Accuracy:       Accuracy(s.score, len(s.questions)),
		ElapsedSeconds: elapsed,
		TabActive:      active,
		CurrentIndex:   s.current,
		AutoAdvanceIn:  s.countdown,
		TotalAnswered:  len(answers),
	}
}
