package quiz

import "time"

// Timer states.
const (
	timerRunning = "running"
	timerPaused  = "paused"
)

// Timer accumulates whole seconds of active (view-visible) time for one
// session. Ticks only count while running; time spent hidden is added in a
// single catch-up step on resume, so every wall-clock second is counted
// exactly once.
//
// Timer is not goroutine-safe on its own; the owning Session serializes all
// access under its mutex.
type Timer struct {
	clock    Clock
	state    string
	stopped  bool
	elapsed  int
	pausedAt time.Time
}

// NewTimer starts running when the view is currently visible, paused
// otherwise.
func NewTimer(clock Clock, visible bool) *Timer {
	t := &Timer{clock: clock, state: timerRunning}
	if !visible {
		t.state = timerPaused
		t.pausedAt = clock.Now()
	}
	return t
}

// Tick adds one second of active time. No-op unless running.
func (t *Timer) Tick() {
	if t.state == timerRunning && !t.stopped {
		t.elapsed++
	}
}

// Pause records the pause instant and stops tick accrual.
func (t *Timer) Pause() {
	if t.stopped || t.state == timerPaused {
		return
	}
	t.state = timerPaused
	t.pausedAt = t.clock.Now()
}

// Resume adds the whole seconds spent paused in one step, then lets ticks
// accrue again. No-op after Stop: a completed session never resumes.
func (t *Timer) Resume() {
	if t.stopped || t.state == timerRunning {
		return
	}
	t.elapsed += int(t.clock.Now().Sub(t.pausedAt) / time.Second)
	t.state = timerRunning
}

// Stop ends accrual for good.
func (t *Timer) Stop() {
	t.stopped = true
	t.state = timerPaused
}

// Elapsed returns the accumulated active seconds.
func (t *Timer) Elapsed() int { return t.elapsed }

// Running reports whether ticks currently accrue.
func (t *Timer) Running() bool { return t.state == timerRunning && !t.stopped }
