package quiz

import (
	"errors"

	"coursequiz/internal/questionbank"
)

// Session modes.
//
// single_week presents every question of one week (or all weeks) as a single
// list: answers stay mutable until submission and in-progress answers are
// restored from the progress cache. mixed draws from all weeks one question
// at a time: the first answer is final and auto-advance is armed after it.
const (
	ModeSingleWeek = "single_week"
	ModeMixed      = "mixed"
)

// Session lifecycle states.
const (
	StatusLoading    = "loading"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// WeekAll selects every week's questions flattened into one session.
const WeekAll = "all"

// WeekMixed is the cache key selector for mixed-mode sessions, which carry
// no week scoping of their own.
const WeekMixed = "mixed"

var (
	// ErrEmptyDataset is returned by Start when the selector resolves to zero
	// questions. The session stays in loading.
	ErrEmptyDataset = errors.New("no questions for selector")
	// ErrSessionNotFound is returned by the manager for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")
)

// Snapshot is the read model handed to presentation layers. Questions shares
// the session's shuffled slice and must be treated as read-only.
type Snapshot struct {
	ID             string                  `json:"session_id"`
	Mode           string                  `json:"mode"`
	WeekKey        string                  `json:"week"`
	Status         string                  `json:"status"`
	Questions      []questionbank.Question `json:"questions"`
	Answers        map[int]string          `json:"answers"`
	Completed      bool                    `json:"completed"`
	Score          int                     `json:"score"`
	Accuracy       float64                 `json:"accuracy"`
	ElapsedSeconds int                     `json:"elapsed_seconds"`
	TabActive      bool                    `json:"tab_active"`
	CurrentIndex   int                     `json:"current_question_index"`
	AutoAdvanceIn  int                     `json:"auto_advance_in,omitempty"`
	TotalAnswered  int                     `json:"total_answered"`
}
