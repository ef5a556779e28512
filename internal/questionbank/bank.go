package questionbank

import "sort"

// Question is a single multiple-choice entry. Options keep their authored
// order; Answer must match one of the options exactly or the question can
// never be scored correct.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// Store is the static week -> questions mapping. It is built once at startup
// and never mutated afterwards, so any number of sessions may read it
// without coordination.
type Store struct {
	weeks map[string][]Question
	order []string
}

// New builds a store from a week -> questions mapping. The map is owned by
// the store after this call.
func New(weeks map[string][]Question) *Store {
	order := make([]string, 0, len(weeks))
	for week := range weeks {
		order = append(order, week)
	}
	// shorter keys first so week10 sorts after week9
	sort.Slice(order, func(i, j int) bool {
		if len(order[i]) != len(order[j]) {
			return len(order[i]) < len(order[j])
		}
		return order[i] < order[j]
	})
	return &Store{weeks: weeks, order: order}
}

// Weeks returns the known week keys in course order.
func (s *Store) Weeks() []string {
	weeks := make([]string, len(s.order))
	copy(weeks, s.order)
	return weeks
}

// Questions returns the entries for a week, nil if the week is unknown.
// Callers must treat the returned slice as read-only.
func (s *Store) Questions(week string) []Question {
	return s.weeks[week]
}

// Count returns the number of questions for a week.
func (s *Store) Count(week string) int {
	return len(s.weeks[week])
}

// All returns every week's questions flattened in course order.
func (s *Store) All() []Question {
	var all []Question
	for _, week := range s.order {
		all = append(all, s.weeks[week]...)
	}
	return all
}
