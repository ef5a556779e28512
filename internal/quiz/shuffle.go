package quiz

import (
	"math/rand"

	"coursequiz/internal/questionbank"
)

// ShuffleQuestions returns an unbiased permutation of qs in which every
// question is a shallow copy carrying an independently shuffled options
// slice. The input and its option slices are never mutated, so the question
// bank stays pristine no matter how many sessions shuffle it.
func ShuffleQuestions(rng *rand.Rand, qs []questionbank.Question) []questionbank.Question {
	shuffled := make([]questionbank.Question, len(qs))
	for i, j := range rng.Perm(len(qs)) {
		shuffled[i] = qs[j]
		shuffled[i].Options = ShuffleOptions(rng, qs[j].Options)
	}
	return shuffled
}

// ShuffleOptions returns a Fisher-Yates permutation of options in a new
// slice.
func ShuffleOptions(rng *rand.Rand, options []string) []string {
	out := make([]string, len(options))
	copy(out, options)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
