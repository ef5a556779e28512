package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursequiz/internal/questionbank"
)

func sampleQuestions(n int) []questionbank.Question {
	qs := make([]questionbank.Question, n)
	for i := range qs {
		qs[i] = questionbank.Question{
			Text:    string(rune('A' + i)),
			Options: []string{"opt1", "opt2", "opt3", "opt4"},
			Answer:  "opt2",
		}
	}
	return qs
}

func TestShuffleQuestionsPreservesSet(t *testing.T) {
	original := sampleQuestions(20)
	shuffled := ShuffleQuestions(rand.New(rand.NewSource(7)), original)

	require.Len(t, shuffled, len(original))

	seen := map[string]int{}
	for _, q := range original {
		seen[q.Text]++
	}
	for _, q := range shuffled {
		seen[q.Text]--
	}
	for text, count := range seen {
		assert.Zero(t, count, "question %q lost or duplicated", text)
	}
}

func TestShuffleQuestionsDoesNotMutateInput(t *testing.T) {
	original := sampleQuestions(10)
	before := make([]string, len(original))
	for i, q := range original {
		before[i] = q.Text
	}

	ShuffleQuestions(rand.New(rand.NewSource(1)), original)

	for i, q := range original {
		assert.Equal(t, before[i], q.Text)
		assert.Equal(t, []string{"opt1", "opt2", "opt3", "opt4"}, q.Options)
	}
}

func TestShuffleQuestionsShufflesOptionsPerQuestion(t *testing.T) {
	original := sampleQuestions(50)
	shuffled := ShuffleQuestions(rand.New(rand.NewSource(3)), original)

	reordered := false
	for _, q := range shuffled {
		assert.ElementsMatch(t, []string{"opt1", "opt2", "opt3", "opt4"}, q.Options)
		if q.Options[0] != "opt1" || q.Options[1] != "opt2" {
			reordered = true
		}
	}
	// 50 questions with 4 options each: all staying in place is astronomically unlikely
	assert.True(t, reordered, "expected at least one option list to change order")
}

func TestShuffleOptionsPreservesContents(t *testing.T) {
	options := []string{"a", "b", "c", "d"}
	shuffled := ShuffleOptions(rand.New(rand.NewSource(9)), options)

	assert.ElementsMatch(t, options, shuffled)
	assert.Equal(t, []string{"a", "b", "c", "d"}, options)
}
