package quiz

import "coursequiz/internal/questionbank"

// Score counts indices whose recorded answer matches the question's answer
// exactly. Unanswered indices count as incorrect, never as an error.
func Score(questions []questionbank.Question, answers map[int]string) int {
	score := 0
	for i, q := range questions {
		if answer, ok := answers[i]; ok && answer == q.Answer {
			score++
		}
	}
	return score
}

// Accuracy is the scored fraction of the question set, zero when the set is
// empty so percentage displays never divide by zero.
func Accuracy(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total)
}
