package app

import (
	"math"
	"time"

	"livequiz-service/internal/domain"
)

// scoreAnswer awards points for a submission against the given question.
// Wrong answers score zero. Correct answers earn the full point value at
// the instant the question starts and decay linearly to half value at
// the question's time limit; elapsed time is clamped to [0, duration] so
// nothing below half value is ever awarded for a correct answer.
func scoreAnswer(q domain.Question, chosen int, submittedAt time.Time) (correct bool, points int) {
	if chosen != q.Correct {
		return false, 0
	}
	if q.Duration <= 0 {
		return true, q.Points
	}

	elapsed := submittedAt.Sub(q.StartedAt).Seconds()
	duration := float64(q.Duration)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > duration {
		elapsed = duration
	}

	penalty := 0.5 * (elapsed / duration)
	return true, int(math.Round(float64(q.Points) * (1 - penalty)))
}
