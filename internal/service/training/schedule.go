package training

import (
	"time"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// Progress deltas per outcome. A correct answer advances one interval
// bracket; a wrong one can fall back across two.
const (
	progressGain    = 20
	progressPenalty = 40
)

// intervalBracket maps a progress range to the number of days until the
// next practice.
type intervalBracket struct {
	lo, hi int
	days   int
}

// Ebbinghaus-style review intervals.
var intervalBrackets = []intervalBracket{
	{0, 19, 0},
	{20, 39, 1},
	{40, 59, 3},
	{60, 79, 7},
	{80, 99, 14},
	{100, 100, 45},
}

// intervalDays returns the review interval for a progress value.
func intervalDays(progress int) int {
	for _, b := range intervalBrackets {
		if progress >= b.lo && progress <= b.hi {
			return b.days
		}
	}
	return 0
}

// ScheduleUpdate is the result of applying one answer outcome to a word's
// progress and schedule. Pure value, no side effects.
type ScheduleUpdate struct {
	Progress int
	NextDue  time.Time
	// Changed is false for schedule-neutral outcomes (synonym or
	// morphological near-misses): progress and due date stay as they were,
	// only last-practiced moves.
	Changed bool
}

// NextSchedule computes the new progress and due date after an answer.
// Pure function: no store, no clock of its own.
//   - Correct: progress +20 (clamped to 100), due in intervalDays(new).
//   - Incorrect: progress -40 (clamped to 0), due today.
//   - Synonym/Morphological: progress and due date unchanged.
func NextSchedule(progress int, class domain.AnswerClass, prevDue, today time.Time) ScheduleUpdate {
	switch class {
	case domain.AnswerCorrect:
		next := progress + progressGain
		if next > 100 {
			next = 100
		}
		return ScheduleUpdate{
			Progress: next,
			NextDue:  today.AddDate(0, 0, intervalDays(next)),
			Changed:  true,
		}

	case domain.AnswerIncorrect:
		next := progress - progressPenalty
		if next < 0 {
			next = 0
		}
		return ScheduleUpdate{
			Progress: next,
			NextDue:  today,
			Changed:  true,
		}

	default:
		return ScheduleUpdate{
			Progress: progress,
			NextDue:  prevDue,
			Changed:  false,
		}
	}
}
