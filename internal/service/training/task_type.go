package training

import (
	"math/rand/v2"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// typeWeights is one progress bracket's categorical distribution over
// task types. Order: multiple choice, fill blank, translation.
type typeWeights struct {
	lo, hi  int
	weights [3]float64
}

var taskTypeOrder = [3]domain.TaskType{
	domain.TaskTypeMultipleChoice,
	domain.TaskTypeFillBlank,
	domain.TaskTypeTranslation,
}

// Recognition tasks dominate early; free recall takes over with mastery.
var typeBrackets = []typeWeights{
	{0, 41, [3]float64{0.35, 0.30, 0.35}},
	{42, 70, [3]float64{0.20, 0.30, 0.50}},
	{71, 100, [3]float64{0.10, 0.30, 0.60}},
}

// PickTaskType draws a task type from the weighted distribution for the
// word's progress bracket, using the process-wide random source.
func PickTaskType(progress int) domain.TaskType {
	return pickTaskType(progress, rand.Float64)
}

// pickTaskType is the seedable variant: randFloat must return values in
// [0, 1).
func pickTaskType(progress int, randFloat func() float64) domain.TaskType {
	for _, b := range typeBrackets {
		if progress < b.lo || progress > b.hi {
			continue
		}

		r := randFloat()
		acc := 0.0
		for i, w := range b.weights {
			acc += w
			if r < acc {
				return taskTypeOrder[i]
			}
		}
		// Guard against accumulated float error.
		return taskTypeOrder[len(taskTypeOrder)-1]
	}

	// Out of every bracket (progress outside [0,100]): free recall.
	return domain.TaskTypeTranslation
}
