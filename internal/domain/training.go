package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task is a single exercise instance derived from one WordPair. Tasks are
// built on demand and discarded once the answer is scored.
type Task struct {
	// ID encodes the task type and the word it was built from,
	// e.g. "fill_8c6e...". See ParseTaskID.
	ID          string
	WordID      uuid.UUID
	Type        TaskType
	Instruction string
	// Sentence is the learner-facing sentence: blanked target-language
	// sentence for multiple-choice and fill-blank tasks, the native-language
	// translation to render for translation tasks. Empty when sentence
	// generation failed and the task degraded to a context-free form.
	Sentence string
	// Hint is the native-language gloss of the target word.
	Hint string
	// Options is the shuffled multiple-choice option set; nil for other
	// task types. CorrectIndex is -1 when there are no options.
	Options      []string
	CorrectIndex int
	// CorrectAnswer is the reference answer used for scoring. It is never
	// shown to the learner before submission.
	CorrectAnswer string
}

// Task ID prefixes per task type.
const (
	taskPrefixTranslation    = "trans"
	taskPrefixMultipleChoice = "mc"
	taskPrefixFillBlank      = "fill"
)

// TaskID builds the task identifier for a type + word pair.
func TaskID(t TaskType, wordID uuid.UUID) string {
	return fmt.Sprintf("%s_%s", taskPrefix(t), wordID)
}

func taskPrefix(t TaskType) string {
	switch t {
	case TaskTypeMultipleChoice:
		return taskPrefixMultipleChoice
	case TaskTypeFillBlank:
		return taskPrefixFillBlank
	default:
		return taskPrefixTranslation
	}
}

// ParseTaskID splits a task identifier into its task type and word ID.
func ParseTaskID(id string) (TaskType, uuid.UUID, error) {
	prefix, rest, ok := strings.Cut(id, "_")
	if !ok {
		return "", uuid.Nil, NewValidationError("task_id", "malformed task id")
	}

	wordID, err := uuid.Parse(rest)
	if err != nil {
		return "", uuid.Nil, NewValidationError("task_id", "malformed word id")
	}

	switch prefix {
	case taskPrefixTranslation:
		return TaskTypeTranslation, wordID, nil
	case taskPrefixMultipleChoice:
		return TaskTypeMultipleChoice, wordID, nil
	case taskPrefixFillBlank:
		return TaskTypeFillBlank, wordID, nil
	default:
		return "", uuid.Nil, NewValidationError("task_id", "unknown task type")
	}
}

// AnswerOutcome is the result of scoring one submitted answer.
type AnswerOutcome struct {
	Class       AnswerClass
	Explanation string
	// ErrorCategories is the aggregated, deduplicated category set for
	// translation answers judged incorrect. Empty otherwise.
	ErrorCategories []ErrorCategory
	NewProgress     int
	NextDue         time.Time
}
