package domain

// TaskType represents the kind of exercise generated for a word.
type TaskType string

const (
	TaskTypeTranslation    TaskType = "TRANSLATION"
	TaskTypeMultipleChoice TaskType = "MULTIPLE_CHOICE"
	TaskTypeFillBlank      TaskType = "FILL_BLANK"
)

func (t TaskType) String() string { return string(t) }

func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeTranslation, TaskTypeMultipleChoice, TaskTypeFillBlank:
		return true
	}
	return false
}

// AnswerClass is the terminal classification of one submitted answer.
// Every submission resolves to exactly one class.
type AnswerClass string

const (
	AnswerCorrect       AnswerClass = "CORRECT"
	AnswerMorphological AnswerClass = "MORPHOLOGICAL"
	AnswerSynonym       AnswerClass = "SYNONYM"
	AnswerIncorrect     AnswerClass = "INCORRECT"
)

func (c AnswerClass) String() string { return string(c) }

func (c AnswerClass) IsValid() bool {
	switch c {
	case AnswerCorrect, AnswerMorphological, AnswerSynonym, AnswerIncorrect:
		return true
	}
	return false
}

// Accepted reports whether the answer counts as accepted for the learner
// (everything except a plain wrong answer).
func (c AnswerClass) Accepted() bool { return c != AnswerIncorrect }

// ErrorCategory is the fixed taxonomy used when aggregating oracle error
// descriptions for translation answers.
type ErrorCategory string

const (
	ErrorCategoryGrammar     ErrorCategory = "grammar"
	ErrorCategoryPunctuation ErrorCategory = "punctuation"
	ErrorCategoryVocabulary  ErrorCategory = "vocabulary"
	ErrorCategoryStyle       ErrorCategory = "style"
	ErrorCategorySpelling    ErrorCategory = "spelling"
	ErrorCategoryWordGrammar ErrorCategory = "word_grammar"
	ErrorCategoryContext     ErrorCategory = "context"
	ErrorCategoryWordUsage   ErrorCategory = "word_usage"
	ErrorCategoryGeneral     ErrorCategory = "general"
)

func (c ErrorCategory) String() string { return string(c) }
