package training

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/adapter/oracle"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// Fill-blank acceptability thresholds on the oracle's 1..10 scale.
const (
	fillScoreCorrect  = 9
	fillScoreNearMiss = 7
	fillScoreMorph    = 6
)

// verdict is the classification result before the schedule is applied.
type verdict struct {
	class        domain.AnswerClass
	explanation  string
	categories   []domain.ErrorCategory
	descriptions []string
}

// ScoreAndApply classifies the submitted answer, records error
// descriptions for wrong answers, applies the progress/schedule policy,
// and persists the result. Oracle failures never surface: classification
// degrades to a lexical comparison so the learner always gets a verdict.
func (s *Service) ScoreAndApply(ctx context.Context, userID uuid.UUID, task domain.Task, answer string) (domain.AnswerOutcome, error) {
	pair, err := s.words.GetByID(ctx, userID, task.WordID)
	if err != nil {
		return domain.AnswerOutcome{}, fmt.Errorf("get word pair: %w", err)
	}

	v := s.classify(ctx, pair, task, answer)

	if v.class == domain.AnswerIncorrect {
		s.recordErrors(ctx, userID, pair.Language, v.descriptions)
	}

	today := s.today()
	upd := NextSchedule(pair.Progress, v.class, pair.NextDue, today)

	err = s.retry.Do(ctx, func(ctx context.Context) error {
		return s.words.UpdateProgress(ctx, userID, pair.ID, upd.Progress, s.now(), upd.NextDue)
	})
	if err != nil {
		return domain.AnswerOutcome{}, fmt.Errorf("update word progress: %w", err)
	}

	return domain.AnswerOutcome{
		Class:           v.class,
		Explanation:     v.explanation,
		ErrorCategories: v.categories,
		NewProgress:     upd.Progress,
		NextDue:         upd.NextDue,
	}, nil
}

// classify runs the scoring state machine: exact match, then the
// per-task-type oracle pipeline, then the lexical fallback.
func (s *Service) classify(ctx context.Context, pair domain.WordPair, task domain.Task, answer string) verdict {
	submitted := domain.NormalizeAnswer(answer)
	expected := domain.NormalizeAnswer(task.CorrectAnswer)

	if submitted != "" && submitted == expected {
		return verdict{class: domain.AnswerCorrect, explanation: "Exact match."}
	}

	switch task.Type {
	case domain.TaskTypeTranslation:
		return s.classifyTranslation(ctx, pair, task, answer, submitted, expected)
	case domain.TaskTypeFillBlank:
		return s.classifyFillBlank(ctx, pair, task, answer, submitted, expected)
	default:
		return lexicalVerdict(submitted, expected)
	}
}

// classifyTranslation runs the three-stage pipeline: proofread the whole
// sentence, check the target word's usage, combine.
func (s *Service) classifyTranslation(ctx context.Context, pair domain.WordPair, task domain.Task, answer, submitted, expected string) verdict {
	proof, err := s.oracle.ProofreadSentence(ctx, answer, pair.Language)
	if err != nil {
		s.log.Warn("proofread failed, using lexical fallback", "word_id", pair.ID, "error", err)
		return lexicalVerdict(submitted, expected)
	}

	usage, err := s.oracle.CheckWordUsage(ctx, answer, pair.TargetWord, pair.Language)
	if err != nil {
		s.log.Warn("word usage check failed, using lexical fallback", "word_id", pair.ID, "error", err)
		return lexicalVerdict(submitted, expected)
	}

	if !proof.HasErrors && usage.OverallOK {
		return verdict{class: domain.AnswerCorrect, explanation: "Your translation is correct."}
	}

	if usage.SpellingOK && usage.GrammarOK && !usage.OverallOK {
		return verdict{
			class:       domain.AnswerMorphological,
			explanation: "Almost: the word is right but its form does not fit this sentence.",
		}
	}

	descriptions := append(append([]string{}, proof.Errors...), usage.Errors...)
	explanation := "Incorrect."
	if proof.Corrected != "" {
		explanation = fmt.Sprintf("Incorrect. A correct version: %s", proof.Corrected)
	}

	return verdict{
		class:        domain.AnswerIncorrect,
		explanation:  explanation,
		categories:   aggregateCategories(proof.Errors, usage.Errors),
		descriptions: descriptions,
	}
}

// classifyFillBlank maps the oracle's 1..10 acceptability score onto the
// outcome classes.
func (s *Service) classifyFillBlank(ctx context.Context, pair domain.WordPair, task domain.Task, answer, submitted, expected string) verdict {
	assessment, err := s.oracle.ScoreAnswer(ctx, oracle.ScoreRequest{
		Language: pair.Language,
		Expected: task.CorrectAnswer,
		Actual:   answer,
		Context:  task.Sentence,
	})
	if err != nil {
		s.log.Warn("answer scoring failed, using lexical fallback", "word_id", pair.ID, "error", err)
		return lexicalVerdict(submitted, expected)
	}

	switch {
	case assessment.Score >= fillScoreCorrect:
		return verdict{class: domain.AnswerCorrect, explanation: "Correct."}

	case assessment.Score >= fillScoreNearMiss && assessment.Tag == oracle.TagSynonym:
		return verdict{
			class:       domain.AnswerSynonym,
			explanation: fmt.Sprintf("Accepted as a synonym of %q.", task.CorrectAnswer),
		}

	case assessment.Score >= fillScoreNearMiss && assessment.Tag == oracle.TagMorphological,
		assessment.Score >= fillScoreMorph:
		return verdict{
			class:       domain.AnswerMorphological,
			explanation: fmt.Sprintf("Close: the expected form was %q.", task.CorrectAnswer),
		}

	default:
		return verdict{
			class:        domain.AnswerIncorrect,
			explanation:  fmt.Sprintf("Incorrect. The expected answer was %q.", task.CorrectAnswer),
			descriptions: assessment.Errors,
		}
	}
}

// lexicalVerdict is the oracle-free fallback: substring containment in
// either direction counts as a morphological near-miss.
func lexicalVerdict(submitted, expected string) verdict {
	if submitted != "" && expected != "" &&
		(strings.Contains(expected, submitted) || strings.Contains(submitted, expected)) {
		return verdict{
			class:       domain.AnswerMorphological,
			explanation: "Close: your answer matches part of the expected one.",
		}
	}
	return verdict{class: domain.AnswerIncorrect, explanation: "Incorrect."}
}

// recordErrors increments the aggregated per-description counters. A
// store failure here only loses statistics, so it is logged, not
// surfaced.
func (s *Service) recordErrors(ctx context.Context, userID uuid.UUID, language string, descriptions []string) {
	for _, d := range descriptions {
		if _, err := s.errors.IncrementOrCreate(ctx, userID, language, d); err != nil {
			s.log.Warn("record training error failed", "user_id", userID, "error", err)
		}
	}
}
