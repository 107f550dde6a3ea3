package training

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// distractorCount is how many wrong options a multiple-choice task carries
// next to the correct one.
const distractorCount = 2

// fallbackDistractors backfills the option set when the oracle returns
// fewer distractors than needed.
var fallbackDistractors = []string{"different", "another", "alternative", "other", "similar"}

// BuildTask materializes an exercise for the pair. The task type is drawn
// from the progress-bracket distribution; oracle failures degrade to
// context-free forms instead of propagating.
func (s *Service) BuildTask(ctx context.Context, pair domain.WordPair) (domain.Task, error) {
	return s.BuildTaskOfType(ctx, pair, PickTaskType(pair.Progress))
}

// BuildTaskOfType materializes an exercise of a specific type.
func (s *Service) BuildTaskOfType(ctx context.Context, pair domain.WordPair, taskType domain.TaskType) (domain.Task, error) {
	profile, err := s.profiles.GetByID(ctx, pair.UserID)
	if err != nil {
		return domain.Task{}, fmt.Errorf("get user profile: %w", err)
	}

	switch taskType {
	case domain.TaskTypeMultipleChoice:
		return s.buildMultipleChoice(ctx, pair), nil
	case domain.TaskTypeFillBlank:
		return s.buildFillBlank(ctx, pair, profile), nil
	default:
		return s.buildTranslation(ctx, pair, profile), nil
	}
}

// buildTranslation builds a sentence-translation task: the learner sees
// the native-language rendering and must produce the target-language
// sentence. When the oracle cannot produce a usable sentence, the task
// degrades to translating the bare word.
func (s *Service) buildTranslation(ctx context.Context, pair domain.WordPair, profile domain.UserProfile) domain.Task {
	root := domain.RootForm(pair.TargetWord)

	sentence, err := s.oracle.GenerateSentence(ctx, pair.TargetWord, pair.Language, profile.PreferredTopics)
	if err != nil {
		s.log.Warn("sentence generation failed, degrading to bare word",
			"word_id", pair.ID, "error", err)
		return s.bareTranslation(pair, root)
	}

	translated, err := s.oracle.Translate(ctx, sentence, pair.Language, profile.NativeLanguage)
	if err != nil {
		s.log.Warn("sentence translation failed, degrading to bare word",
			"word_id", pair.ID, "error", err)
		return s.bareTranslation(pair, root)
	}

	return domain.Task{
		ID:            domain.TaskID(domain.TaskTypeTranslation, pair.ID),
		WordID:        pair.ID,
		Type:          domain.TaskTypeTranslation,
		Instruction:   fmt.Sprintf("Translate this sentence into %s using the word you are practicing.", pair.Language),
		Sentence:      translated,
		Hint:          pair.NativeWord,
		CorrectIndex:  -1,
		CorrectAnswer: sentence,
	}
}

// bareTranslation is the no-sentence-context fallback.
func (s *Service) bareTranslation(pair domain.WordPair, root string) domain.Task {
	return domain.Task{
		ID:            domain.TaskID(domain.TaskTypeTranslation, pair.ID),
		WordID:        pair.ID,
		Type:          domain.TaskTypeTranslation,
		Instruction:   fmt.Sprintf("Translate this word into %s.", pair.Language),
		Hint:          pair.NativeWord,
		CorrectIndex:  -1,
		CorrectAnswer: root,
	}
}

// buildMultipleChoice builds a 3-option recognition task. Without a
// sentence it degrades to a context-free word choice; missing distractors
// are backfilled from the static list.
func (s *Service) buildMultipleChoice(ctx context.Context, pair domain.WordPair) domain.Task {
	root := domain.RootForm(pair.TargetWord)

	var blanked string
	sentence, err := s.oracle.GenerateSentence(ctx, pair.TargetWord, pair.Language, nil)
	if err != nil {
		s.log.Warn("sentence generation failed, building context-free choice task",
			"word_id", pair.ID, "error", err)
	} else {
		blanked = domain.BlankWord(sentence, root)
	}

	distractors, err := s.oracle.GenerateDistractors(ctx, pair.TargetWord, pair.Language, distractorCount)
	if err != nil {
		s.log.Warn("distractor generation failed, using fallback options",
			"word_id", pair.ID, "error", err)
	}

	options, correctIndex := assembleOptions(root, distractors)

	instruction := fmt.Sprintf("Choose the %s word that fits the blank.", pair.Language)
	if blanked == "" {
		instruction = fmt.Sprintf("Choose the %s translation of the hinted word.", pair.Language)
	}

	return domain.Task{
		ID:            domain.TaskID(domain.TaskTypeMultipleChoice, pair.ID),
		WordID:        pair.ID,
		Type:          domain.TaskTypeMultipleChoice,
		Instruction:   instruction,
		Sentence:      blanked,
		Hint:          pair.NativeWord,
		Options:       options,
		CorrectIndex:  correctIndex,
		CorrectAnswer: root,
	}
}

// buildFillBlank builds a typed-recall task on a blanked sentence. Without
// a sentence there is nothing to blank, so it degrades to the translation
// construction path.
func (s *Service) buildFillBlank(ctx context.Context, pair domain.WordPair, profile domain.UserProfile) domain.Task {
	root := domain.RootForm(pair.TargetWord)

	sentence, err := s.oracle.GenerateSentence(ctx, pair.TargetWord, pair.Language, profile.PreferredTopics)
	if err != nil {
		s.log.Warn("sentence generation failed, degrading fill-blank to translation",
			"word_id", pair.ID, "error", err)
		return s.bareTranslation(pair, root)
	}

	return domain.Task{
		ID:            domain.TaskID(domain.TaskTypeFillBlank, pair.ID),
		WordID:        pair.ID,
		Type:          domain.TaskTypeFillBlank,
		Instruction:   "Type the missing word.",
		Sentence:      domain.BlankWord(sentence, root),
		Hint:          pair.NativeWord,
		CorrectIndex:  -1,
		CorrectAnswer: root,
	}
}

// assembleOptions builds the shuffled option set {correct + distractors},
// deduplicated case-insensitively and backfilled from the static list up
// to distractorCount wrong options. Returns the options and the index of
// the correct one.
func assembleOptions(correct string, distractors []string) ([]string, int) {
	options := []string{correct}
	seen := map[string]bool{domain.NormalizeAnswer(correct): true}

	add := func(candidates []string) {
		for _, c := range candidates {
			if len(options) > distractorCount {
				return
			}
			key := domain.NormalizeAnswer(c)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			options = append(options, c)
		}
	}

	add(distractors)
	add(fallbackDistractors)

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, opt := range options {
		if opt == correct {
			correctIndex = i
			break
		}
	}

	return options, correctIndex
}
