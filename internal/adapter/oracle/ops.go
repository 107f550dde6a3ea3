package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// Match type tags ScoreAnswer may attach to a near-miss answer.
const (
	TagNone          = "none"
	TagSynonym       = "synonym"
	TagMorphological = "morphological"
)

// Assessment is the oracle's judgement of a learner answer.
type Assessment struct {
	Score  int      // 1..10
	Tag    string   // TagNone, TagSynonym, or TagMorphological
	Errors []string // learner error descriptions, empty when clean
}

// ProofreadResult is the structured verdict for a whole sentence.
type ProofreadResult struct {
	HasErrors   bool
	Errors      []string
	Corrected   string
	QualityTier string // "good", "acceptable", or "poor"
}

// UsageResult is the structured verdict on how the target word was used.
type UsageResult struct {
	Present    bool
	SpellingOK bool
	GrammarOK  bool
	ContextOK  bool
	OverallOK  bool
	Errors     []string
}

// generationAttempts bounds how many sentences are requested before
// giving up when the word never appears in the output.
const generationAttempts = 2

const generateSentenceSystem = `You are a language teacher writing practice material.
Reply with a single natural sentence and nothing else. No quotes, no explanations.`

const translateSystem = `You are a professional translator.
Reply with the translation only. No quotes, no explanations.`

const scoreAnswerSystem = `You are a strict language examiner grading a learner's answer against a reference.
Reply with JSON only, in the form:
{"score": <integer 1-10>, "tag": "<none|synonym|morphological>", "errors": ["<short error description>", ...]}
Score 10 means a perfect match in meaning and form. Use tag "synonym" when the
answer uses a valid synonym of the expected word, "morphological" when it uses
the right word in the wrong form, and "none" otherwise. List each concrete
mistake (grammar, spelling, punctuation, vocabulary, word usage) as a short
phrase; use an empty list for a clean answer.`

const proofreadSystem = `You are a proofreader for language learners checking grammar, punctuation, vocabulary, and style.
Reply with JSON only, in the form:
{"has_errors": <true|false>, "errors": ["<short error description>", ...], "corrected": "<corrected sentence>", "quality": "<good|acceptable|poor>"}
List each concrete mistake as a short phrase; use an empty list and the
original sentence as "corrected" when the sentence is already correct.`

const wordUsageSystem = `You are a language teacher checking how a specific target word was used in a learner's sentence.
Reply with JSON only, in the form:
{"present": <true|false>, "spelling_ok": <true|false>, "grammar_ok": <true|false>, "context_ok": <true|false>, "overall_ok": <true|false>, "errors": ["<short error description>", ...]}
"present" means the word (in some form) appears; "spelling_ok" that it is
spelled correctly; "grammar_ok" that it is correctly inflected for the
sentence; "context_ok" that its meaning fits; "overall_ok" that the usage
as a whole is correct.`

const distractorsSystem = `You are a language teacher preparing a multiple-choice vocabulary exercise.
Reply with JSON only, in the form:
{"options": ["<word>", ...]}
Every option must be a single real word of the requested language, the same
part of speech as the target word, plausible but clearly wrong as its
translation, and distinct from the target word. When two options are
requested, make one antonym-like and one semantically neutral.`

// GenerateSentence produces one sentence in the given language that uses
// the word. The output is verified to contain the word's root form as a
// whole word; once the retry attempts are exhausted the operation fails.
func (c *Client) GenerateSentence(ctx context.Context, word, language string, topics []string) (string, error) {
	root := domain.RootForm(word)

	prompt := fmt.Sprintf("Write one simple sentence in %s (8-14 words) using the word %q.", language, root)
	if len(topics) > 0 {
		prompt += fmt.Sprintf(" Prefer these topics: %s.", strings.Join(topics, ", "))
	}

	var lastErr error
	for attempt := 0; attempt < generationAttempts; attempt++ {
		text, err := c.chat(ctx, c.generationModel, generateSentenceSystem, prompt, 0.7)
		if err != nil {
			return "", oracleErr("generate sentence", err)
		}

		sentence := strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
		if domain.ContainsWord(sentence, root) {
			return sentence, nil
		}
		lastErr = fmt.Errorf("sentence does not contain %q", root)
	}

	return "", oracleErr("generate sentence", lastErr)
}

// Translate renders a sentence from one language into another.
func (c *Client) Translate(ctx context.Context, sentence, fromLanguage, toLanguage string) (string, error) {
	prompt := fmt.Sprintf("Translate from %s to %s:\n%s", fromLanguage, toLanguage, sentence)

	text, err := c.chat(ctx, c.generationModel, translateSystem, prompt, 0.3)
	if err != nil {
		return "", oracleErr("translate", err)
	}

	translated := strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if translated == "" {
		return "", oracleErr("translate", errors.New("empty translation"))
	}

	return translated, nil
}

// ScoreRequest describes one answer to grade.
type ScoreRequest struct {
	Language string
	Expected string // the reference answer
	Actual   string // what the learner wrote
	Context  string // optional surrounding sentence or task text
}

// ScoreAnswer grades the learner's answer on a 1..10 scale with a match
// type tag and error descriptions.
func (c *Client) ScoreAnswer(ctx context.Context, req ScoreRequest) (Assessment, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Language: %s\n", req.Language)
	if req.Context != "" {
		fmt.Fprintf(&sb, "Task context: %s\n", req.Context)
	}
	fmt.Fprintf(&sb, "Expected answer: %s\n", req.Expected)
	fmt.Fprintf(&sb, "Learner answer: %s\n", req.Actual)

	text, err := c.chat(ctx, c.analysisModel, scoreAnswerSystem, sb.String(), 0)
	if err != nil {
		return Assessment{}, oracleErr("score answer", err)
	}

	var payload struct {
		Score  int      `json:"score"`
		Tag    string   `json:"tag"`
		Errors []string `json:"errors"`
	}
	if err := decodeJSON(text, &payload); err != nil {
		return Assessment{}, oracleErr("score answer", err)
	}

	if payload.Score < 1 || payload.Score > 10 {
		return Assessment{}, oracleErr("score answer", fmt.Errorf("score %d out of range", payload.Score))
	}

	tag := payload.Tag
	if tag != TagSynonym && tag != TagMorphological {
		tag = TagNone
	}

	return Assessment{
		Score:  payload.Score,
		Tag:    tag,
		Errors: cleanStrings(payload.Errors),
	}, nil
}

// ProofreadSentence judges whether the sentence is correct in the given
// language, returning the error list, a corrected version, and a quality
// tier.
func (c *Client) ProofreadSentence(ctx context.Context, sentence, language string) (ProofreadResult, error) {
	prompt := fmt.Sprintf("Language: %s\nSentence: %s", language, sentence)

	text, err := c.chat(ctx, c.analysisModel, proofreadSystem, prompt, 0)
	if err != nil {
		return ProofreadResult{}, oracleErr("proofread sentence", err)
	}

	var payload struct {
		HasErrors bool     `json:"has_errors"`
		Errors    []string `json:"errors"`
		Corrected string   `json:"corrected"`
		Quality   string   `json:"quality"`
	}
	if err := decodeJSON(text, &payload); err != nil {
		return ProofreadResult{}, oracleErr("proofread sentence", err)
	}

	return ProofreadResult{
		HasErrors:   payload.HasErrors || len(cleanStrings(payload.Errors)) > 0,
		Errors:      cleanStrings(payload.Errors),
		Corrected:   strings.TrimSpace(payload.Corrected),
		QualityTier: strings.TrimSpace(payload.Quality),
	}, nil
}

// CheckWordUsage judges whether the word is present, correctly spelled,
// correctly inflected, and contextually appropriate in the sentence.
func (c *Client) CheckWordUsage(ctx context.Context, sentence, word, language string) (UsageResult, error) {
	prompt := fmt.Sprintf("Language: %s\nWord: %s\nSentence: %s", language, domain.RootForm(word), sentence)

	text, err := c.chat(ctx, c.analysisModel, wordUsageSystem, prompt, 0)
	if err != nil {
		return UsageResult{}, oracleErr("check word usage", err)
	}

	var payload struct {
		Present    bool     `json:"present"`
		SpellingOK bool     `json:"spelling_ok"`
		GrammarOK  bool     `json:"grammar_ok"`
		ContextOK  bool     `json:"context_ok"`
		OverallOK  bool     `json:"overall_ok"`
		Errors     []string `json:"errors"`
	}
	if err := decodeJSON(text, &payload); err != nil {
		return UsageResult{}, oracleErr("check word usage", err)
	}

	return UsageResult{
		Present:    payload.Present,
		SpellingOK: payload.SpellingOK,
		GrammarOK:  payload.GrammarOK,
		ContextOK:  payload.ContextOK,
		OverallOK:  payload.OverallOK,
		Errors:     cleanStrings(payload.Errors),
	}, nil
}

// GenerateDistractors produces count wrong options for a multiple-choice
// task on the word. Returns fewer than count only if the oracle output,
// after filtering out the word itself and duplicates, comes up short.
func (c *Client) GenerateDistractors(ctx context.Context, word, language string, count int) ([]string, error) {
	prompt := fmt.Sprintf("Target word: %s\nLanguage: %s\nNumber of options: %d", domain.RootForm(word), language, count)

	text, err := c.chat(ctx, c.generationModel, distractorsSystem, prompt, 0.7)
	if err != nil {
		return nil, oracleErr("generate distractors", err)
	}

	var payload struct {
		Options []string `json:"options"`
	}
	if err := decodeJSON(text, &payload); err != nil {
		return nil, oracleErr("generate distractors", err)
	}

	target := domain.NormalizeAnswer(domain.RootForm(word))
	seen := make(map[string]bool, count)
	options := make([]string, 0, count)
	for _, opt := range payload.Options {
		opt = strings.TrimSpace(opt)
		key := domain.NormalizeAnswer(opt)
		if opt == "" || key == target || seen[key] {
			continue
		}
		seen[key] = true
		options = append(options, opt)
		if len(options) == count {
			break
		}
	}

	if len(options) == 0 {
		return nil, oracleErr("generate distractors", errors.New("no usable options"))
	}

	return options, nil
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
