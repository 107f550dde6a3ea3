package training

import (
	"strings"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// Keyword tables mapping free-text oracle error descriptions onto the
// fixed category taxonomy. Matching is a substring heuristic; first hit
// wins, unmatched text falls through to a stage default.

var proofreadKeywords = []struct {
	keyword  string
	category domain.ErrorCategory
}{
	{"punctuat", domain.ErrorCategoryPunctuation},
	{"comma", domain.ErrorCategoryPunctuation},
	{"period", domain.ErrorCategoryPunctuation},
	{"spell", domain.ErrorCategorySpelling},
	{"typo", domain.ErrorCategorySpelling},
	{"conjugat", domain.ErrorCategoryGrammar},
	{"tense", domain.ErrorCategoryGrammar},
	{"agreement", domain.ErrorCategoryGrammar},
	{"article", domain.ErrorCategoryGrammar},
	{"grammar", domain.ErrorCategoryGrammar},
	{"grammat", domain.ErrorCategoryGrammar},
	{"word choice", domain.ErrorCategoryVocabulary},
	{"vocabulary", domain.ErrorCategoryVocabulary},
	{"wrong word", domain.ErrorCategoryVocabulary},
	{"style", domain.ErrorCategoryStyle},
	{"awkward", domain.ErrorCategoryStyle},
	{"unnatural", domain.ErrorCategoryStyle},
	{"context", domain.ErrorCategoryContext},
	{"usage", domain.ErrorCategoryWordUsage},
}

var usageKeywords = []struct {
	keyword  string
	category domain.ErrorCategory
}{
	{"spell", domain.ErrorCategorySpelling},
	{"typo", domain.ErrorCategorySpelling},
	{"inflect", domain.ErrorCategoryWordGrammar},
	{"form", domain.ErrorCategoryWordGrammar},
	{"conjugat", domain.ErrorCategoryWordGrammar},
	{"grammar", domain.ErrorCategoryWordGrammar},
	{"grammat", domain.ErrorCategoryWordGrammar},
	{"context", domain.ErrorCategoryContext},
	{"meaning", domain.ErrorCategoryContext},
}

// categorizeProofread maps a sentence-level error description to a
// category; unmatched descriptions are general.
func categorizeProofread(description string) domain.ErrorCategory {
	d := strings.ToLower(description)
	for _, k := range proofreadKeywords {
		if strings.Contains(d, k.keyword) {
			return k.category
		}
	}
	return domain.ErrorCategoryGeneral
}

// categorizeUsage maps a target-word error description to a category;
// unmatched descriptions default to word_usage.
func categorizeUsage(description string) domain.ErrorCategory {
	d := strings.ToLower(description)
	for _, k := range usageKeywords {
		if strings.Contains(d, k.keyword) {
			return k.category
		}
	}
	return domain.ErrorCategoryWordUsage
}

// aggregateCategories categorizes both error lists and deduplicates the
// result, preserving first-seen order.
func aggregateCategories(proofreadErrors, usageErrors []string) []domain.ErrorCategory {
	seen := make(map[domain.ErrorCategory]bool)
	var out []domain.ErrorCategory

	add := func(c domain.ErrorCategory) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, e := range proofreadErrors {
		add(categorizeProofread(e))
	}
	for _, e := range usageErrors {
		add(categorizeUsage(e))
	}

	return out
}
