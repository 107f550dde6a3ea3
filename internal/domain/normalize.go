package domain

import (
	"regexp"
	"strings"
)

// NormalizeAnswer prepares an answer for comparison: trims whitespace and
// lowercases. Diacritics, hyphens, and apostrophes are preserved.
func NormalizeAnswer(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

var parenAnnotation = regexp.MustCompile(`\s*\([^)]*\)`)

// RootForm strips grammatical annotations from a dictionary headword:
// parenthetical notes such as "run (to)" or "fahren (nach D.)" become
// "run" and "fahren". The result is what generated sentences are checked
// against.
func RootForm(word string) string {
	return strings.TrimSpace(parenAnnotation.ReplaceAllString(word, ""))
}

// wordPattern builds a case-insensitive whole-word pattern for w.
func wordPattern(w string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
}

// ContainsWord reports whether sentence contains word as a whole word,
// case-insensitively. Malformed words (empty after trimming) never match.
func ContainsWord(sentence, word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	re, err := wordPattern(word)
	if err != nil {
		return false
	}
	return re.MatchString(sentence)
}

// Blank is the placeholder substituted for the target word in exercise
// sentences.
const Blank = "_____"

// BlankWord replaces every whole-word, case-insensitive occurrence of
// word in sentence with the blank placeholder. If the word does not
// occur, the sentence is returned unchanged.
func BlankWord(sentence, word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return sentence
	}
	re, err := wordPattern(word)
	if err != nil {
		return sentence
	}
	return re.ReplaceAllString(sentence, Blank)
}
