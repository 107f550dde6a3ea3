package oracle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON unmarshals the first JSON object found in raw model output
// into v. Models occasionally wrap JSON in markdown fences or prose; both
// are tolerated.
func decodeJSON(text string, v any) error {
	payload, err := extractObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("decode oracle response: %w", err)
	}
	return nil
}

// extractObject returns the first balanced {...} object in the text.
// Braces inside JSON strings are accounted for.
func extractObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object in oracle response %q", truncate(text, 80))
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unterminated JSON object in oracle response %q", truncate(text, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
