package training

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// SelectWords picks up to limit word pairs to practice, preferring
// overdue pairs. When fewer than limit are overdue, the remainder is
// sampled from pairs whose due day is not today; future-dated pairs may
// be re-selected ahead of schedule. Returns domain.ErrNoWords when the
// user has no pairs at all for the language.
func (s *Service) SelectWords(ctx context.Context, userID uuid.UUID, language string, limit int) ([]domain.WordPair, error) {
	if limit <= 0 {
		return nil, domain.NewValidationError("limit", "must be positive")
	}

	today := s.today()

	overdue, err := s.words.ListDue(ctx, userID, language, today)
	if err != nil {
		return nil, fmt.Errorf("list due words: %w", err)
	}

	if len(overdue) >= limit {
		return samplePairs(overdue, limit), nil
	}

	selected := make([]domain.WordPair, len(overdue))
	copy(selected, overdue)

	taken := make(map[uuid.UUID]bool, len(selected))
	for _, p := range selected {
		taken[p.ID] = true
	}

	pool, err := s.words.ListNotDueOn(ctx, userID, language, today)
	if err != nil {
		return nil, fmt.Errorf("list fallback words: %w", err)
	}

	fresh := pool[:0:0]
	for _, p := range pool {
		if !taken[p.ID] {
			fresh = append(fresh, p)
		}
	}

	selected = append(selected, samplePairs(fresh, limit-len(selected))...)

	if len(selected) == 0 {
		return nil, fmt.Errorf("user %s language %s: %w", userID, language, domain.ErrNoWords)
	}

	return selected, nil
}

// samplePairs returns a uniform random sample of size min(n, len(pairs))
// without replacement. The input slice is not modified.
func samplePairs(pairs []domain.WordPair, n int) []domain.WordPair {
	if n >= len(pairs) {
		out := make([]domain.WordPair, len(pairs))
		copy(out, pairs)
		return out
	}

	idx := rand.Perm(len(pairs))
	out := make([]domain.WordPair, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pairs[i])
	}
	return out
}
