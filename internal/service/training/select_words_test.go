package training

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

func pairsWithDue(userID uuid.UUID, n int) []domain.WordPair {
	pairs := make([]domain.WordPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, testPair(userID, 0))
	}
	return pairs
}

func TestSelectWords_PrefersOverdue(t *testing.T) {
	userID := uuid.New()
	words := newFakeWords()
	words.due = pairsWithDue(userID, 5)
	words.notDue = pairsWithDue(userID, 5)

	s := newTestService(words, &fakeErrors{}, &fakeOracle{})

	got, err := s.SelectWords(context.Background(), userID, "es", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d words, want 3", len(got))
	}

	dueIDs := map[uuid.UUID]bool{}
	for _, p := range words.due {
		dueIDs[p.ID] = true
	}
	for _, p := range got {
		if !dueIDs[p.ID] {
			t.Errorf("selected non-overdue word %s while enough were overdue", p.ID)
		}
	}
}

func TestSelectWords_FillsFromFallbackPool(t *testing.T) {
	userID := uuid.New()
	words := newFakeWords()
	words.due = pairsWithDue(userID, 2)
	words.notDue = pairsWithDue(userID, 10)

	s := newTestService(words, &fakeErrors{}, &fakeOracle{})

	got, err := s.SelectWords(context.Background(), userID, "es", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d words, want 5", len(got))
	}

	// Overdue words come first.
	if got[0].ID != words.due[0].ID || got[1].ID != words.due[1].ID {
		t.Error("overdue words were not selected first")
	}
}

func TestSelectWords_NoDuplicates(t *testing.T) {
	userID := uuid.New()
	words := newFakeWords()
	words.due = pairsWithDue(userID, 3)
	// The fallback pool overlaps the overdue set (the store's pool holds
	// every pair not due exactly today, including overdue ones).
	words.notDue = append(append([]domain.WordPair{}, words.due...), pairsWithDue(userID, 3)...)

	s := newTestService(words, &fakeErrors{}, &fakeOracle{})

	got, err := s.SelectWords(context.Background(), userID, "es", 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := map[uuid.UUID]bool{}
	for _, p := range got {
		if seen[p.ID] {
			t.Fatalf("duplicate word %s in selection", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestSelectWords_ReturnsFewerWhenShort(t *testing.T) {
	userID := uuid.New()
	words := newFakeWords()
	words.due = pairsWithDue(userID, 1)
	words.notDue = pairsWithDue(userID, 1)

	s := newTestService(words, &fakeErrors{}, &fakeOracle{})

	got, err := s.SelectWords(context.Background(), userID, "es", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d words, want 2", len(got))
	}
}

func TestSelectWords_NoWordsAtAll(t *testing.T) {
	userID := uuid.New()
	s := newTestService(newFakeWords(), &fakeErrors{}, &fakeOracle{})

	_, err := s.SelectWords(context.Background(), userID, "es", 5)
	if !errors.Is(err, domain.ErrNoWords) {
		t.Fatalf("expected ErrNoWords, got: %v", err)
	}
}

func TestSelectWords_InvalidLimit(t *testing.T) {
	s := newTestService(newFakeWords(), &fakeErrors{}, &fakeOracle{})

	_, err := s.SelectWords(context.Background(), uuid.New(), "es", 0)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestSamplePairs_Properties(t *testing.T) {
	pairs := pairsWithDue(uuid.New(), 20)

	got := samplePairs(pairs, 7)
	if len(got) != 7 {
		t.Fatalf("sample size = %d, want 7", len(got))
	}

	seen := map[uuid.UUID]bool{}
	for _, p := range got {
		if seen[p.ID] {
			t.Fatal("duplicate in sample")
		}
		seen[p.ID] = true
	}

	// Requesting more than available returns everything.
	all := samplePairs(pairs, 50)
	if len(all) != len(pairs) {
		t.Errorf("sample size = %d, want %d", len(all), len(pairs))
	}
}
