package training

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/adapter/oracle"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// testDay is the fixed "today" all engine tests run on.
var testDay = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type progressUpdate struct {
	Progress      int
	LastPracticed time.Time
	NextDue       time.Time
}

type fakeWords struct {
	pairs   map[uuid.UUID]domain.WordPair
	due     []domain.WordPair
	notDue  []domain.WordPair
	updates map[uuid.UUID]progressUpdate
}

func newFakeWords(pairs ...domain.WordPair) *fakeWords {
	f := &fakeWords{
		pairs:   make(map[uuid.UUID]domain.WordPair),
		updates: make(map[uuid.UUID]progressUpdate),
	}
	for _, p := range pairs {
		f.pairs[p.ID] = p
	}
	return f
}

func (f *fakeWords) GetByID(_ context.Context, userID, pairID uuid.UUID) (domain.WordPair, error) {
	p, ok := f.pairs[pairID]
	if !ok || p.UserID != userID {
		return domain.WordPair{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeWords) ListDue(_ context.Context, _ uuid.UUID, _ string, _ time.Time) ([]domain.WordPair, error) {
	return f.due, nil
}

func (f *fakeWords) ListNotDueOn(_ context.Context, _ uuid.UUID, _ string, _ time.Time) ([]domain.WordPair, error) {
	return f.notDue, nil
}

func (f *fakeWords) UpdateProgress(_ context.Context, _, pairID uuid.UUID, progress int, lastPracticed, nextDue time.Time) error {
	f.updates[pairID] = progressUpdate{Progress: progress, LastPracticed: lastPracticed, NextDue: nextDue}
	return nil
}

type fakeErrors struct {
	recorded []string
}

func (f *fakeErrors) IncrementOrCreate(_ context.Context, _ uuid.UUID, _, description string) (domain.ErrorRecord, error) {
	f.recorded = append(f.recorded, description)
	return domain.ErrorRecord{Description: description, Count: 1}, nil
}

type fakeProfiles struct {
	profile domain.UserProfile
}

func (f *fakeProfiles) GetByID(_ context.Context, _ uuid.UUID) (domain.UserProfile, error) {
	return f.profile, nil
}

// fakeOracle returns scripted values; set an err field to fail that call.
type fakeOracle struct {
	sentence    string
	sentenceErr error

	translation  string
	translateErr error

	assessment oracle.Assessment
	assessErr  error

	proof    oracle.ProofreadResult
	proofErr error

	usage    oracle.UsageResult
	usageErr error

	distractors    []string
	distractorsErr error
}

// failingOracle fails every call.
func failingOracle() *fakeOracle {
	down := errors.Join(domain.ErrOracle, errors.New("oracle down"))
	return &fakeOracle{
		sentenceErr:    down,
		translateErr:   down,
		assessErr:      down,
		proofErr:       down,
		usageErr:       down,
		distractorsErr: down,
	}
}

func (f *fakeOracle) GenerateSentence(_ context.Context, _, _ string, _ []string) (string, error) {
	return f.sentence, f.sentenceErr
}

func (f *fakeOracle) Translate(_ context.Context, _, _, _ string) (string, error) {
	return f.translation, f.translateErr
}

func (f *fakeOracle) ScoreAnswer(_ context.Context, _ oracle.ScoreRequest) (oracle.Assessment, error) {
	return f.assessment, f.assessErr
}

func (f *fakeOracle) ProofreadSentence(_ context.Context, _, _ string) (oracle.ProofreadResult, error) {
	return f.proof, f.proofErr
}

func (f *fakeOracle) CheckWordUsage(_ context.Context, _, _, _ string) (oracle.UsageResult, error) {
	return f.usage, f.usageErr
}

func (f *fakeOracle) GenerateDistractors(_ context.Context, _, _ string, _ int) ([]string, error) {
	return f.distractors, f.distractorsErr
}

// noRetry runs the operation exactly once.
type noRetry struct{}

func (noRetry) Do(ctx context.Context, op func(ctx context.Context) error) error {
	return op(ctx)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(words *fakeWords, errs *fakeErrors, orc *fakeOracle) *Service {
	s := NewService(discardLogger(), words, errs, &fakeProfiles{
		profile: domain.UserProfile{
			NativeLanguage:  "English",
			PreferredTopics: []string{"travel"},
		},
	}, orc, noRetry{})
	s.now = func() time.Time { return testDay }
	return s
}

func testPair(userID uuid.UUID, progress int) domain.WordPair {
	return domain.WordPair{
		ID:         uuid.New(),
		UserID:     userID,
		NativeWord: "dog",
		TargetWord: "perro",
		Language:   "es",
		Progress:   progress,
		NextDue:    testDay,
	}
}

func mustClass(t *testing.T, got domain.AnswerOutcome, want domain.AnswerClass) {
	t.Helper()
	if got.Class != want {
		t.Fatalf("Class = %s, want %s (explanation: %q)", got.Class, want, got.Explanation)
	}
}
