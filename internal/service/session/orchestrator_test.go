package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

var sessionLimits = []int{1, 3, 5, 10, 20}

// fakeTrainer builds deterministic tasks and signals each completed
// build on the built channel so tests can wait for prefetches.
type fakeTrainer struct {
	mu         sync.Mutex
	buildCount int
	buildErrOn map[int]error // keyed by 1-based build call number
	built      chan struct{}

	words     []domain.WordPair
	selectErr error

	outcome  domain.AnswerOutcome
	scoreErr error
	answers  []string
}

func (f *fakeTrainer) SelectWords(_ context.Context, _ uuid.UUID, _ string, limit int) ([]domain.WordPair, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	if limit > len(f.words) {
		limit = len(f.words)
	}
	return f.words[:limit], nil
}

func (f *fakeTrainer) BuildTask(_ context.Context, pair domain.WordPair) (domain.Task, error) {
	f.mu.Lock()
	f.buildCount++
	err := f.buildErrOn[f.buildCount]
	f.mu.Unlock()

	if f.built != nil {
		defer func() { f.built <- struct{}{} }()
	}
	if err != nil {
		return domain.Task{}, err
	}

	return domain.Task{
		ID:            domain.TaskID(domain.TaskTypeFillBlank, pair.ID),
		WordID:        pair.ID,
		Type:          domain.TaskTypeFillBlank,
		CorrectAnswer: pair.TargetWord,
	}, nil
}

func (f *fakeTrainer) ScoreAndApply(_ context.Context, _ uuid.UUID, _ domain.Task, answer string) (domain.AnswerOutcome, error) {
	f.mu.Lock()
	f.answers = append(f.answers, answer)
	f.mu.Unlock()
	return f.outcome, f.scoreErr
}

func (f *fakeTrainer) builds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buildCount
}

func waitBuilds(t *testing.T, f *fakeTrainer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-f.built:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for build %d of %d", i+1, n)
		}
	}
}

// waitPrefetched polls until the session's slot holds the task for pos.
func waitPrefetched(t *testing.T, store *MemoryStore, id uuid.UUID, pos int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sess, err := store.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		sess.mu.Lock()
		ok := sess.prefetched != nil && sess.prefetchedPos == pos
		sess.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for prefetch of position %d", pos)
}

// waitPrefetchSettled polls until no prefetch is pending.
func waitPrefetchSettled(t *testing.T, store *MemoryStore, id uuid.UUID) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		sess, err := store.Get(context.Background(), id)
		if err != nil {
			t.Fatalf("get session: %v", err)
		}
		sess.mu.Lock()
		pending := sess.prefetchPending
		sess.mu.Unlock()
		if !pending {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for prefetch to settle")
}

func newTestOrchestrator(trainer *fakeTrainer) (*Orchestrator, *MemoryStore) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewMemoryStore()
	return NewOrchestrator(log, store, trainer, sessionLimits), store
}

func wordPairs(userID uuid.UUID, targets ...string) []domain.WordPair {
	pairs := make([]domain.WordPair, 0, len(targets))
	for _, target := range targets {
		pairs = append(pairs, domain.WordPair{
			ID:         uuid.New(),
			UserID:     userID,
			TargetWord: target,
			Language:   "es",
		})
	}
	return pairs
}

func TestStartSession_InvalidLimit(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeTrainer{})

	for _, limit := range []int{0, 2, 7, -1, 100} {
		_, err := o.StartSession(context.Background(), uuid.New(), "es", limit)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("limit %d: expected ErrValidation, got: %v", limit, err)
		}
	}
}

func TestStartSession_NoWords(t *testing.T) {
	trainer := &fakeTrainer{selectErr: domain.ErrNoWords}
	o, _ := newTestOrchestrator(trainer)

	_, err := o.StartSession(context.Background(), uuid.New(), "es", 5)
	if !errors.Is(err, domain.ErrNoWords) {
		t.Fatalf("expected ErrNoWords, got: %v", err)
	}
}

func TestSession_OneWordRoundTrip(t *testing.T) {
	userID := uuid.New()
	trainer := &fakeTrainer{
		words: wordPairs(userID, "perro"),
		built: make(chan struct{}, 8),
		outcome: domain.AnswerOutcome{
			Class:       domain.AnswerCorrect,
			NewProgress: 20,
		},
	}
	o, _ := newTestOrchestrator(trainer)
	ctx := context.Background()

	started, err := o.StartSession(ctx, userID, "es", 1)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Total != 1 || started.Position != 0 {
		t.Fatalf("started at %d/%d, want 0/1", started.Position, started.Total)
	}
	waitBuilds(t, trainer, 1)

	// Reading the current task does not advance and always returns the
	// same task.
	for i := 0; i < 2; i++ {
		page, err := o.GetCurrentTask(ctx, userID, started.SessionID)
		if err != nil {
			t.Fatalf("get current task: %v", err)
		}
		if page.Task.ID != started.Task.ID || page.Position != 0 {
			t.Fatalf("current task drifted: %+v", page)
		}
	}

	outcome, err := o.SubmitAnswer(ctx, userID, started.SessionID, started.Task.ID, "perro")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Class != domain.AnswerCorrect || outcome.NewProgress != 20 {
		t.Errorf("outcome = %+v, want Correct with progress 20", outcome)
	}
	if len(trainer.answers) != 1 || trainer.answers[0] != "perro" {
		t.Errorf("engine saw answers %v, want [perro]", trainer.answers)
	}

	// A one-word session has nowhere to advance to.
	if _, err := o.Advance(ctx, userID, started.SessionID); !errors.Is(err, domain.ErrSessionComplete) {
		t.Fatalf("expected ErrSessionComplete, got: %v", err)
	}

	if err := o.Finish(ctx, userID, started.SessionID); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if _, err := o.GetCurrentTask(ctx, userID, started.SessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after finish, got: %v", err)
	}

	// Only the single task was ever built.
	if got := trainer.builds(); got != 1 {
		t.Errorf("builds = %d, want 1", got)
	}
}

func TestAdvance_ConsumesPrefetchedTask(t *testing.T) {
	userID := uuid.New()
	trainer := &fakeTrainer{
		words: wordPairs(userID, "perro", "gato", "casa"),
		built: make(chan struct{}, 8),
	}
	o, store := newTestOrchestrator(trainer)
	ctx := context.Background()

	started, err := o.StartSession(ctx, userID, "es", 3)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	// Position 0 built eagerly, position 1 prefetched.
	waitPrefetched(t, store, started.SessionID, 1)

	page, err := o.Advance(ctx, userID, started.SessionID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if page.Position != 1 {
		t.Errorf("Position = %d, want 1", page.Position)
	}
	if page.Task.WordID != trainer.words[1].ID {
		t.Errorf("advanced to word %s, want %s", page.Task.WordID, trainer.words[1].ID)
	}

	// Advance consumed the cached task and only triggered the prefetch
	// of position 2; nothing was rebuilt.
	waitBuilds(t, trainer, 3)
	if got := trainer.builds(); got != 3 {
		t.Errorf("builds = %d, want 3", got)
	}
}

func TestAdvance_FallsBackToSynchronousBuild(t *testing.T) {
	userID := uuid.New()
	trainer := &fakeTrainer{
		words: wordPairs(userID, "perro", "gato"),
		built: make(chan struct{}, 8),
		// The prefetch of position 1 fails; Advance must build it
		// synchronously.
		buildErrOn: map[int]error{2: errors.New("oracle down")},
	}
	o, store := newTestOrchestrator(trainer)
	ctx := context.Background()

	started, err := o.StartSession(ctx, userID, "es", 3)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	waitBuilds(t, trainer, 2)
	waitPrefetchSettled(t, store, started.SessionID)

	page, err := o.Advance(ctx, userID, started.SessionID)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if page.Task.WordID != trainer.words[1].ID {
		t.Errorf("advanced to word %s, want %s", page.Task.WordID, trainer.words[1].ID)
	}
	waitBuilds(t, trainer, 1)
	if got := trainer.builds(); got != 3 {
		t.Errorf("builds = %d, want 3 (first, failed prefetch, sync rebuild)", got)
	}
}

func TestPrefetch_IsSingleSlot(t *testing.T) {
	userID := uuid.New()
	trainer := &fakeTrainer{
		words: wordPairs(userID, "perro", "gato"),
		built: make(chan struct{}, 8),
	}
	o, store := newTestOrchestrator(trainer)
	ctx := context.Background()

	started, err := o.StartSession(ctx, userID, "es", 3)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	waitPrefetched(t, store, started.SessionID, 1)

	// The slot already holds position 1: repeated hints are no-ops.
	for i := 0; i < 3; i++ {
		if err := o.Prefetch(ctx, userID, started.SessionID); err != nil {
			t.Fatalf("prefetch: %v", err)
		}
	}
	if got := trainer.builds(); got != 2 {
		t.Errorf("builds = %d, want 2 (prefetch hints must not rebuild)", got)
	}
}

func TestSubmitAnswer_RejectsStaleTaskID(t *testing.T) {
	userID := uuid.New()
	trainer := &fakeTrainer{words: wordPairs(userID, "perro")}
	o, _ := newTestOrchestrator(trainer)
	ctx := context.Background()

	started, err := o.StartSession(ctx, userID, "es", 1)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	staleID := domain.TaskID(domain.TaskTypeTranslation, uuid.New())
	_, err = o.SubmitAnswer(ctx, userID, started.SessionID, staleID, "perro")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
}

func TestSession_OwnershipIsEnforced(t *testing.T) {
	userID := uuid.New()
	trainer := &fakeTrainer{words: wordPairs(userID, "perro")}
	o, _ := newTestOrchestrator(trainer)
	ctx := context.Background()

	started, err := o.StartSession(ctx, userID, "es", 1)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	stranger := uuid.New()
	if _, err := o.GetCurrentTask(ctx, stranger, started.SessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound for foreign session, got: %v", err)
	}
	if _, err := o.SubmitAnswer(ctx, stranger, started.SessionID, started.Task.ID, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("submit: expected ErrNotFound for foreign session, got: %v", err)
	}
	if err := o.Finish(ctx, stranger, started.SessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("finish: expected ErrNotFound for foreign session, got: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := newSession(uuid.New(), "es", nil, domain.Task{})
	if err := store.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != sess.ID {
		t.Errorf("got session %s, want %s", got.ID, sess.ID)
	}

	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, sess.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got: %v", err)
	}
}
