package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// prefetchTimeout bounds a background task build; it covers the 1-3
// sequential oracle calls a construction may issue.
const prefetchTimeout = 30 * time.Second

// trainer is the training engine surface the orchestrator needs.
type trainer interface {
	SelectWords(ctx context.Context, userID uuid.UUID, language string, limit int) ([]domain.WordPair, error)
	BuildTask(ctx context.Context, pair domain.WordPair) (domain.Task, error)
	ScoreAndApply(ctx context.Context, userID uuid.UUID, task domain.Task, answer string) (domain.AnswerOutcome, error)
}

// TaskPage is a task together with its place in the run.
type TaskPage struct {
	Task     domain.Task
	Position int
	Total    int
}

// StartResult is what a freshly started session hands back.
type StartResult struct {
	SessionID uuid.UUID
	TaskPage
}

// Orchestrator runs practice sessions: it starts them, serves the
// current task, routes answers to the engine, and advances with a
// single-slot task prefetch. Prefetch is a latency optimization only;
// every path falls back to synchronous construction.
type Orchestrator struct {
	log     *slog.Logger
	store   Store
	trainer trainer
	limits  map[int]bool
}

func NewOrchestrator(log *slog.Logger, store Store, trainer trainer, sessionLimits []int) *Orchestrator {
	limits := make(map[int]bool, len(sessionLimits))
	for _, l := range sessionLimits {
		limits[l] = true
	}

	return &Orchestrator{
		log:     log.With("service", "session"),
		store:   store,
		trainer: trainer,
		limits:  limits,
	}
}

// StartSession selects the run's words, builds the first task eagerly,
// stores the session, and kicks off a prefetch of the second task.
func (o *Orchestrator) StartSession(ctx context.Context, userID uuid.UUID, language string, limit int) (StartResult, error) {
	if !o.limits[limit] {
		return StartResult{}, domain.NewValidationError("limit", "unsupported session size")
	}
	if language == "" {
		return StartResult{}, domain.NewValidationError("language", "language is required")
	}

	words, err := o.trainer.SelectWords(ctx, userID, language, limit)
	if err != nil {
		return StartResult{}, fmt.Errorf("select words: %w", err)
	}

	first, err := o.trainer.BuildTask(ctx, words[0])
	if err != nil {
		return StartResult{}, fmt.Errorf("build first task: %w", err)
	}

	sess := newSession(userID, language, words, first)
	if err := o.store.Put(ctx, sess); err != nil {
		return StartResult{}, fmt.Errorf("store session: %w", err)
	}

	o.startPrefetch(sess, 1)

	o.log.Info("session started",
		"session_id", sess.ID,
		"user_id", userID,
		"language", language,
		"words", len(words))

	return StartResult{
		SessionID: sess.ID,
		TaskPage:  TaskPage{Task: first, Position: 0, Total: sess.Total()},
	}, nil
}

// GetCurrentTask returns the task at the current position. It never
// advances the session.
func (o *Orchestrator) GetCurrentTask(ctx context.Context, userID, sessionID uuid.UUID) (TaskPage, error) {
	sess, err := o.session(ctx, userID, sessionID)
	if err != nil {
		return TaskPage{}, err
	}

	return TaskPage{Task: sess.Current(), Position: sess.Position(), Total: sess.Total()}, nil
}

// SubmitAnswer scores the answer for the session's current task and
// applies the progress update. Scoring an answer also hints a prefetch
// of the next task since the learner is about to advance.
func (o *Orchestrator) SubmitAnswer(ctx context.Context, userID, sessionID uuid.UUID, taskID, answer string) (domain.AnswerOutcome, error) {
	sess, err := o.session(ctx, userID, sessionID)
	if err != nil {
		return domain.AnswerOutcome{}, err
	}

	current := sess.Current()
	if taskID != current.ID {
		return domain.AnswerOutcome{}, domain.NewValidationError("task_id", "not the session's current task")
	}

	outcome, err := o.trainer.ScoreAndApply(ctx, userID, current, answer)
	if err != nil {
		return domain.AnswerOutcome{}, fmt.Errorf("score answer: %w", err)
	}

	o.startPrefetch(sess, sess.NextPosition())

	return outcome, nil
}

// Advance moves the session to the next task, consuming the prefetched
// one when available and building synchronously otherwise. Advancing
// past the last word returns ErrSessionComplete.
func (o *Orchestrator) Advance(ctx context.Context, userID, sessionID uuid.UUID) (TaskPage, error) {
	sess, err := o.session(ctx, userID, sessionID)
	if err != nil {
		return TaskPage{}, err
	}

	next := sess.NextPosition()
	if next >= sess.Total() {
		return TaskPage{}, fmt.Errorf("advance session: %w", domain.ErrSessionComplete)
	}

	task, ok := sess.takePrefetched(next)
	if !ok {
		task, err = o.trainer.BuildTask(ctx, sess.Words[next])
		if err != nil {
			return TaskPage{}, fmt.Errorf("build task: %w", err)
		}
	}

	pos := sess.advance(task)
	if err := o.store.Put(ctx, sess); err != nil {
		return TaskPage{}, fmt.Errorf("store session: %w", err)
	}

	o.startPrefetch(sess, sess.NextPosition())

	return TaskPage{Task: task, Position: pos, Total: sess.Total()}, nil
}

// Prefetch is a fire-and-forget hint to build the next task in the
// background. It is a no-op while a prefetch is pending or cached.
func (o *Orchestrator) Prefetch(ctx context.Context, userID, sessionID uuid.UUID) error {
	sess, err := o.session(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	o.startPrefetch(sess, sess.NextPosition())
	return nil
}

// Finish discards the session.
func (o *Orchestrator) Finish(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, err := o.session(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := o.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	o.log.Info("session finished", "session_id", sessionID, "user_id", userID)
	return nil
}

// session loads the session and checks ownership. Another user's
// session is indistinguishable from a missing one.
func (o *Orchestrator) session(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error) {
	sess, err := o.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("get session: %w", domain.ErrNotFound)
	}
	return sess, nil
}

// startPrefetch claims the session's prefetch slot for pos and builds
// the task in the background. The build runs on its own bounded context
// so an already-answered request's cancellation does not abort it.
func (o *Orchestrator) startPrefetch(sess *Session, pos int) {
	if !sess.tryBeginPrefetch(pos) {
		return
	}

	pair := sess.Words[pos]
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), prefetchTimeout)
		defer cancel()

		task, err := o.trainer.BuildTask(ctx, pair)
		if err != nil {
			o.log.Warn("task prefetch failed",
				"session_id", sess.ID, "position", pos, "error", err)
			sess.finishPrefetch(pos, domain.Task{}, false)
			return
		}

		sess.finishPrefetch(pos, task, true)
	}()
}
