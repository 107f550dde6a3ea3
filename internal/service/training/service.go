// Package training implements the progress engine: due-word selection,
// task construction, answer scoring, and the spaced-repetition schedule
// update.
package training

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/adapter/oracle"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type wordRepo interface {
	GetByID(ctx context.Context, userID, pairID uuid.UUID) (domain.WordPair, error)
	ListDue(ctx context.Context, userID uuid.UUID, language string, day time.Time) ([]domain.WordPair, error)
	ListNotDueOn(ctx context.Context, userID uuid.UUID, language string, day time.Time) ([]domain.WordPair, error)
	UpdateProgress(ctx context.Context, userID, pairID uuid.UUID, progress int, lastPracticed, nextDue time.Time) error
}

type errorRepo interface {
	IncrementOrCreate(ctx context.Context, userID uuid.UUID, language, description string) (domain.ErrorRecord, error)
}

type profileRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error)
}

type textOracle interface {
	GenerateSentence(ctx context.Context, word, language string, topics []string) (string, error)
	Translate(ctx context.Context, sentence, fromLanguage, toLanguage string) (string, error)
	ScoreAnswer(ctx context.Context, req oracle.ScoreRequest) (oracle.Assessment, error)
	ProofreadSentence(ctx context.Context, sentence, language string) (oracle.ProofreadResult, error)
	CheckWordUsage(ctx context.Context, sentence, word, language string) (oracle.UsageResult, error)
	GenerateDistractors(ctx context.Context, word, language string, count int) ([]string, error)
}

type retryer interface {
	Do(ctx context.Context, op func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the training engine.
type Service struct {
	words    wordRepo
	errors   errorRepo
	profiles profileRepo
	oracle   textOracle
	retry    retryer
	log      *slog.Logger

	// now is the clock; overridable in tests.
	now func() time.Time
}

// NewService creates a new training engine.
func NewService(
	log *slog.Logger,
	words wordRepo,
	errors errorRepo,
	profiles profileRepo,
	textOracle textOracle,
	retry retryer,
) *Service {
	return &Service{
		words:    words,
		errors:   errors,
		profiles: profiles,
		oracle:   textOracle,
		retry:    retry,
		log:      log.With("service", "training"),
		now:      time.Now,
	}
}

func (s *Service) today() time.Time {
	return domain.DayOf(s.now())
}
