package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres/wordpair"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// recentActivityDays is the window counted as "practiced recently".
const recentActivityDays = 7

const (
	defaultErrorLimit = 10
	maxErrorLimit     = 100
)

// bucketLabels maps the 20-point distribution bucket index to its label.
var bucketLabels = [...]string{"0-19", "20-39", "40-59", "60-79", "80-99", "100"}

type wordRepo interface {
	Count(ctx context.Context, userID uuid.UUID, f wordpair.Filter) (int, error)
	CountDue(ctx context.Context, userID uuid.UUID, language string, day time.Time) (int, error)
	CountPracticedSince(ctx context.Context, userID uuid.UUID, language string, since time.Time) (int, error)
	ProgressDistribution(ctx context.Context, userID uuid.UUID, language string) ([]wordpair.BucketCount, error)
}

type errorRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID, language string, limit int) ([]domain.ErrorRecord, error)
}

// Overview is the per-language learning snapshot.
type Overview struct {
	TotalWords        int
	ReadyForTraining  int
	PracticedRecently int
	// ProgressBuckets always carries all six 20-point buckets, zeros
	// included.
	ProgressBuckets map[string]int
}

// Service assembles read-only learning statistics.
type Service struct {
	log    *slog.Logger
	words  wordRepo
	errors errorRepo
	now    func() time.Time
}

func NewService(log *slog.Logger, words wordRepo, errors errorRepo) *Service {
	return &Service{
		log:    log.With("service", "stats"),
		words:  words,
		errors: errors,
		now:    time.Now,
	}
}

// Overview builds the statistics snapshot for one language.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID, language string) (Overview, error) {
	if language == "" {
		return Overview{}, domain.NewValidationError("language", "language is required")
	}

	today := domain.DayOf(s.now())

	total, err := s.words.Count(ctx, userID, wordpair.Filter{Language: language})
	if err != nil {
		return Overview{}, fmt.Errorf("count words: %w", err)
	}

	ready, err := s.words.CountDue(ctx, userID, language, today)
	if err != nil {
		return Overview{}, fmt.Errorf("count due words: %w", err)
	}

	recent, err := s.words.CountPracticedSince(ctx, userID, language, today.AddDate(0, 0, -recentActivityDays))
	if err != nil {
		return Overview{}, fmt.Errorf("count recent activity: %w", err)
	}

	distribution, err := s.words.ProgressDistribution(ctx, userID, language)
	if err != nil {
		return Overview{}, fmt.Errorf("progress distribution: %w", err)
	}

	buckets := make(map[string]int, len(bucketLabels))
	for _, label := range bucketLabels {
		buckets[label] = 0
	}
	for _, b := range distribution {
		if b.Bucket >= 0 && b.Bucket < len(bucketLabels) {
			buckets[bucketLabels[b.Bucket]] = b.Count
		}
	}

	return Overview{
		TotalWords:        total,
		ReadyForTraining:  ready,
		PracticedRecently: recent,
		ProgressBuckets:   buckets,
	}, nil
}

// TopErrors returns the user's most frequent error descriptions for one
// language, most frequent first.
func (s *Service) TopErrors(ctx context.Context, userID uuid.UUID, language string, limit int) ([]domain.ErrorRecord, error) {
	if language == "" {
		return nil, domain.NewValidationError("language", "language is required")
	}
	if limit <= 0 {
		limit = defaultErrorLimit
	}
	if limit > maxErrorLimit {
		limit = maxErrorLimit
	}

	records, err := s.errors.ListByUser(ctx, userID, language, limit)
	if err != nil {
		return nil, fmt.Errorf("list errors: %w", err)
	}
	return records, nil
}
