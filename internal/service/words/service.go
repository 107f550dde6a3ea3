package words

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres/wordpair"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

type wordRepo interface {
	Create(ctx context.Context, pair domain.WordPair) (domain.WordPair, error)
	ListByUser(ctx context.Context, userID uuid.UUID, f wordpair.Filter) ([]domain.WordPair, error)
	Delete(ctx context.Context, userID, pairID uuid.UUID) error
}

// PairInput is one native/target pair submitted for import.
type PairInput struct {
	NativeWord string
	TargetWord string
}

// ImportReport summarizes one import call. Failures carries a
// human-readable reason per rejected pair.
type ImportReport struct {
	Imported   int
	Duplicates int
	Failed     int
	Failures   []string
}

// Service manages the user's word collection outside of training runs.
type Service struct {
	log       *slog.Logger
	words     wordRepo
	maxImport int
}

func NewService(log *slog.Logger, words wordRepo, maxImport int) *Service {
	return &Service{
		log:       log.With("service", "words"),
		words:     words,
		maxImport: maxImport,
	}
}

// ImportPairs inserts the submitted pairs for one language. Pairs that
// already exist (case-insensitive) count as duplicates; pairs with
// missing words count as failed. The whole batch is rejected when it
// exceeds the import cap.
func (s *Service) ImportPairs(ctx context.Context, userID uuid.UUID, language string, pairs []PairInput) (ImportReport, error) {
	if language == "" {
		return ImportReport{}, domain.NewValidationError("language", "language is required")
	}
	if len(pairs) == 0 {
		return ImportReport{}, domain.NewValidationError("pairs", "no pairs to import")
	}
	if len(pairs) > s.maxImport {
		return ImportReport{}, domain.NewValidationError("pairs",
			fmt.Sprintf("too many pairs: %d exceeds the limit of %d", len(pairs), s.maxImport))
	}

	var report ImportReport
	for i, p := range pairs {
		native := strings.TrimSpace(p.NativeWord)
		target := strings.TrimSpace(p.TargetWord)
		if native == "" || target == "" {
			report.Failed++
			report.Failures = append(report.Failures, fmt.Sprintf("pair %d: both words are required", i+1))
			continue
		}

		_, err := s.words.Create(ctx, domain.WordPair{
			UserID:     userID,
			NativeWord: native,
			TargetWord: target,
			Language:   language,
		})
		switch {
		case err == nil:
			report.Imported++
		case errors.Is(err, domain.ErrAlreadyExists):
			report.Duplicates++
		case errors.Is(err, domain.ErrNotFound), ctx.Err() != nil:
			// Missing user profile or a dead context fails the whole
			// import, not just the pair.
			return ImportReport{}, fmt.Errorf("import pair %d: %w", i+1, err)
		default:
			report.Failed++
			report.Failures = append(report.Failures, fmt.Sprintf("pair %d: %v", i+1, err))
		}
	}

	s.log.Info("words imported",
		"user_id", userID,
		"language", language,
		"imported", report.Imported,
		"duplicates", report.Duplicates,
		"failed", report.Failed)

	return report, nil
}

// ListWords returns the user's pairs, optionally filtered by language.
func (s *Service) ListWords(ctx context.Context, userID uuid.UUID, language string) ([]domain.WordPair, error) {
	pairs, err := s.words.ListByUser(ctx, userID, wordpair.Filter{Language: language})
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return pairs, nil
}

// DeleteWord removes one pair from the collection.
func (s *Service) DeleteWord(ctx context.Context, userID, pairID uuid.UUID) error {
	if err := s.words.Delete(ctx, userID, pairID); err != nil {
		return fmt.Errorf("delete word: %w", err)
	}

	s.log.Info("word deleted", "user_id", userID, "word_id", pairID)
	return nil
}
