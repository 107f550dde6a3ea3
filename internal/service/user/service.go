package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

const maxPreferredTopics = 30

// supportedLanguages is the closed set of learnable language codes.
var supportedLanguages = map[string]bool{
	"en": true,
	"de": true,
	"es": true,
	"ru": true,
	"ua": true,
	"it": true,
}

type profileRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error)
	UpdateTopics(ctx context.Context, userID uuid.UUID, topics []string) error
	UpdateLanguages(ctx context.Context, userID uuid.UUID, languages []string) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service manages the user's trainer profile.
type Service struct {
	log      *slog.Logger
	profiles profileRepo
	tx       txManager
}

func NewService(log *slog.Logger, profiles profileRepo, tx txManager) *Service {
	return &Service{
		log:      log.With("service", "user"),
		profiles: profiles,
		tx:       tx,
	}
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// UpdatePreferredTopics replaces the topic list used to theme generated
// sentences. Topics are trimmed and deduplicated case-insensitively.
func (s *Service) UpdatePreferredTopics(ctx context.Context, userID uuid.UUID, topics []string) (domain.UserProfile, error) {
	cleaned, err := cleanTopics(topics)
	if err != nil {
		return domain.UserProfile{}, err
	}

	var profile domain.UserProfile
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.profiles.UpdateTopics(ctx, userID, cleaned); err != nil {
			return fmt.Errorf("update topics: %w", err)
		}
		profile, err = s.profiles.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return domain.UserProfile{}, err
	}

	s.log.Info("preferred topics updated", "user_id", userID, "topics", len(cleaned))
	return profile, nil
}

// UpdateLearningLanguages replaces the set of languages the user trains
// in. Every code must be in the supported set.
func (s *Service) UpdateLearningLanguages(ctx context.Context, userID uuid.UUID, languages []string) (domain.UserProfile, error) {
	cleaned, err := cleanLanguages(languages)
	if err != nil {
		return domain.UserProfile{}, err
	}

	var profile domain.UserProfile
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.profiles.UpdateLanguages(ctx, userID, cleaned); err != nil {
			return fmt.Errorf("update languages: %w", err)
		}
		profile, err = s.profiles.GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return domain.UserProfile{}, err
	}

	s.log.Info("learning languages updated", "user_id", userID, "languages", cleaned)
	return profile, nil
}

func cleanTopics(topics []string) ([]string, error) {
	if len(topics) > maxPreferredTopics {
		return nil, domain.NewValidationError("topics",
			fmt.Sprintf("too many topics: %d exceeds the limit of %d", len(topics), maxPreferredTopics))
	}

	seen := make(map[string]bool, len(topics))
	cleaned := make([]string, 0, len(topics))
	for _, t := range topics {
		t = strings.TrimSpace(t)
		if t == "" {
			return nil, domain.NewValidationError("topics", "topics must not be empty")
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, t)
	}
	return cleaned, nil
}

func cleanLanguages(languages []string) ([]string, error) {
	if len(languages) == 0 {
		return nil, domain.NewValidationError("languages", "at least one language is required")
	}

	seen := make(map[string]bool, len(languages))
	cleaned := make([]string, 0, len(languages))
	for _, l := range languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if !supportedLanguages[l] {
			return nil, domain.NewValidationError("languages", fmt.Sprintf("unsupported language %q", l))
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		cleaned = append(cleaned, l)
	}
	return cleaned, nil
}
