package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lasty-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user profile with default values.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.UserProfile {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	profile := domain.UserProfile{
		ID:                uuid.New(),
		Login:             "testuser-" + suffix,
		NativeLanguage:    "en",
		InterfaceLanguage: "en",
		LearningLanguages: []string{"es"},
		PreferredTopics:   []string{"travel"},
		CreatedAt:         now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, login, native_language, interface_language, learning_languages, preferred_topics, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		profile.ID, profile.Login, profile.NativeLanguage, profile.InterfaceLanguage,
		profile.LearningLanguages, profile.PreferredTopics, profile.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return profile
}

// SeedWordPair creates a word pair for the user. Pass mutators to override
// defaults (progress, next_due, words) before the insert.
func SeedWordPair(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, mutate ...func(*domain.WordPair)) domain.WordPair {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	pair := domain.WordPair{
		ID:         uuid.New(),
		UserID:     userID,
		NativeWord: "native-" + suffix,
		TargetWord: "target-" + suffix,
		Language:   "es",
		Progress:   0,
		NextDue:    now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, m := range mutate {
		m(&pair)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO word_pairs (id, user_id, native_word, target_word, language, progress, last_practiced_at, next_due, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pair.ID, pair.UserID, pair.NativeWord, pair.TargetWord, pair.Language,
		pair.Progress, pair.LastPracticed, pair.NextDue, pair.CreatedAt, pair.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWordPair insert: %v", err)
	}

	return pair
}

// SeedTrainingError creates an aggregated error record for the user.
func SeedTrainingError(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, language, description string, count int) domain.ErrorRecord {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := domain.ErrorRecord{
		ID:          uuid.New(),
		UserID:      userID,
		Language:    language,
		Description: description,
		Count:       count,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO training_errors (id, user_id, language, description, count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.UserID, rec.Language, rec.Description, rec.Count, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTrainingError insert: %v", err)
	}

	return rec
}
