package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

func newRepo(t *testing.T) (*user.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool), pool
}

func TestRepo_Create_AndGetByID(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	login := "create-" + uuid.New().String()[:8]
	created, err := repo.Create(ctx, domain.UserProfile{
		Login:             login,
		NativeLanguage:    "ru",
		InterfaceLanguage: "en",
		LearningLanguages: []string{"es", "de"},
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("Create: expected generated ID")
	}
	if created.PreferredTopics == nil {
		t.Error("PreferredTopics should be an empty slice, not nil")
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Login != login {
		t.Errorf("Login = %q, want %q", got.Login, login)
	}
	if len(got.LearningLanguages) != 2 {
		t.Errorf("LearningLanguages = %v, want 2 entries", got.LearningLanguages)
	}
}

func TestRepo_Create_DuplicateLogin(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	login := "dup-" + uuid.New().String()[:8]
	_, err := repo.Create(ctx, domain.UserProfile{Login: login, NativeLanguage: "en", InterfaceLanguage: "en"})
	if err != nil {
		t.Fatalf("Create[1]: unexpected error: %v", err)
	}

	_, err = repo.Create(ctx, domain.UserProfile{Login: login, NativeLanguage: "en", InterfaceLanguage: "en"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("Create[2]: expected ErrAlreadyExists, got: %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_UpdateTopicsAndLanguages(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedUser(t, pool)

	if err := repo.UpdateTopics(ctx, seeded.ID, []string{"food", "sports"}); err != nil {
		t.Fatalf("UpdateTopics: unexpected error: %v", err)
	}
	if err := repo.UpdateLanguages(ctx, seeded.ID, []string{"es", "fr"}); err != nil {
		t.Fatalf("UpdateLanguages: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if len(got.PreferredTopics) != 2 || got.PreferredTopics[0] != "food" {
		t.Errorf("PreferredTopics = %v", got.PreferredTopics)
	}
	if len(got.LearningLanguages) != 2 || got.LearningLanguages[1] != "fr" {
		t.Errorf("LearningLanguages = %v", got.LearningLanguages)
	}

	if err := repo.UpdateTopics(ctx, uuid.New(), []string{"x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("UpdateTopics unknown user: expected ErrNotFound, got: %v", err)
	}
}
