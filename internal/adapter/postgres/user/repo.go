// Package user implements the UserProfile repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lasty-backend/internal/adapter/postgres"
	"github.com/heartmarshall/lasty-backend/internal/domain"
)

const table = "users"

var columns = []string{
	"id", "login", "native_language", "interface_language",
	"learning_languages", "preferred_topics", "created_at",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides user profile persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new profile. A duplicate ID or login results in
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, profile domain.UserProfile) (domain.UserProfile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.LearningLanguages == nil {
		profile.LearningLanguages = []string{}
	}
	if profile.PreferredTopics == nil {
		profile.PreferredTopics = []string{}
	}

	sql, args, err := qb.Insert(table).
		Columns("id", "login", "native_language", "interface_language",
			"learning_languages", "preferred_topics").
		Values(profile.ID, profile.Login, profile.NativeLanguage, profile.InterfaceLanguage,
			profile.LearningLanguages, profile.PreferredTopics).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("build insert user: %w", err)
	}

	created, err := scanProfile(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.UserProfile{}, postgres.MapError(err, "user", profile.ID)
	}

	return created, nil
}

// GetByID returns a profile by primary key.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID) (domain.UserProfile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("build get user: %w", err)
	}

	profile, err := scanProfile(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.UserProfile{}, postgres.MapError(err, "user", userID)
	}

	return profile, nil
}

// UpdateTopics replaces the user's preferred topics.
func (r *Repo) UpdateTopics(ctx context.Context, userID uuid.UUID, topics []string) error {
	if topics == nil {
		topics = []string{}
	}
	return r.updateColumn(ctx, userID, "preferred_topics", topics)
}

// UpdateLanguages replaces the user's learning languages.
func (r *Repo) UpdateLanguages(ctx context.Context, userID uuid.UUID, languages []string) error {
	if languages == nil {
		languages = []string{}
	}
	return r.updateColumn(ctx, userID, "learning_languages", languages)
}

func (r *Repo) updateColumn(ctx context.Context, userID uuid.UUID, column string, value any) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update(table).
		Set(column, value).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user %s: %w", column, err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user", userID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

func columnList() string {
	s := columns[0]
	for _, c := range columns[1:] {
		s += ", " + c
	}
	return s
}

func scanProfile(row pgx.Row) (domain.UserProfile, error) {
	var p domain.UserProfile
	err := row.Scan(&p.ID, &p.Login, &p.NativeLanguage, &p.InterfaceLanguage,
		&p.LearningLanguages, &p.PreferredTopics, &p.CreatedAt)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return p, nil
}
