// Package trainingerror implements the ErrorRecord repository using PostgreSQL.
package trainingerror

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

const table = "training_errors"

var columns = []string{
	"id", "user_id", "language", "description", "count", "created_at", "updated_at",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo provides aggregated error persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new training error repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// IncrementOrCreate bumps the count of an existing record with the same
// user, language, and description, or inserts a fresh one with count 1.
// The updated record is returned either way.
func (r *Repo) IncrementOrCreate(ctx context.Context, userID uuid.UUID, language, description string) (domain.ErrorRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	id := uuid.New()

	sql, args, err := qb.Insert(table).
		Columns(columns...).
		Values(id, userID, language, description, 1, now, now).
		Suffix(`ON CONFLICT (user_id, language, description)
			DO UPDATE SET count = ` + table + `.count + 1, updated_at = EXCLUDED.updated_at
			RETURNING ` + columnList()).
		ToSql()
	if err != nil {
		return domain.ErrorRecord{}, fmt.Errorf("build upsert training error: %w", err)
	}

	rec, err := scanRecord(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.ErrorRecord{}, postgres.MapError(err, "training error", id)
	}

	return rec, nil
}

// ListByUser returns the user's error records for one language, most
// frequent first. A non-positive limit returns all records.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, language string, limit int) ([]domain.ErrorRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query := qb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID, "language": language}).
		OrderBy("count DESC", "updated_at DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list training errors: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list training errors: %w", err)
	}
	defer rows.Close()

	var records []domain.ErrorRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan training error: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate training errors: %w", err)
	}

	if records == nil {
		records = []domain.ErrorRecord{}
	}

	return records, nil
}

func columnList() string {
	s := columns[0]
	for _, c := range columns[1:] {
		s += ", " + c
	}
	return s
}

func scanRecord(row pgx.Row) (domain.ErrorRecord, error) {
	var rec domain.ErrorRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Language, &rec.Description,
		&rec.Count, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return domain.ErrorRecord{}, err
	}
	return rec, nil
}
