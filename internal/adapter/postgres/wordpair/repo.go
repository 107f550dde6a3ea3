// Package wordpair implements the WordPair repository using PostgreSQL.
package wordpair

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

const table = "word_pairs"

var columns = []string{
	"id", "user_id", "native_word", "target_word", "language",
	"progress", "last_practiced_at", "next_due", "created_at", "updated_at",
}

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Filter narrows list and count queries. A zero Filter matches everything
// the user owns.
type Filter struct {
	Language string
}

// BucketCount is one 20-point progress bucket and the number of pairs in
// it. Bucket 0 covers progress [0,19], bucket 5 is exactly 100.
type BucketCount struct {
	Bucket int
	Count  int
}

// Repo provides word pair persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new word pair repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const progressDistributionSQL = `
SELECT CASE WHEN progress = 100 THEN 5 ELSE progress / 20 END AS bucket,
       count(*)
FROM word_pairs
WHERE user_id = $1 AND language = $2
GROUP BY bucket
ORDER BY bucket`

// Create inserts a new word pair and returns the persisted row.
// A duplicate of an existing pair (same user, language, and words
// compared case-insensitively) results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, pair domain.WordPair) (domain.WordPair, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)
	if pair.ID == uuid.Nil {
		pair.ID = uuid.New()
	}
	if pair.NextDue.IsZero() {
		pair.NextDue = now
	}

	sql, args, err := qb.Insert(table).
		Columns(columns...).
		Values(pair.ID, pair.UserID, pair.NativeWord, pair.TargetWord, pair.Language,
			pair.Progress, pair.LastPracticed, pair.NextDue, now, now).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return domain.WordPair{}, fmt.Errorf("build insert word pair: %w", err)
	}

	created, err := scanPair(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.WordPair{}, postgres.MapError(err, "word pair", pair.ID)
	}

	return created, nil
}

// GetByID returns a word pair by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, pairID uuid.UUID) (domain.WordPair, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": pairID, "user_id": userID}).
		ToSql()
	if err != nil {
		return domain.WordPair{}, fmt.Errorf("build get word pair: %w", err)
	}

	pair, err := scanPair(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.WordPair{}, postgres.MapError(err, "word pair", pairID)
	}

	return pair, nil
}

// ListByUser returns all of the user's word pairs matching the filter,
// oldest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID, f Filter) ([]domain.WordPair, error) {
	query := r.baseSelect(userID, f).OrderBy("created_at ASC", "id ASC")
	return r.list(ctx, query, "list word pairs")
}

// ListDue returns pairs whose next_due calendar day is on or before the
// given day, most overdue first.
func (r *Repo) ListDue(ctx context.Context, userID uuid.UUID, language string, day time.Time) ([]domain.WordPair, error) {
	query := r.baseSelect(userID, Filter{Language: language}).
		Where(squirrel.Expr("next_due::date <= ?::date", day)).
		OrderBy("next_due ASC", "id ASC")
	return r.list(ctx, query, "list due word pairs")
}

// ListNotDueOn returns pairs whose next_due calendar day differs from the
// given day. This is the fallback pool when nothing is due.
func (r *Repo) ListNotDueOn(ctx context.Context, userID uuid.UUID, language string, day time.Time) ([]domain.WordPair, error) {
	query := r.baseSelect(userID, Filter{Language: language}).
		Where(squirrel.Expr("next_due::date <> ?::date", day)).
		OrderBy("next_due ASC", "id ASC")
	return r.list(ctx, query, "list not-due word pairs")
}

// UpdateProgress sets the training outcome fields on a pair.
// Returns domain.ErrNotFound if the pair does not exist or belongs to
// another user.
func (r *Repo) UpdateProgress(ctx context.Context, userID, pairID uuid.UUID, progress int, lastPracticed, nextDue time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update(table).
		Set("progress", progress).
		Set("last_practiced_at", lastPracticed).
		Set("next_due", nextDue).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": pairID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update word pair: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "word pair", pairID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word pair %s: %w", pairID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a word pair by ID.
// Returns domain.ErrNotFound if the pair does not exist or belongs to
// another user.
func (r *Repo) Delete(ctx context.Context, userID, pairID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete(table).
		Where(squirrel.Eq{"id": pairID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete word pair: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "word pair", pairID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("word pair %s: %w", pairID, domain.ErrNotFound)
	}

	return nil
}

// Count returns the number of the user's pairs matching the filter.
func (r *Repo) Count(ctx context.Context, userID uuid.UUID, f Filter) (int, error) {
	query := qb.Select("count(*)").From(table).Where(squirrel.Eq{"user_id": userID})
	if f.Language != "" {
		query = query.Where(squirrel.Eq{"language": f.Language})
	}
	return r.count(ctx, query, "count word pairs")
}

// CountDue returns how many pairs are due on the given calendar day.
func (r *Repo) CountDue(ctx context.Context, userID uuid.UUID, language string, day time.Time) (int, error) {
	query := qb.Select("count(*)").From(table).
		Where(squirrel.Eq{"user_id": userID, "language": language}).
		Where(squirrel.Expr("next_due::date <= ?::date", day))
	return r.count(ctx, query, "count due word pairs")
}

// CountPracticedSince returns how many pairs were practiced at or after
// the given instant.
func (r *Repo) CountPracticedSince(ctx context.Context, userID uuid.UUID, language string, since time.Time) (int, error) {
	query := qb.Select("count(*)").From(table).
		Where(squirrel.Eq{"user_id": userID, "language": language}).
		Where(squirrel.GtOrEq{"last_practiced_at": since})
	return r.count(ctx, query, "count practiced word pairs")
}

// ProgressDistribution returns pair counts grouped into 20-point progress
// buckets. Only non-empty buckets are returned.
func (r *Repo) ProgressDistribution(ctx context.Context, userID uuid.UUID, language string) ([]BucketCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, progressDistributionSQL, userID, language)
	if err != nil {
		return nil, fmt.Errorf("progress distribution: %w", err)
	}
	defer rows.Close()

	var buckets []BucketCount
	for rows.Next() {
		var bc BucketCount
		if err := rows.Scan(&bc.Bucket, &bc.Count); err != nil {
			return nil, fmt.Errorf("scan progress bucket: %w", err)
		}
		buckets = append(buckets, bc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress buckets: %w", err)
	}

	if buckets == nil {
		buckets = []BucketCount{}
	}

	return buckets, nil
}

func (r *Repo) baseSelect(userID uuid.UUID, f Filter) squirrel.SelectBuilder {
	query := qb.Select(columns...).From(table).Where(squirrel.Eq{"user_id": userID})
	if f.Language != "" {
		query = query.Where(squirrel.Eq{"language": f.Language})
	}
	return query
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, op string) ([]domain.WordPair, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	pairs, err := scanPairs(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pairs, nil
}

func (r *Repo) count(ctx context.Context, query squirrel.SelectBuilder, op string) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build %s: %w", op, err)
	}

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func columnList() string {
	s := columns[0]
	for _, c := range columns[1:] {
		s += ", " + c
	}
	return s
}

func scanPair(row pgx.Row) (domain.WordPair, error) {
	var p domain.WordPair
	err := row.Scan(&p.ID, &p.UserID, &p.NativeWord, &p.TargetWord, &p.Language,
		&p.Progress, &p.LastPracticed, &p.NextDue, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.WordPair{}, err
	}
	return p, nil
}

func scanPairs(rows pgx.Rows) ([]domain.WordPair, error) {
	var pairs []domain.WordPair
	for rows.Next() {
		p, err := scanPair(rows)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if pairs == nil {
		pairs = []domain.WordPair{}
	}

	return pairs, nil
}
