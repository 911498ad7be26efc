package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"candidate-registry/internal/model"
)

const candidateColumns = `id, name, email, phone, skills, experience_years, location, availability, created_at`

// CandidateRepository stores candidates in PostgreSQL.
type CandidateRepository struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
}

func NewCandidateRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *CandidateRepository {
	return &CandidateRepository{pool: pool, queryTimeout: queryTimeout}
}

func (r *CandidateRepository) List(ctx context.Context) ([]model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storeError("list candidates", err)
	}

	return collectCandidates(rows, "list candidates")
}

func (r *CandidateRepository) Get(ctx context.Context, id int64) (model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	c, err := scanCandidate(r.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Candidate{}, model.ErrCandidateNotFound
	}
	if err != nil {
		return model.Candidate{}, storeError("get candidate", err)
	}
	return c, nil
}

func (r *CandidateRepository) Create(ctx context.Context, in model.CandidateInput, createdAt time.Time) (model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	c, err := scanCandidate(r.pool.QueryRow(ctx,
		`INSERT INTO candidates (name, email, phone, skills, experience_years, location, availability, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+candidateColumns,
		in.Name, in.Email, in.Phone, in.Skills, in.ExperienceYears, in.Location, in.Availability, createdAt))
	if err != nil {
		return model.Candidate{}, storeError("create candidate", err)
	}
	return c, nil
}

func (r *CandidateRepository) Update(ctx context.Context, id int64, in model.CandidateInput) (model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	c, err := scanCandidate(r.pool.QueryRow(ctx,
		`UPDATE candidates
		 SET name = $2, email = $3, phone = $4, skills = $5, experience_years = $6, location = $7, availability = $8
		 WHERE id = $1
		 RETURNING `+candidateColumns,
		id, in.Name, in.Email, in.Phone, in.Skills, in.ExperienceYears, in.Location, in.Availability))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Candidate{}, model.ErrCandidateNotFound
	}
	if err != nil {
		return model.Candidate{}, storeError("update candidate", err)
	}
	return c, nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return storeError("delete candidate", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCandidateNotFound
	}
	return nil
}

func (r *CandidateRepository) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE lower(name) LIKE lower($1) ESCAPE '\'
		    OR lower(email) LIKE lower($1) ESCAPE '\'
		    OR lower(skills) LIKE lower($1) ESCAPE '\'
		 ORDER BY created_at DESC, id DESC`, likePattern(query))
	if err != nil {
		return nil, storeError("search candidates", err)
	}

	return collectCandidates(rows, "search candidates")
}

func scanCandidate(row pgx.Row) (model.Candidate, error) {
	var c model.Candidate
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Skills, &c.ExperienceYears, &c.Location, &c.Availability, &c.CreatedAt)
	c.CreatedAt = c.CreatedAt.UTC()
	return c, err
}

func collectCandidates(rows pgx.Rows, op string) ([]model.Candidate, error) {
	defer rows.Close()

	candidates := make([]model.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return candidates, nil
}

func withQueryTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
