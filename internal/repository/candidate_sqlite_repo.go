package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"candidate-registry/internal/model"
)

// sqliteTimeLayout is fixed width so lexical order matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type rowScanner interface {
	Scan(dest ...any) error
}

// SQLiteCandidateRepository stores candidates in SQLite.
type SQLiteCandidateRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func NewSQLiteCandidateRepository(db *sql.DB, queryTimeout time.Duration) *SQLiteCandidateRepository {
	return &SQLiteCandidateRepository{db: db, queryTimeout: queryTimeout}
}

func (r *SQLiteCandidateRepository) List(ctx context.Context) ([]model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storeError("list candidates", err)
	}

	return collectSQLiteCandidates(rows, "list candidates")
}

func (r *SQLiteCandidateRepository) Get(ctx context.Context, id int64) (model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	c, err := scanSQLiteCandidate(r.db.QueryRowContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Candidate{}, model.ErrCandidateNotFound
	}
	if err != nil {
		return model.Candidate{}, storeError("get candidate", err)
	}
	return c, nil
}

func (r *SQLiteCandidateRepository) Create(ctx context.Context, in model.CandidateInput, createdAt time.Time) (model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	c, err := scanSQLiteCandidate(r.db.QueryRowContext(ctx,
		`INSERT INTO candidates (name, email, phone, skills, experience_years, location, availability, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+candidateColumns,
		in.Name, in.Email, in.Phone, in.Skills, in.ExperienceYears, in.Location, in.Availability,
		createdAt.UTC().Format(sqliteTimeLayout)))
	if err != nil {
		return model.Candidate{}, storeError("create candidate", err)
	}
	return c, nil
}

func (r *SQLiteCandidateRepository) Update(ctx context.Context, id int64, in model.CandidateInput) (model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	c, err := scanSQLiteCandidate(r.db.QueryRowContext(ctx,
		`UPDATE candidates
		 SET name = ?, email = ?, phone = ?, skills = ?, experience_years = ?, location = ?, availability = ?
		 WHERE id = ?
		 RETURNING `+candidateColumns,
		in.Name, in.Email, in.Phone, in.Skills, in.ExperienceYears, in.Location, in.Availability, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Candidate{}, model.ErrCandidateNotFound
	}
	if err != nil {
		return model.Candidate{}, storeError("update candidate", err)
	}
	return c, nil
}

func (r *SQLiteCandidateRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil {
		return storeError("delete candidate", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeError("delete candidate", err)
	}
	if affected == 0 {
		return model.ErrCandidateNotFound
	}
	return nil
}

func (r *SQLiteCandidateRepository) Search(ctx context.Context, query string) ([]model.Candidate, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	pattern := likePattern(query)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidates
		 WHERE unicode_lower(name) LIKE unicode_lower(?) ESCAPE '\'
		    OR unicode_lower(email) LIKE unicode_lower(?) ESCAPE '\'
		    OR unicode_lower(skills) LIKE unicode_lower(?) ESCAPE '\'
		 ORDER BY created_at DESC, id DESC`, pattern, pattern, pattern)
	if err != nil {
		return nil, storeError("search candidates", err)
	}

	return collectSQLiteCandidates(rows, "search candidates")
}

func scanSQLiteCandidate(row rowScanner) (model.Candidate, error) {
	var (
		c         model.Candidate
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Skills, &c.ExperienceYears, &c.Location, &c.Availability, &createdAt); err != nil {
		return model.Candidate{}, err
	}

	parsed, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	c.CreatedAt = parsed
	return c, nil
}

func collectSQLiteCandidates(rows *sql.Rows, op string) ([]model.Candidate, error) {
	defer rows.Close()

	candidates := make([]model.Candidate, 0)
	for rows.Next() {
		c, err := scanSQLiteCandidate(rows)
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
