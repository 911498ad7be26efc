package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"candidate-registry/internal/model"
)

type SQLiteUserRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func NewSQLiteUserRepository(db *sql.DB, queryTimeout time.Duration) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db, queryTimeout: queryTimeout}
}

func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	u, err := scanSQLiteUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE lower(email) = lower(?)`,
		strings.TrimSpace(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, storeError("find user by email", err)
	}
	return u, nil
}

func (r *SQLiteUserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	u.CreatedAt = u.CreatedAt.UTC()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		u.Name, u.Email, u.PasswordHash, u.CreatedAt.Format(sqliteTimeLayout)).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrUserAlreadyExists
		}
		return model.User{}, storeError("create user", err)
	}
	return u, nil
}

func (r *SQLiteUserRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := withQueryTimeout(ctx, r.queryTimeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, storeError("count users", err)
	}
	return count, nil
}

func scanSQLiteUser(row rowScanner) (model.User, error) {
	var (
		u         model.User
		createdAt string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return model.User{}, err
	}

	parsed, err := time.Parse(sqliteTimeLayout, createdAt)
	if err != nil {
		return model.User{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	u.CreatedAt = parsed
	return u, nil
}
