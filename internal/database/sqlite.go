package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"modernc.org/sqlite"
)

const MemoryDSN = ":memory:"

// FoldFunc names the SQL function that lowercases text with Unicode case rules.
// SQLite's built-in lower() folds ASCII letters only.
const FoldFunc = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(FoldFunc, 1, foldText)
}

func foldText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

type SQLite struct {
	DB *sql.DB
}

// OpenSQLite opens the file at path, creating its directory when needed.
// MemoryDSN opens a private in-memory database held by a single connection.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	dsn := path
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("prepare sqlite directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Every connection to ":memory:" gets its own database, and sqlite
	// serialises writers anyway.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	slog.Info("database connected", "adapter", "sqlite", "path", path)
	return &SQLite{DB: db}, nil
}

func (s *SQLite) Close() {
	if s.DB != nil {
		_ = s.DB.Close()
	}
}

func (s *SQLite) Health(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
