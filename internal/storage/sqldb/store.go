// Package sqldb implements the storage queries shared by the SQLite and
// PostgreSQL providers. Queries use ? placeholders and are rebound per driver.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) Store {
	return Store{db: db}
}

// DB returns the underlying connection, or nil before the provider is opened.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("database not opened")
	}
	return s.db.PingContext(ctx)
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func notFound(key, msg string) error {
	return apperrors.NotFound(key, msg)
}

// requireRows returns a not-found error when result touched no rows.
func requireRows(result sql.Result, key, msg string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if rows == 0 {
		return notFound(key, msg)
	}
	return nil
}

// utc normalizes timestamps before writing so text comparisons in SQLite order correctly.
func utc(t time.Time) time.Time {
	return t.UTC()
}
