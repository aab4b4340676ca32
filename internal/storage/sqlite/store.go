package sqlite

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/migration"
	"github.com/julianstephens/ogtodo/internal/storage/sqldb"
	"github.com/julianstephens/ogtodo/migrations"
)

// MemoryPath opens a private in-memory database. Used by tests.
const MemoryPath = ":memory:"

const dsnParams = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"

type Store struct {
	sqldb.Store
	path string
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) isMemory() bool {
	return s.path == MemoryPath
}

func (s *Store) open() error {
	db, err := sqlx.Open("sqlite", s.path+"?"+dsnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if s.isMemory() {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	s.Store = sqldb.New(db)
	return nil
}

func (s *Store) Init() error {
	if !s.isMemory() {
		dir := filepath.Dir(s.path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if s.DB() == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.DB() != nil {
		return nil
	}

	if !s.isMemory() {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'ogtodo init' first")
		}
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion()
}

// Close releases the connection. The store can be opened again afterwards.
func (s *Store) Close() error {
	db := s.DB()
	if db == nil {
		return nil
	}
	s.Store = sqldb.Store{}
	return db.Close()
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.DB(), subFS), nil
}

func (s *Store) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(context.Background(), func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(context.Background())
}

// Migrator exposes the migration runner for the migrate and doctor commands.
func (s *Store) Migrator() (*migration.Runner, error) {
	if s.DB() == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}
	return s.runner()
}

func (s *Store) GetConfigPath() string {
	return s.path
}
