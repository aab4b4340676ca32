package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/ogtodo/internal/models"
)

type sessionRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (s *Store) CreateSession(ctx context.Context, session models.Session) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO sessions (id, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`),
		session.ID, session.UserID, utc(session.ExpiresAt), utc(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (models.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind("SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?"), id)
	if err != nil {
		if isNoRows(err) {
			return models.Session{}, notFound("auth.session_not_found", "session not found")
		}
		return models.Session{}, fmt.Errorf("getting session: %w", err)
	}
	return models.Session{
		ID:        row.ID,
		UserID:    row.UserID,
		ExpiresAt: row.ExpiresAt,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM sessions WHERE id = ?"), id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *Store) DeleteUserSessions(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM sessions WHERE user_id = ?"), userID); err != nil {
		return fmt.Errorf("deleting sessions for user %s: %w", userID, err)
	}
	return nil
}
