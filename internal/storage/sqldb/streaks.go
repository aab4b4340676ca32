package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ogtodo/internal/models"
)

type streakRow struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	CurrentStreak int       `db:"current_streak"`
	LongestStreak int       `db:"longest_streak"`
	LastUpdated   time.Time `db:"last_updated"`
	CreatedAt     time.Time `db:"created_at"`
}

func (s *Store) GetStreak(ctx context.Context, userID string) (models.Streak, error) {
	var row streakRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`
		SELECT id, user_id, current_streak, longest_streak, last_updated, created_at
		FROM streaks WHERE user_id = ?`), userID)
	if err != nil {
		if isNoRows(err) {
			return models.Streak{}, notFound("streak.not_found", "streak not found")
		}
		return models.Streak{}, fmt.Errorf("getting streak: %w", err)
	}
	return models.Streak{
		ID:            row.ID,
		UserID:        row.UserID,
		CurrentStreak: row.CurrentStreak,
		LongestStreak: row.LongestStreak,
		LastUpdated:   row.LastUpdated,
		CreatedAt:     row.CreatedAt,
	}, nil
}

func (s *Store) CreateStreak(ctx context.Context, streak models.Streak) error {
	if streak.ID == "" {
		streak.ID = uuid.New().String()
	}
	if streak.CreatedAt.IsZero() {
		streak.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO streaks (id, user_id, current_streak, longest_streak, last_updated, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`),
		streak.ID, streak.UserID, streak.CurrentStreak, streak.LongestStreak,
		utc(streak.LastUpdated), utc(streak.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating streak: %w", err)
	}
	return nil
}

func (s *Store) UpdateStreak(ctx context.Context, streak models.Streak) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE streaks SET current_streak = ?, longest_streak = ?, last_updated = ?
		WHERE user_id = ?`),
		streak.CurrentStreak, streak.LongestStreak, utc(streak.LastUpdated), streak.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating streak: %w", err)
	}
	return requireRows(result, "streak.not_found", "streak not found")
}
