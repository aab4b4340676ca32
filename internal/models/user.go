package models

import "time"

type User struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	PasswordHash string    `json:"-" yaml:"-"`
	Image        string    `json:"image,omitempty" yaml:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ProfileStats is the profile page summary.
type ProfileStats struct {
	TotalCommitments     int     `json:"total_commitments"`
	CompletedCommitments int     `json:"completed_commitments"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
	TotalTodos           int     `json:"total_todos"`
	TodoCompletionRate   float64 `json:"todo_completion_rate"`
}

// Export is the full data export of one user.
type Export struct {
	ExportedAt  time.Time    `json:"exported_at" yaml:"exported_at"`
	User        User         `json:"user" yaml:"user"`
	Todos       []Todo       `json:"todos" yaml:"todos"`
	Commitments []Commitment `json:"commitments" yaml:"commitments"`
	Streak      StreakData   `json:"streak" yaml:"streak"`
}
