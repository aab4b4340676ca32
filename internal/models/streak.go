package models

import "time"

type Streak struct {
	ID            string    `json:"id" yaml:"id"`
	UserID        string    `json:"user_id" yaml:"user_id"`
	CurrentStreak int       `json:"current_streak" yaml:"current_streak"`
	LongestStreak int       `json:"longest_streak" yaml:"longest_streak"`
	LastUpdated   time.Time `json:"last_updated" yaml:"last_updated"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// StreakData is the pair returned to dashboards.
type StreakData struct {
	CurrentStreak int `json:"current_streak" yaml:"current_streak"`
	LongestStreak int `json:"longest_streak" yaml:"longest_streak"`
}

// StreakMonth is the calendar view of one month of completions.
type StreakMonth struct {
	Year          int        `json:"year"`
	Month         int        `json:"month"`
	CompletedDays []int      `json:"completed_days"`
	Grid          []GridCell `json:"grid"`
	Streak        StreakData `json:"streak"`
}
