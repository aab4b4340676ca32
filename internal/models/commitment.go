package models

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority accepts any casing of low, medium or high.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (expected LOW, MEDIUM or HIGH)", s)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the display form (Low, Medium, High).
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

// Rank orders priorities from low (1) to high (3). Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	}
	return 0
}

type Commitment struct {
	ID          string    `json:"id" yaml:"id"`
	UserID      string    `json:"user_id" yaml:"user_id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Category    string    `json:"category" yaml:"category"`
	DueDate     time.Time `json:"due_date" yaml:"due_date"`
	IsCompleted bool      `json:"is_completed" yaml:"is_completed"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsOverdue reports whether the commitment is incomplete and due before now.
func (c *Commitment) IsOverdue(now time.Time) bool {
	return !c.IsCompleted && c.DueDate.Before(now)
}

// IsDueSoon reports whether the commitment is incomplete and due within [now, now+window].
func (c *Commitment) IsDueSoon(now time.Time, window time.Duration) bool {
	if c.IsCompleted || c.DueDate.Before(now) {
		return false
	}
	return !c.DueDate.After(now.Add(window))
}

// CommitmentFilter narrows a commitment listing. Nil fields are not applied.
type CommitmentFilter struct {
	Priority  *Priority
	Category  *string
	Completed *bool
	// Overdue and DueSoon are evaluated against Now.
	Overdue bool
	DueSoon bool
	Now     time.Time
}

// CommitmentStats is the commitments dashboard summary.
type CommitmentStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	CompletionRate int `json:"completion_rate"`
	Overdue        int `json:"overdue"`
	DueSoon        int `json:"due_soon"`
}
