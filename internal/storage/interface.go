package storage

import (
	"context"

	"github.com/julianstephens/ogtodo/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	Ping(ctx context.Context) error

	UserStore
	SessionStore
	TodoStore
	StreakStore
	CommitmentStore

	// Utils
	GetConfigPath() string
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	// DeleteUser removes the user and everything the user owns.
	DeleteUser(ctx context.Context, id string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
}

type TodoStore interface {
	GetTodoByDate(ctx context.Context, userID, date string) (models.Todo, error)
	GetTodo(ctx context.Context, userID, id string) (models.Todo, error)
	// CreateTodo persists a new todo with its children and returns it with its assigned ID.
	CreateTodo(ctx context.Context, todo models.Todo) (models.Todo, error)
	// UpdateTodo replaces the todo's tasks, subtasks and notes in one transaction.
	UpdateTodo(ctx context.Context, todo models.Todo) error
	DeleteTodo(ctx context.Context, userID, id string) error
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
	// ListTodosInRange returns todos with from <= date <= to. Empty bounds are open.
	ListTodosInRange(ctx context.Context, userID, from, to string) ([]models.Todo, error)
}

type StreakStore interface {
	GetStreak(ctx context.Context, userID string) (models.Streak, error)
	CreateStreak(ctx context.Context, streak models.Streak) error
	UpdateStreak(ctx context.Context, streak models.Streak) error
}

type CommitmentStore interface {
	CreateCommitment(ctx context.Context, c models.Commitment) error
	GetCommitment(ctx context.Context, userID, id string) (models.Commitment, error)
	UpdateCommitment(ctx context.Context, c models.Commitment) error
	DeleteCommitment(ctx context.Context, userID, id string) error
	ListCommitments(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error)
	CountCommitments(ctx context.Context, userID string, filter models.CommitmentFilter) (int, error)
	ListCategories(ctx context.Context, userID string) ([]string, error)
	// SetCommitmentsCompleted updates the completed flag of the given commitments
	// and returns how many rows changed.
	SetCommitmentsCompleted(ctx context.Context, userID string, ids []string, completed bool) (int64, error)
}
