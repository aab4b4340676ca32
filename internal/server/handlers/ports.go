package handlers

import (
	"context"
	"time"

	"github.com/julianstephens/ogtodo/internal/auth"
	"github.com/julianstephens/ogtodo/internal/commitments"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/profile"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type AuthService interface {
	SignUp(ctx context.Context, name, email, password string) (models.User, auth.Token, error)
	SignIn(ctx context.Context, email, password string) (models.User, auth.Token, error)
	SignOut(ctx context.Context, token string) error
}

type TodoService interface {
	Get(ctx context.Context, userID, date string) (models.Todo, error)
	List(ctx context.Context, userID, from, to string) ([]models.Todo, error)
	Put(ctx context.Context, userID, date string, input models.Todo) (models.Todo, bool, error)
	Delete(ctx context.Context, userID, date string) error
}

type StreakService interface {
	GetCurrentStreak(ctx context.Context, userID string) (models.StreakData, error)
}

type DashboardService interface {
	CommitmentStats(ctx context.Context, userID string) (models.CommitmentStats, error)
	StreakMonth(ctx context.Context, userID string, year, month int) (models.StreakMonth, error)
}

type CommitmentService interface {
	Add(ctx context.Context, userID string, in commitments.AddInput) (models.Commitment, error)
	Update(ctx context.Context, userID, id string, in commitments.UpdateInput) (models.Commitment, error)
	Toggle(ctx context.Context, userID, id string) (models.Commitment, error)
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (models.Commitment, error)
	List(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error)
	Categories(ctx context.Context, userID string) ([]string, error)
	BulkSetCompleted(ctx context.Context, userID string, ids []string, completed bool) (int64, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (models.User, error)
	Update(ctx context.Context, userID string, in profile.UpdateInput) (models.User, error)
	Stats(ctx context.Context, userID string) (models.ProfileStats, error)
	Export(ctx context.Context, userID string) (models.Export, error)
	DeleteAccount(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID, current, next string) error
}

// Clock returns the current time. Handlers use it to derive overdue flags.
type Clock func() time.Time
