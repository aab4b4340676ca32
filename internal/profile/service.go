// Package profile serves the account area: details, stats, export and deletion.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/ogtodo/internal/auth"
	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/models"
)

type Store interface {
	GetUser(ctx context.Context, id string) (models.User, error)
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	ListTodos(ctx context.Context, userID string) ([]models.Todo, error)
	ListCommitments(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error)
}

// StatsSource computes the profile summary and current streak.
type StatsSource interface {
	ProfileStats(ctx context.Context, userID string) (models.ProfileStats, error)
}

type StreakReader interface {
	GetCurrentStreak(ctx context.Context, userID string) (models.StreakData, error)
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", apperrors.Validation("profile.invalid_format", fmt.Sprintf("unsupported export format %q", s))
}

// ContentType is the MIME type of the export encoding.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

type UpdateInput struct {
	Name  string
	Email string
	Image string
}

type Service struct {
	store   Store
	stats   StatsSource
	streaks StreakReader
	now     func() time.Time
	cost    int
}

func NewService(store Store, stats StatsSource, streaks StreakReader) *Service {
	return &Service{store: store, stats: stats, streaks: streaks, now: time.Now, cost: bcrypt.DefaultCost}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// WithBcryptCost returns a copy of the service hashing new passwords at cost.
func (s *Service) WithBcryptCost(cost int) *Service {
	cp := *s
	cp.cost = cost
	return &cp
}

func (s *Service) Get(ctx context.Context, userID string) (models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// Update applies the non-empty fields of in.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if strings.TrimSpace(in.Email) != "" {
		email, err := auth.NormalizeEmail(in.Email)
		if err != nil {
			return models.User{}, err
		}
		user.Email = email
	}
	if image := strings.TrimSpace(in.Image); image != "" {
		user.Image = image
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (models.ProfileStats, error) {
	return s.stats.ProfileStats(ctx, userID)
}

// Export gathers everything the user owns.
func (s *Service) Export(ctx context.Context, userID string) (models.Export, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return models.Export{}, err
	}
	todos, err := s.store.ListTodos(ctx, userID)
	if err != nil {
		return models.Export{}, fmt.Errorf("listing todos: %w", err)
	}
	commitments, err := s.store.ListCommitments(ctx, userID, models.CommitmentFilter{})
	if err != nil {
		return models.Export{}, fmt.Errorf("listing commitments: %w", err)
	}
	streak, err := s.streaks.GetCurrentStreak(ctx, userID)
	if err != nil {
		return models.Export{}, fmt.Errorf("reading streak: %w", err)
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	if commitments == nil {
		commitments = []models.Commitment{}
	}
	return models.Export{
		ExportedAt:  s.now().UTC(),
		User:        user,
		Todos:       todos,
		Commitments: commitments,
		Streak:      streak,
	}, nil
}

// EncodeExport renders an export in the given format.
func EncodeExport(export models.Export, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(export); err != nil {
			return nil, fmt.Errorf("encoding yaml export: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml export: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json export: %w", err)
		}
		return append(data, '\n'), nil
	}
}

// DeleteAccount removes the user and, through cascades, all of their data.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	logger.Info("Account deleted", "user", userID)
	return nil
}

// ChangePassword replaces the password after verifying the current one and
// signs out every session of the user.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return apperrors.Unauthorized("profile.wrong_password", "current password is incorrect")
	}
	hash, err := auth.HashPassword(next, s.cost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	if err := s.store.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}
	return nil
}
