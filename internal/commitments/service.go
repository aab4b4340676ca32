// Package commitments manages longer-term commitments with due dates and priorities.
package commitments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/models"
)

type Store interface {
	CreateCommitment(ctx context.Context, c models.Commitment) error
	GetCommitment(ctx context.Context, userID, id string) (models.Commitment, error)
	UpdateCommitment(ctx context.Context, c models.Commitment) error
	DeleteCommitment(ctx context.Context, userID, id string) error
	ListCommitments(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error)
	ListCategories(ctx context.Context, userID string) ([]string, error)
	SetCommitmentsCompleted(ctx context.Context, userID string, ids []string, completed bool) (int64, error)
}

// AddInput is a new commitment. Priority accepts any casing.
type AddInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
	DueDate     time.Time
}

// UpdateInput changes the non-nil fields of a commitment.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	Category    *string
	DueDate     *time.Time
	IsCompleted *bool
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

func required(field string) error {
	return apperrors.Validation("commitment."+field+"_required", field+" is required")
}

func invalidPriority(err error) error {
	return &apperrors.DomainError{
		Kind:    apperrors.ErrValidation,
		Key:     "commitment.invalid_priority",
		Message: "invalid priority",
		Err:     err,
	}
}

func (s *Service) Add(ctx context.Context, userID string, in AddInput) (models.Commitment, error) {
	if strings.TrimSpace(userID) == "" {
		return models.Commitment{}, apperrors.Unauthorized("auth.required", "sign in required")
	}
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	switch {
	case title == "":
		return models.Commitment{}, required("title")
	case description == "":
		return models.Commitment{}, required("description")
	case category == "":
		return models.Commitment{}, required("category")
	case in.DueDate.IsZero():
		return models.Commitment{}, required("due_date")
	}
	priority, err := models.ParsePriority(in.Priority)
	if err != nil {
		return models.Commitment{}, invalidPriority(err)
	}
	now := s.now().UTC()
	if !in.DueDate.After(now) {
		return models.Commitment{}, apperrors.Validation("commitment.due_date_past", "due date must be in the future")
	}

	c := models.Commitment{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Category:    category,
		DueDate:     in.DueDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateCommitment(ctx, c); err != nil {
		return models.Commitment{}, fmt.Errorf("creating commitment: %w", err)
	}
	logger.Debug("Commitment created", "user", userID, "id", c.ID, "priority", c.Priority)
	return c, nil
}

func (s *Service) Update(ctx context.Context, userID, id string, in UpdateInput) (models.Commitment, error) {
	c, err := s.store.GetCommitment(ctx, userID, id)
	if err != nil {
		return models.Commitment{}, err
	}

	trimmed := func(field string, v *string, dst *string) error {
		if v == nil {
			return nil
		}
		value := strings.TrimSpace(*v)
		if value == "" {
			return required(field)
		}
		*dst = value
		return nil
	}
	if err := trimmed("title", in.Title, &c.Title); err != nil {
		return models.Commitment{}, err
	}
	if err := trimmed("description", in.Description, &c.Description); err != nil {
		return models.Commitment{}, err
	}
	if err := trimmed("category", in.Category, &c.Category); err != nil {
		return models.Commitment{}, err
	}
	if in.Priority != nil {
		p, err := models.ParsePriority(*in.Priority)
		if err != nil {
			return models.Commitment{}, invalidPriority(err)
		}
		c.Priority = p
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			return models.Commitment{}, required("due_date")
		}
		c.DueDate = in.DueDate.UTC()
	}
	if in.IsCompleted != nil {
		c.IsCompleted = *in.IsCompleted
	}

	c.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateCommitment(ctx, c); err != nil {
		return models.Commitment{}, fmt.Errorf("updating commitment %s: %w", id, err)
	}
	return c, nil
}

// Toggle flips the completed flag and returns the updated commitment.
func (s *Service) Toggle(ctx context.Context, userID, id string) (models.Commitment, error) {
	c, err := s.store.GetCommitment(ctx, userID, id)
	if err != nil {
		return models.Commitment{}, err
	}
	done := !c.IsCompleted
	return s.Update(ctx, userID, id, UpdateInput{IsCompleted: &done})
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeleteCommitment(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, userID, id string) (models.Commitment, error) {
	return s.store.GetCommitment(ctx, userID, id)
}

// List returns the user's commitments, incomplete first, then by priority
// (high first), due date and newest creation.
func (s *Service) List(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error) {
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, invalidPriority(fmt.Errorf("unknown priority %q", *filter.Priority))
	}
	if (filter.Overdue || filter.DueSoon) && filter.Now.IsZero() {
		filter.Now = s.now()
	}
	return s.store.ListCommitments(ctx, userID, filter)
}

func (s *Service) Categories(ctx context.Context, userID string) ([]string, error) {
	return s.store.ListCategories(ctx, userID)
}

// BulkSetCompleted sets the completed flag on every listed commitment and
// returns the number changed.
func (s *Service) BulkSetCompleted(ctx context.Context, userID string, ids []string, completed bool) (int64, error) {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			clean = append(clean, id)
		}
	}
	if len(clean) == 0 {
		return 0, apperrors.Validation("commitment.ids_required", "at least one commitment id is required")
	}
	n, err := s.store.SetCommitmentsCompleted(ctx, userID, clean, completed)
	if err != nil {
		return 0, fmt.Errorf("bulk updating commitments: %w", err)
	}
	return n, nil
}
