package sqldb

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
)

type userRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Image        string    `db:"image"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) model() models.User {
	return models.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Image:        r.Image,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const userColumns = "id, name, email, password_hash, image, created_at, updated_at"

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		user.ID, user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Image,
		utc(user.CreatedAt), utc(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("auth.email_taken", "email already registered")
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, notFound("user.not_found", "user not found")
		}
		return models.User{}, fmt.Errorf("getting user %s: %w", id, err)
	}
	return row.model(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row,
		s.db.Rebind("SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER(?)"), email)
	if err != nil {
		if isNoRows(err) {
			return models.User{}, notFound("user.not_found", "user not found")
		}
		return models.User{}, fmt.Errorf("getting user by email: %w", err)
	}
	return row.model(), nil
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users SET name = ?, email = ?, password_hash = ?, image = ?, updated_at = ?
		WHERE id = ?`),
		user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Image, utc(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("auth.email_taken", "email already registered")
		}
		return fmt.Errorf("updating user %s: %w", user.ID, err)
	}
	return requireRows(result, "user.not_found", "user not found")
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return requireRows(result, "user.not_found", "user not found")
}
