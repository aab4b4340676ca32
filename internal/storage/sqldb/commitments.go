package sqldb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/models"
)

type commitmentRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Priority    string    `db:"priority"`
	Category    string    `db:"category"`
	DueDate     time.Time `db:"due_date"`
	IsCompleted bool      `db:"is_completed"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r commitmentRow) model() models.Commitment {
	return models.Commitment{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    models.Priority(r.Priority),
		Category:    r.Category,
		DueDate:     r.DueDate,
		IsCompleted: r.IsCompleted,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const (
	commitmentColumns = "id, user_id, title, description, priority, category, due_date, is_completed, created_at, updated_at"
	commitmentOrder   = ` ORDER BY is_completed ASC,
		CASE priority WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC,
		due_date ASC, created_at DESC`
)

func (s *Store) CreateCommitment(ctx context.Context, c models.Commitment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO commitments (`+commitmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.UserID, c.Title, c.Description, string(c.Priority), c.Category,
		utc(c.DueDate), c.IsCompleted, utc(c.CreatedAt), utc(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating commitment: %w", err)
	}
	return nil
}

func (s *Store) GetCommitment(ctx context.Context, userID, id string) (models.Commitment, error) {
	var row commitmentRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(
		"SELECT "+commitmentColumns+" FROM commitments WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		if isNoRows(err) {
			return models.Commitment{}, notFound("commitment.not_found", "commitment not found")
		}
		return models.Commitment{}, fmt.Errorf("getting commitment %s: %w", id, err)
	}
	return row.model(), nil
}

func (s *Store) UpdateCommitment(ctx context.Context, c models.Commitment) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE commitments SET
			title = ?, description = ?, priority = ?, category = ?,
			due_date = ?, is_completed = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`),
		c.Title, c.Description, string(c.Priority), c.Category,
		utc(c.DueDate), c.IsCompleted, utc(c.UpdatedAt),
		c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating commitment %s: %w", c.ID, err)
	}
	return requireRows(result, "commitment.not_found", "commitment not found")
}

func (s *Store) DeleteCommitment(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(
		"DELETE FROM commitments WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return fmt.Errorf("deleting commitment %s: %w", id, err)
	}
	return requireRows(result, "commitment.not_found", "commitment not found")
}

// filterClause builds the WHERE clause for a commitment filter.
func filterClause(userID string, f models.CommitmentFilter) (string, []any) {
	conds := []string{"user_id = ?"}
	args := []any{userID}

	if f.Priority != nil {
		conds = append(conds, "priority = ?")
		args = append(args, string(*f.Priority))
	}
	if f.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *f.Category)
	}
	if f.Completed != nil {
		conds = append(conds, "is_completed = ?")
		args = append(args, *f.Completed)
	}

	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	if f.Overdue {
		conds = append(conds, "is_completed = ?", "due_date < ?")
		args = append(args, false, utc(now))
	}
	if f.DueSoon {
		conds = append(conds, "is_completed = ?", "due_date >= ?", "due_date <= ?")
		args = append(args, false, utc(now), utc(now.Add(constants.DueSoonWindow)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListCommitments(ctx context.Context, userID string, filter models.CommitmentFilter) ([]models.Commitment, error) {
	where, args := filterClause(userID, filter)
	var rows []commitmentRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(
		"SELECT "+commitmentColumns+" FROM commitments"+where+commitmentOrder), args...); err != nil {
		return nil, fmt.Errorf("listing commitments: %w", err)
	}
	out := make([]models.Commitment, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

func (s *Store) CountCommitments(ctx context.Context, userID string, filter models.CommitmentFilter) (int, error) {
	where, args := filterClause(userID, filter)
	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind("SELECT COUNT(*) FROM commitments"+where), args...); err != nil {
		return 0, fmt.Errorf("counting commitments: %w", err)
	}
	return count, nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]string, error) {
	categories := []string{}
	if err := s.db.SelectContext(ctx, &categories, s.db.Rebind(
		"SELECT DISTINCT category FROM commitments WHERE user_id = ? ORDER BY category ASC"), userID); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return categories, nil
}

func (s *Store) SetCommitmentsCompleted(ctx context.Context, userID string, ids []string, completed bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(
		"UPDATE commitments SET is_completed = ?, updated_at = ? WHERE user_id = ? AND id IN (?)",
		completed, utc(time.Now()), userID, ids,
	)
	if err != nil {
		return 0, fmt.Errorf("building bulk update: %w", err)
	}
	result, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("bulk updating commitments: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return rows, nil
}
