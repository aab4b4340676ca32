package dto

type CommitmentItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	PriorityLabel string `json:"priority_label"`
	Category      string `json:"category"`
	DueDate       string `json:"due_date"`
	IsCompleted   bool   `json:"is_completed"`
	IsOverdue     bool   `json:"is_overdue"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// CreateCommitmentRequest accepts due_date as RFC3339 or YYYY-MM-DD.
type CreateCommitmentRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
	Category    string `json:"category" binding:"required,max=100"`
	DueDate     string `json:"due_date" binding:"required"`
}

type UpdateCommitmentRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	DueDate     *string `json:"due_date"`
	IsCompleted *bool   `json:"is_completed"`
}

type BulkCompleteRequest struct {
	IDs       []string `json:"ids" binding:"required,min=1"`
	Completed *bool    `json:"completed" binding:"required"`
}

type BulkCompleteResponse struct {
	Updated int64 `json:"updated"`
}
