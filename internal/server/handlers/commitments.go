package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/commitments"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/server/dto"
	"github.com/julianstephens/ogtodo/internal/server/mapper"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

type CommitmentHandler struct {
	commitments CommitmentService
	dashboard   DashboardService
	now         Clock
}

func NewCommitmentHandler(commitments CommitmentService, dashboard DashboardService, now Clock) *CommitmentHandler {
	if now == nil {
		now = time.Now
	}
	return &CommitmentHandler{commitments: commitments, dashboard: dashboard, now: now}
}

// parseFilter reads the list filters. Unknown priorities are left for the
// service to reject.
func parseFilter(c *gin.Context) (models.CommitmentFilter, bool) {
	var filter models.CommitmentFilter
	if p := strings.TrimSpace(c.Query("priority")); p != "" {
		priority := models.Priority(strings.ToUpper(p))
		filter.Priority = &priority
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = &category
	}

	flags := []struct {
		name string
		set  func(bool)
	}{
		{"completed", func(v bool) { filter.Completed = &v }},
		{"overdue", func(v bool) { filter.Overdue = v }},
		{"due_soon", func(v bool) { filter.DueSoon = v }},
	}
	for _, f := range flags {
		raw := c.Query(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			abortBadRequest(c, apierrors.MsgInvalidQuery)
			return filter, false
		}
		f.set(v)
	}
	return filter, true
}

func (h *CommitmentHandler) ListCommitments(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	list, err := h.commitments.List(c.Request.Context(), middleware.GetUserID(c), filter)
	if err != nil {
		abortWithError(c, "list commitments", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToCommitmentItems(list, h.now()))
}

func (h *CommitmentHandler) CreateCommitment(c *gin.Context) {
	var req dto.CreateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	due, err := mapper.ParseDueDate(req.DueDate)
	if err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	created, err := h.commitments.Add(c.Request.Context(), middleware.GetUserID(c), commitments.AddInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		DueDate:     due,
	})
	if err != nil {
		abortWithError(c, "create commitment", err)
		return
	}
	c.JSON(http.StatusCreated, mapper.ToCommitmentItem(created, h.now()))
}

func (h *CommitmentHandler) GetCommitment(c *gin.Context) {
	found, err := h.commitments.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, "get commitment", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToCommitmentItem(found, h.now()))
}

func (h *CommitmentHandler) UpdateCommitment(c *gin.Context) {
	var req dto.UpdateCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	in := commitments.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		IsCompleted: req.IsCompleted,
	}
	if req.DueDate != nil {
		due, err := mapper.ParseDueDate(*req.DueDate)
		if err != nil {
			abortBadRequest(c, apierrors.MsgInvalidPayload)
			return
		}
		in.DueDate = &due
	}

	updated, err := h.commitments.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), in)
	if err != nil {
		abortWithError(c, "update commitment", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToCommitmentItem(updated, h.now()))
}

func (h *CommitmentHandler) ToggleCommitment(c *gin.Context) {
	toggled, err := h.commitments.Toggle(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, "toggle commitment", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToCommitmentItem(toggled, h.now()))
}

func (h *CommitmentHandler) DeleteCommitment(c *gin.Context) {
	if err := h.commitments.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		abortWithError(c, "delete commitment", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommitmentHandler) BulkComplete(c *gin.Context) {
	var req dto.BulkCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	n, err := h.commitments.BulkSetCompleted(c.Request.Context(), middleware.GetUserID(c), req.IDs, *req.Completed)
	if err != nil {
		abortWithError(c, "bulk update commitments", err)
		return
	}
	c.JSON(http.StatusOK, dto.BulkCompleteResponse{Updated: n})
}

func (h *CommitmentHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.CommitmentStats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, "compute commitment stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *CommitmentHandler) Categories(c *gin.Context) {
	categories, err := h.commitments.Categories(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, "list categories", err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}
