package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

type StreakHandler struct {
	streaks   StreakService
	dashboard DashboardService
}

func NewStreakHandler(streaks StreakService, dashboard DashboardService) *StreakHandler {
	return &StreakHandler{streaks: streaks, dashboard: dashboard}
}

// GetStreak scores today if needed and returns the current and longest streak.
func (h *StreakHandler) GetStreak(c *gin.Context) {
	streak, err := h.streaks.GetCurrentStreak(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, "get streak", err)
		return
	}
	c.JSON(http.StatusOK, streak)
}

// GetMonth returns the calendar grid. Missing year or month mean the current one.
func (h *StreakHandler) GetMonth(c *gin.Context) {
	year, ok := optionalInt(c, "year")
	if !ok {
		return
	}
	month, ok := optionalInt(c, "month")
	if !ok {
		return
	}

	view, err := h.dashboard.StreakMonth(c.Request.Context(), middleware.GetUserID(c), year, month)
	if err != nil {
		abortWithError(c, "get streak month", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// optionalInt parses an integer query parameter, writing a 400 when it is malformed.
func optionalInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		abortBadRequest(c, apierrors.MsgInvalidQuery)
		return 0, false
	}
	return v, true
}
