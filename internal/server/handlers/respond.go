package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

// abortWithError writes the translated error body for err. Internal errors
// are logged with action and never expose their text.
func abortWithError(c *gin.Context, action string, err error) {
	status, key := apierrors.Classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("failed to "+action, "user_id", middleware.GetUserID(c), "err", err)
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, apierrors.CreateError(status, key, middleware.GetLang(c)))
}

// abortBadRequest writes a 400 with the given message key.
func abortBadRequest(c *gin.Context, msgKey string) {
	c.AbortWithStatusJSON(
		http.StatusBadRequest,
		apierrors.CreateError(http.StatusBadRequest, msgKey, middleware.GetLang(c)),
	)
}
