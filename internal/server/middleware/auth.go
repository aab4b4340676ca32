package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/constants"
	"github.com/julianstephens/ogtodo/internal/models"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, models.Session, error)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireAuth rejects requests without a valid session token and stores the
// caller's user and session ids on the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := GetLang(c)
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgAuthRequired, lang),
			)
			return
		}

		user, session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status, key := apierrors.Classify(err)
			if status == http.StatusInternalServerError {
				_ = c.Error(err)
			}
			c.AbortWithStatusJSON(status, apierrors.CreateError(status, key, lang))
			return
		}

		c.Set(constants.ContextUserIDKey, user.ID)
		c.Set(constants.ContextSessionKey, session.ID)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id, or "" outside RequireAuth.
func GetUserID(c *gin.Context) string {
	return c.GetString(constants.ContextUserIDKey)
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(constants.ContextSessionKey)
}
