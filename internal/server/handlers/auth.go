package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/auth"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/server/dto"
	"github.com/julianstephens/ogtodo/internal/server/mapper"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

type AuthHandler struct {
	auth AuthService
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func authResponse(user models.User, token auth.Token) dto.AuthResponse {
	return dto.AuthResponse{
		User:      mapper.ToUserItem(user),
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt.Format(time.RFC3339),
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	user, token, err := h.auth.SignUp(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		abortWithError(c, "sign up", err)
		return
	}
	c.JSON(http.StatusCreated, authResponse(user, token))
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}

	user, token, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, "sign in", err)
		return
	}
	c.JSON(http.StatusOK, authResponse(user, token))
}

// SignOut revokes the presented token's session. It succeeds without a token.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.auth.SignOut(c.Request.Context(), token); err != nil {
		abortWithError(c, "sign out", err)
		return
	}
	c.Status(http.StatusNoContent)
}
