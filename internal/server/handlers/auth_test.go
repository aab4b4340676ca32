package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/auth"
	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/models"
	"github.com/julianstephens/ogtodo/internal/server/dto"
	"github.com/julianstephens/ogtodo/internal/server/handlers"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

func authRouter(svc handlers.AuthService) *gin.Engine {
	h := handlers.NewAuthHandler(svc)
	r := gin.New()
	r.Use(middleware.LanguageMiddleware())
	r.POST("/api/auth/signup", h.SignUp)
	r.POST("/api/auth/signin", h.SignIn)
	r.POST("/api/auth/signout", h.SignOut)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.JsonErr {
	t.Helper()
	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	expires := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	svc := new(authServiceMock)
	svc.On("SignUp", mock.Anything, "Ada", "ada@example.com", "correct horse").Return(
		models.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		auth.Token{Value: "signed", ExpiresAt: expires},
		nil,
	).Once()

	rec := do(authRouter(svc), http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"correct horse"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got dto.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "signed", got.Token)
	assert.Equal(t, "2026-03-16T12:00:00Z", got.ExpiresAt)
	assert.Equal(t, "u1", got.User.ID)
	svc.AssertExpectations(t)
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	svc := new(authServiceMock)

	rec := do(authRouter(svc), http.MethodPost, "/api/auth/signup", `{"name":"Ada"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The request body is not valid.", decodeError(t, rec).ErrDetails.Message)
	svc.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_SignUp_EmailTakenIsTranslated(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("SignUp", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(
		models.User{}, auth.Token{}, apperrors.Conflict("auth.email_taken", "email already registered"),
	).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		jsonBody(`{"name":"Ada","email":"ada@example.com","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "fr")
	rec := httptest.NewRecorder()
	authRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, http.StatusConflict, got.ErrDetails.Code)
	assert.Equal(t, "Un compte existe déjà avec cette adresse e-mail.", got.ErrDetails.Message)
}

func TestAuthHandler_SignIn_InvalidCredentials(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("SignIn", mock.Anything, "ada@example.com", "wrong").Return(
		models.User{}, auth.Token{}, apperrors.Unauthorized("auth.invalid_credentials", "invalid email or password"),
	).Once()

	rec := do(authRouter(svc), http.MethodPost, "/api/auth/signin", `{"email":"ada@example.com","password":"wrong"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password.", decodeError(t, rec).ErrDetails.Message)
}

func TestAuthHandler_SignOut(t *testing.T) {
	svc := new(authServiceMock)
	svc.On("SignOut", mock.Anything, "tok").Return(nil).Once()
	r := authRouter(svc)

	rec := do(r, http.MethodPost, "/api/auth/signout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertNotCalled(t, "SignOut", mock.Anything, mock.Anything)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
