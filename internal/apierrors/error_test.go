package apierrors_test

import (
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/translator"
)

func TestMain(m *testing.M) {
	translator.Translator = i18n.NewBundle(language.English)
	if err := translator.Translator.AddMessages(language.English, &i18n.Message{
		ID:    "test_key",
		Other: "Test message",
	}); err != nil {
		os.Exit(1)
	}
	if err := translator.Translator.AddMessages(language.French, &i18n.Message{
		ID:    "test_key",
		Other: "Message de test",
	}); err != nil {
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func TestCreateError_ReturnsJsonErr(t *testing.T) {
	err := apierrors.CreateError(400, "test_key", "en")
	assert.Equal(t, 400, err.ErrDetails.Code)
	assert.Equal(t, "Test message", err.ErrDetails.Message)
}

func TestGetTransErrorMsg_UsesLanguage(t *testing.T) {
	assert.Equal(t, "Message de test", apierrors.GetTransErrorMsg("test_key", "fr"))
	assert.Equal(t, "Test message", apierrors.GetTransErrorMsg("test_key", "de"))
}

func TestGetTransErrorMsg_FallbackToKey(t *testing.T) {
	assert.Equal(t, "unknown_key", apierrors.GetTransErrorMsg("unknown_key", "en"))
}

func TestJsonErr_ErrorMethod(t *testing.T) {
	err := apierrors.CreateError(500, "test_key", "en")
	assert.Equal(t, "Code: 500, Message: Test message", err.Error())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{"validation", apperrors.Validation("todo.invalid_date", "bad"), http.StatusBadRequest, "todo.invalid_date"},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.NotFound("todo.not_found", "missing")), http.StatusNotFound, "todo.not_found"},
		{"unauthorized", apperrors.Unauthorized("auth.invalid_token", "bad token"), http.StatusUnauthorized, "auth.invalid_token"},
		{"conflict", apperrors.Conflict("auth.email_taken", "taken"), http.StatusConflict, "auth.email_taken"},
		{"bare validation kind", fmt.Errorf("x: %w", apperrors.ErrValidation), http.StatusBadRequest, apierrors.MsgInvalidPayload},
		{"bare not found kind", apperrors.ErrNotFound, http.StatusNotFound, apierrors.MsgInternal},
		{"driver failure", fmt.Errorf("query: %w", os.ErrClosed), http.StatusInternalServerError, apierrors.MsgInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, key := apierrors.Classify(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}
