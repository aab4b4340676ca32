package apierrors

import (
	"fmt"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/translator"
)

// JsonErr represents the JSON structure for apierrors.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err represents the error with a code and message.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface for JsonErr.
func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError generates a JsonErr with a translated message.
func CreateError(code int, msgKey string, lang string) JsonErr {
	message := GetTransErrorMsg(msgKey, lang)
	return JsonErr{ErrDetails: Err{code, message}}
}

// GetTransErrorMsg retrieves the translated error message, falling back to the key.
func GetTransErrorMsg(msgKey string, lang string) string {
	if translator.Translator == nil {
		return msgKey
	}
	l := i18n.NewLocalizer(translator.Translator, lang, translator.LanguageEn)
	msg, err := l.Localize(&i18n.LocalizeConfig{MessageID: msgKey})
	if err != nil {
		logger.Warn("translation not found", "lang", lang, "message_id", msgKey, "err", err)
		return msgKey
	}
	return msg
}

// Classify maps a service error to an HTTP status and message key. Errors of
// no known kind are internal and get the generic message.
func Classify(err error) (int, string) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case apperrors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case apperrors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	default:
		return status, MsgInternal
	}

	key := apperrors.KeyOf(err)
	if key == "" {
		if status == http.StatusBadRequest {
			key = MsgInvalidPayload
		} else {
			key = MsgInternal
		}
	}
	return status, key
}
