package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/ogtodo/internal/logger"
)

// Error kinds. Services wrap these so callers can branch with errors.Is.
var (
	ErrValidation   = stderrors.New("validation failed")
	ErrNotFound     = stderrors.New("not found")
	ErrUnauthorized = stderrors.New("unauthorized")
	ErrConflict     = stderrors.New("conflict")
)

// DomainError is an error of a known kind with a stable message key.
// Key is used by the HTTP layer to look up a translated message.
type DomainError struct {
	Kind    error
	Key     string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Is(target error) bool {
	return target == e.Kind
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Validation returns an ErrValidation-kind error.
func Validation(key, message string) error {
	return &DomainError{Kind: ErrValidation, Key: key, Message: message}
}

// NotFound returns an ErrNotFound-kind error.
func NotFound(key, message string) error {
	return &DomainError{Kind: ErrNotFound, Key: key, Message: message}
}

// Unauthorized returns an ErrUnauthorized-kind error.
func Unauthorized(key, message string) error {
	return &DomainError{Kind: ErrUnauthorized, Key: key, Message: message}
}

// Conflict returns an ErrConflict-kind error.
func Conflict(key, message string) error {
	return &DomainError{Kind: ErrConflict, Key: key, Message: message}
}

// KeyOf returns the message key of the first DomainError in err's chain.
func KeyOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Key
	}
	return ""
}

// Is and As re-export the standard helpers so callers need one import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
