// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("resource conflict")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrBusinessRule = errors.New("business rule violated")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// AppError carries everything needed to render an error response.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    map[string][]string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: status,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

// NotFoundError renders as "<Resource> not found".
func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		capitalize(resource)+" not found",
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func ValidationError(details map[string][]string) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Message:    "Invalid input",
		StatusCode: http.StatusBadRequest,
		Code:       "VALIDATION_ERROR",
		Details:    details,
	}
}

// RuleError reports a business-rule conflict. The message must name the rule
// and, where useful, the offending state.
func RuleError(status int, code, message string) *AppError {
	return NewAppError(ErrBusinessRule, message, status, code)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already exists", field),
		http.StatusConflict,
		"DUPLICATE",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(ErrTokenInvalid, "Unauthorized", http.StatusUnauthorized, "TOKEN_INVALID")
}

func TokenExpiredError() *AppError {
	return NewAppError(ErrTokenExpired, "Unauthorized", http.StatusUnauthorized, "TOKEN_EXPIRED")
}

func capitalize(s string) string {
	if s == "" {
		return "Resource"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
