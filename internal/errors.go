package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

// statusOf is the HTTP status every error of a type renders with.
var statusOf = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeInternal:     http.StatusInternalServerError,
}

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"

	ErrCodeMissingCredential   ErrorCode = "MISSING_CREDENTIAL"
	ErrCodeInvalidCredential   ErrorCode = "INVALID_CREDENTIAL"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeDuplicateCredential ErrorCode = "DUPLICATE_CREDENTIAL"

	ErrCodeInvalidAction  ErrorCode = "INVALID_ACTION"
	ErrCodeAccessDenied   ErrorCode = "ACCESS_DENIED"
	ErrCodeNotFoundOrDeny ErrorCode = "RESOURCE_NOT_FOUND"

	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound ErrorCode = "ROLE_NOT_FOUND"
)

// AppError is the only error type handlers render. Cause is logged, never
// sent to the client.
type AppError struct {
	Type       ErrorType
	Code       ErrorCode
	Message    string
	Details    interface{}
	StatusCode int
	Cause      error
}

func newAppError(typ ErrorType, code ErrorCode, message string) *AppError {
	return &AppError{
		Type:       typ,
		Code:       code,
		Message:    message,
		StatusCode: statusOf[typ],
	}
}

func (e *AppError) Error() string {
	if v, ok := e.Details.(ValidationErrors); ok && len(v.Errors) > 0 {
		return v.Errors[0].Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so wrapped copies of a
// sentinel still compare equal with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// WithCause returns a copy of e with cause attached. Sentinels stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationFieldErrors(errs []ValidationError) *AppError {
	e := newAppError(ErrorTypeValidation, ErrCodeValidationFailed, "Validation failed")
	e.Details = ValidationErrors{Errors: errs}
	return e
}

func NewInternalError(message string, cause error) *AppError {
	e := newAppError(ErrorTypeInternal, ErrCodeInternal, message)
	e.Cause = cause
	return e
}

var (
	ErrMissingCredential = newAppError(ErrorTypeUnauthorized, ErrCodeMissingCredential, "Access token missing")
	ErrInvalidCredential = newAppError(ErrorTypeForbidden, ErrCodeInvalidCredential, "Invalid or expired token")
	ErrInvalidLogin      = newAppError(ErrorTypeUnauthorized, ErrCodeInvalidCredentials, "Invalid username or password")

	ErrInvalidAction    = newAppError(ErrorTypeValidation, ErrCodeInvalidAction, "Invalid action")
	ErrAccessDenied     = newAppError(ErrorTypeForbidden, ErrCodeAccessDenied, "Access denied")
	ErrNotFoundOrDenied = newAppError(ErrorTypeNotFound, ErrCodeNotFoundOrDeny, "Resource not found")

	ErrDuplicateCredential = newAppError(ErrorTypeConflict, ErrCodeDuplicateCredential, "Username, email or license plate already exists")
	ErrUserNotFound        = newAppError(ErrorTypeNotFound, ErrCodeUserNotFound, "User not found")
	ErrRoleNotFound        = newAppError(ErrorTypeNotFound, ErrCodeRoleNotFound, "Role not found")

	ErrInvalidID   = newAppError(ErrorTypeValidation, ErrCodeInvalidID, "Invalid id")
	ErrInvalidBody = newAppError(ErrorTypeValidation, ErrCodeInvalidBody, "Invalid request body")
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the envelope of every error body.
type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{e.Type, e.Code, e.Message, e.Details})
}
