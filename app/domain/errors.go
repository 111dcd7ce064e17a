package domain

import "errors"

// Authentication and session errors
var (
	// Credential errors, surfaced to callers of SignIn/SignUp
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountUnconfirmed  = errors.New("account not confirmed")
	ErrAccountInactive     = errors.New("account inactive")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrPasswordTooWeak     = errors.New("password too weak")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidEmail = errors.New("invalid email")

	// General errors
	ErrInternal           = errors.New("internal error")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// AuthError represents authentication-related errors with additional context
type AuthError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// NewAuthError creates a new authentication error
func NewAuthError(code, message string, cause error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common auth error codes
const (
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnconfirmed        = "ACCOUNT_UNCONFIRMED"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeSessionNotFound    = "SESSION_NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeUserExists         = "USER_EXISTS"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeUnknown            = "UNKNOWN"
)

// ValidationError represents validation errors with field-specific details
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
