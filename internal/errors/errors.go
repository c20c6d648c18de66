package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeContention    = "CONTENTION_ERROR"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// Process exit codes reported by the command line tools.
const (
	ExitOK            = 0
	ExitInternal      = 1
	ExitConfiguration = 2
	ExitContention    = 3
	ExitStorage       = 4
)

// AppError represents an application error with an error code and the process exit code it maps to
type AppError struct {
	Code     string // Error code (e.g., "NOT_FOUND", "CONTENTION_ERROR")
	Message  string // Human-readable error message
	ExitCode int    // Exit code for the command line tools
	Err      error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError carrying the same code, so callers can
// match on the sentinels below with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Code == e.Code
}

// Sentinels for errors.Is matching by code.
var (
	ErrNotFound      = &AppError{Code: ErrCodeNotFound}
	ErrValidation    = &AppError{Code: ErrCodeValidation}
	ErrConfiguration = &AppError{Code: ErrCodeConfiguration}
	ErrContention    = &AppError{Code: ErrCodeContention}
	ErrStorage       = &AppError{Code: ErrCodeStorage}
)

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%s not found: %v", resource, id),
		ExitCode: ExitInternal,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("validation failed for %s: %s", field, reason),
		ExitCode: ExitConfiguration,
	}
}

// NewConfigurationError creates a new CONFIGURATION_ERROR
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeConfiguration,
		Message:  message,
		ExitCode: ExitConfiguration,
	}
}

// NewContentionError reports a lock that could not be acquired in time
func NewContentionError(lockPath string, err error) *AppError {
	return &AppError{
		Code:     ErrCodeContention,
		Message:  fmt.Sprintf("another instance currently holds the %s lock file", lockPath),
		ExitCode: ExitContention,
		Err:      err,
	}
}

// NewStorageError wraps a failure while reading or writing a store
func NewStorageError(op string, err error) *AppError {
	return &AppError{
		Code:     ErrCodeStorage,
		Message:  op,
		ExitCode: ExitStorage,
		Err:      err,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:     ErrCodeInternal,
		Message:  "internal error",
		ExitCode: ExitInternal,
		Err:      err,
	}
}

// ExitCodeFor maps any error to the exit code of the first AppError in its chain.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}
	return ExitInternal
}
