package types

import "fmt"

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. All engine code MUST use these constants instead of
// hardcoded strings.
const (
	// Configuration errors abort the run before any work.
	ErrCodeConfigMissing ErrorCode = "config_missing_required_value"
	ErrCodeConfigInvalid ErrorCode = "config_invalid_value"

	// Store errors are recoverable per item unless raised during the
	// initial event scan.
	ErrCodeStoreQuery  ErrorCode = "store_query_failed"
	ErrCodeStoreCreate ErrorCode = "store_create_failed"
	ErrCodeStoreUpdate ErrorCode = "store_update_failed"

	// Lookups that found nothing where a record was expected.
	ErrCodeNotFoundProfile ErrorCode = "not_found_profile"
	ErrCodeNotFoundEvent   ErrorCode = "not_found_event"
)

// AppError is the standard application error carrying a machine-readable
// code, a human-readable message, and an optional wrapped cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// NewAppError constructs an AppError wrapping the given cause.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}
