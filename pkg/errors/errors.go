package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Pattern errors, raised before any filesystem access
	ErrPattern ErrorCode = "PATTERN_INVALID"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Traversal errors. These never abort a run on their own.
	ErrPathIO ErrorCode = "PATH_IO"

	// Boundary errors
	ErrOutput      ErrorCode = "OUTPUT"
	ErrHookExecute ErrorCode = "HOOK_EXECUTE"
)

// FgroupError represents a structured error with code and details
type FgroupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *FgroupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *FgroupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *FgroupError) Is(target error) bool {
	var targetErr *FgroupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new FgroupError with the given code and message
func New(code ErrorCode, message string) *FgroupError {
	return &FgroupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new FgroupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *FgroupError {
	return &FgroupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a FgroupError
func Wrap(err error, code ErrorCode, message string) *FgroupError {
	if err == nil {
		return nil
	}
	return &FgroupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FgroupError {
	if err == nil {
		return nil
	}
	return &FgroupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *FgroupError) WithDetail(key string, value interface{}) *FgroupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *FgroupError) WithDetails(details map[string]interface{}) *FgroupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var fgErr *FgroupError
	if errors.As(err, &fgErr) {
		return fgErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a FgroupError
func GetErrorCode(err error) ErrorCode {
	var fgErr *FgroupError
	if errors.As(err, &fgErr) {
		return fgErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a FgroupError
func GetErrorDetails(err error) map[string]interface{} {
	var fgErr *FgroupError
	if errors.As(err, &fgErr) {
		return fgErr.Details
	}
	return nil
}

// IsConfigError reports whether err is any of the configuration errors.
func IsConfigError(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigValid:
		return true
	}
	return false
}

// IsFatal reports whether err must abort a run. Per-path IO errors are the
// only non-fatal kind.
func IsFatal(err error) bool {
	return err != nil && !IsErrorCode(err, ErrPathIO)
}
