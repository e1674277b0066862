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

	// Option errors
	ErrOptionParse ErrorCode = "OPTION_PARSE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
)

// KernelError represents a structured error with code and details
type KernelError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *KernelError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *KernelError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *KernelError) Is(target error) bool {
	var targetErr *KernelError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new KernelError with the given code and message
func New(code ErrorCode, message string) *KernelError {
	return &KernelError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new KernelError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *KernelError {
	return &KernelError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a KernelError
func Wrap(err error, code ErrorCode, message string) *KernelError {
	if err == nil {
		return nil
	}
	return &KernelError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *KernelError {
	if err == nil {
		return nil
	}
	return &KernelError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *KernelError) WithDetail(key string, value interface{}) *KernelError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var kerr *KernelError
	if errors.As(err, &kerr) {
		return kerr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a KernelError
func GetErrorCode(err error) ErrorCode {
	var kerr *KernelError
	if errors.As(err, &kerr) {
		return kerr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a KernelError
func GetErrorDetails(err error) map[string]interface{} {
	var kerr *KernelError
	if errors.As(err, &kerr) {
		return kerr.Details
	}
	return nil
}
