package command

import (
	"errors"
	"fmt"
)

// CommandError represents a domain-specific error
type CommandError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeInvalidColor   = "INVALID_COLOR"
	ErrCodePaletteFull    = "PALETTE_FULL"
	ErrCodeDuplicateColor = "DUPLICATE_COLOR"
	ErrCodeColorNotFound  = "COLOR_NOT_FOUND"
	ErrCodeUnknownEffect  = "UNKNOWN_EFFECT"
	ErrCodeStorageFailure = "STORAGE_FAILURE"
)

// NewCommandError creates a new command error
func NewCommandError(code, message string, cause error) *CommandError {
	return &CommandError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode extracts the command error code, or "" for other errors.
func ErrorCode(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}
	return ""
}
