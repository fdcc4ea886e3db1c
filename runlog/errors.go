package runlog

import (
	"errors"
	"fmt"
)

// RunLogError represents errors that can occur in run log operations
type RunLogError struct {
	Op      string
	ID      string
	Code    string
	Message string
	Err     error
}

func (e *RunLogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("runlog.%s [%s]: %s: %v", e.Op, e.ID, e.Message, e.Err)
	}
	return fmt.Sprintf("runlog.%s [%s]: %s", e.Op, e.ID, e.Message)
}

func (e *RunLogError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound = "NotFound"
	ErrCodeInternal = "Internal"
)

// NewNotFoundError creates the error returned for an unknown run ID
func NewNotFoundError(op, id string) error {
	return &RunLogError{
		Op:      op,
		ID:      id,
		Code:    ErrCodeNotFound,
		Message: "run not found",
	}
}

// IsNotFound reports whether err is a RunLogError with the NotFound code
func IsNotFound(err error) bool {
	var re *RunLogError
	return errors.As(err, &re) && re.Code == ErrCodeNotFound
}
