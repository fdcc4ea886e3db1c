package pdf

import "fmt"

// Error represents errors that can occur while reading or splitting a PDF
type Error struct {
	Op      string
	Path    string
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pdf.%s [%s]: %s: %v", e.Op, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("pdf.%s [%s]: %s", e.Op, e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound      = "NotFound"
	ErrCodeInvalidFormat = "InvalidFormat"
	ErrCodeWriteFailed   = "WriteFailed"
)

func newError(op, path, code, message string, err error) *Error {
	return &Error{
		Op:      op,
		Path:    path,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
