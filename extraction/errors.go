package extraction

import "fmt"

// ExtractionError represents errors that can occur while extracting a chunk
type ExtractionError struct {
	Op      string
	Path    string
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extraction.%s [%s]: %s", e.Op, e.Path, e.Message)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "RateLimitExceeded"
	ErrCodeAPIError          = "APIError"
	ErrCodeInvalidFormat     = "InvalidFormat"
	ErrCodeTransport         = "Transport"
	ErrCodeFileUnreadable    = "FileUnreadable"
	ErrCodeInternal          = "Internal"
)

// Class maps an error code to the retry class it belongs to
func (e *ExtractionError) Class() FailureClass {
	switch e.Code {
	case ErrCodeRateLimitExceeded:
		return FailureRateLimited
	case ErrCodeAPIError:
		return FailureStatus
	case ErrCodeInvalidFormat:
		return FailureMalformed
	default:
		return FailureTransport
	}
}
