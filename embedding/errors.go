package embedding

import "fmt"

// EmbeddingError represents errors that can occur during embedding operations
type EmbeddingError struct {
	Op      string
	Err     error
	Code    string
	Message string
}

// Error implements the error interface
func (e *EmbeddingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding.%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("embedding.%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error
func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

// Common error codes for embedding operations
const (
	ErrCodeInvalidInput       = "InvalidInput"
	ErrCodeModelNotAvailable  = "ModelNotAvailable"
	ErrCodeRateLimitExceeded  = "RateLimitExceeded"
	ErrCodeEmptyInput         = "EmptyInput"
	ErrCodeAPIError           = "APIError"
	ErrCodeInternal           = "Internal"
)

// NewEmbeddingError creates a new EmbeddingError
func NewEmbeddingError(op string, err error, code, message string) *EmbeddingError {
	return &EmbeddingError{
		Op:      op,
		Err:     err,
		Code:    code,
		Message: message,
	}
}

func ErrInvalidInput(op string, err error, details string) error {
	return NewEmbeddingError(op, err, ErrCodeInvalidInput,
		fmt.Sprintf("invalid input: %s", details))
}

func ErrModelNotAvailable(op string, err error) error {
	return NewEmbeddingError(op, err, ErrCodeModelNotAvailable,
		"embedding model is not available")
}

func ErrRateLimitExceeded(op string, err error) error {
	return NewEmbeddingError(op, err, ErrCodeRateLimitExceeded,
		"rate limit exceeded for embedding requests")
}

func ErrEmptyInput(op string) error {
	return NewEmbeddingError(op, nil, ErrCodeEmptyInput,
		"input text or documents cannot be empty")
}
