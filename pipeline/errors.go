package pipeline

import "fmt"

// PipelineError represents a fatal error that stopped a run
type PipelineError struct {
	Op      string
	Source  string
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pipeline.%s [%s]: %s: %v", e.Op, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("pipeline.%s [%s]: %s", e.Op, e.Source, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
