// Package runlog records the outcome of every extraction run, including
// which chunks came back empty.
package runlog

import (
	"context"
	"time"
)

// Run is the persisted summary of one pipeline run
type Run struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	OutputPath   string    `json:"output_path"`
	ObjectKey    string    `json:"object_key,omitempty"`
	ChunkCount   int       `json:"chunk_count"`
	FailedChunks []int     `json:"failed_chunks"`
	Characters   int       `json:"characters"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}

// Degraded reports whether any chunk of the run was dropped
func (r Run) Degraded() bool {
	return len(r.FailedChunks) > 0
}

// Filter narrows List results
type Filter struct {
	Source       string
	DegradedOnly bool
	Since        *time.Time
}

// Matches reports whether run satisfies the filter
func (f Filter) Matches(run Run) bool {
	if f.Source != "" && run.Source != f.Source {
		return false
	}
	if f.DegradedOnly && !run.Degraded() {
		return false
	}
	if f.Since != nil && run.StartedAt.Before(*f.Since) {
		return false
	}
	return true
}

// Repository stores run summaries
type Repository interface {
	// Save inserts or replaces a run
	Save(ctx context.Context, run Run) error

	// Get retrieves a run by ID
	Get(ctx context.Context, id string) (*Run, error)

	// List returns runs matching filter, newest first
	List(ctx context.Context, filter Filter, limit int) ([]Run, error)
}
