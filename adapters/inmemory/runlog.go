package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/runlog"
)

// RunLogRepository implements runlog.Repository using in-memory storage
type RunLogRepository struct {
	runs map[string]runlog.Run
	mu   sync.RWMutex
}

// NewRunLogRepository creates a new in-memory run log
func NewRunLogRepository() *RunLogRepository {
	return &RunLogRepository{
		runs: make(map[string]runlog.Run),
	}
}

func (r *RunLogRepository) Save(ctx context.Context, run runlog.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run.FailedChunks = append([]int(nil), run.FailedChunks...)
	r.runs[run.ID] = run
	return nil
}

func (r *RunLogRepository) Get(ctx context.Context, id string) (*runlog.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, exists := r.runs[id]
	if !exists {
		return nil, runlog.NewNotFoundError("Get", id)
	}

	return &run, nil
}

func (r *RunLogRepository) List(ctx context.Context, filter runlog.Filter, limit int) ([]runlog.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var runs []runlog.Run
	for _, run := range r.runs {
		if filter.Matches(run) {
			runs = append(runs, run)
		}
	}

	// Newest first
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}

	return runs, nil
}
