package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/runlog"
	"github.com/lib/pq"
)

type RunLogRepository struct {
	db *sql.DB
}

func NewRunLogRepository(db *sql.DB) (*RunLogRepository, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}
	return &RunLogRepository{db: db}, nil
}

// Required database schema
const schema = `
CREATE TABLE IF NOT EXISTS extraction_runs (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    output_path TEXT NOT NULL,
    object_key TEXT,
    chunk_count INTEGER NOT NULL,
    failed_chunks BIGINT[] NOT NULL DEFAULT '{}',
    characters INTEGER NOT NULL,
    started_at TIMESTAMP WITH TIME ZONE NOT NULL,
    finished_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_extraction_runs_source ON extraction_runs(source);
CREATE INDEX IF NOT EXISTS idx_extraction_runs_started_at ON extraction_runs(started_at);
`

func (r *RunLogRepository) InitSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *RunLogRepository) Save(ctx context.Context, run runlog.Run) error {
	query := `
		INSERT INTO extraction_runs
			(id, source, output_path, object_key, chunk_count, failed_chunks, characters, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			output_path = EXCLUDED.output_path,
			object_key = EXCLUDED.object_key,
			chunk_count = EXCLUDED.chunk_count,
			failed_chunks = EXCLUDED.failed_chunks,
			characters = EXCLUDED.characters,
			started_at = EXCLUDED.started_at,
			finished_at = EXCLUDED.finished_at
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.Source,
		run.OutputPath,
		run.ObjectKey,
		run.ChunkCount,
		pq.Array(toInt64s(run.FailedChunks)),
		run.Characters,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return &runlog.RunLogError{
			Op:      "Save",
			ID:      run.ID,
			Code:    runlog.ErrCodeInternal,
			Message: "failed to save run",
			Err:     err,
		}
	}
	return nil
}

func (r *RunLogRepository) Get(ctx context.Context, id string) (*runlog.Run, error) {
	query := `
		SELECT id, source, output_path, object_key, chunk_count, failed_chunks, characters, started_at, finished_at
		FROM extraction_runs
		WHERE id = $1
	`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, runlog.NewNotFoundError("Get", id)
	}
	if err != nil {
		return nil, &runlog.RunLogError{
			Op:      "Get",
			ID:      id,
			Code:    runlog.ErrCodeInternal,
			Message: "failed to load run",
			Err:     err,
		}
	}
	return run, nil
}

func (r *RunLogRepository) List(ctx context.Context, filter runlog.Filter, limit int) ([]runlog.Run, error) {
	conditions := []string{"TRUE"}
	params := []interface{}{}
	paramCount := 1

	if filter.Source != "" {
		conditions = append(conditions, fmt.Sprintf("source = $%d", paramCount))
		params = append(params, filter.Source)
		paramCount++
	}

	if filter.DegradedOnly {
		conditions = append(conditions, "cardinality(failed_chunks) > 0")
	}

	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("started_at >= $%d", paramCount))
		params = append(params, *filter.Since)
		paramCount++
	}

	query := fmt.Sprintf(`
		SELECT id, source, output_path, object_key, chunk_count, failed_chunks, characters, started_at, finished_at
		FROM extraction_runs
		WHERE %s
		ORDER BY started_at DESC
	`, strings.Join(conditions, " AND "))

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", paramCount)
		params = append(params, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, &runlog.RunLogError{
			Op:      "List",
			Code:    runlog.ErrCodeInternal,
			Message: "failed to query runs",
			Err:     err,
		}
	}
	defer rows.Close()

	var runs []runlog.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*runlog.Run, error) {
	var run runlog.Run
	var objectKey sql.NullString
	var failed []int64

	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.OutputPath,
		&objectKey,
		&run.ChunkCount,
		pq.Array(&failed),
		&run.Characters,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.ObjectKey = objectKey.String
	run.FailedChunks = toInts(failed)
	return &run, nil
}

func toInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func toInts(values []int64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}
