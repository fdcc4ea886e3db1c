// Package extraction defines the port for remote, per-chunk text
// extraction and the retry policy shared by its adapters.
package extraction

import (
	"context"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
)

// Status is the terminal state of one chunk extraction
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Result is the text extracted for one chunk. A failed result never
// carries text.
type Result struct {
	ChunkIndex int    `json:"chunk_index"`
	Path       string `json:"path"`
	RawText    string `json:"raw_text,omitempty"`
	Text       string `json:"text"`
	Status     Status `json:"status"`
	Attempts   int    `json:"attempts"`
	Err        error  `json:"-"`
}

// Failed reports whether the retry budget ran out without a usable payload
func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

// Extractor turns a PDF chunk into text
type Extractor interface {
	// Extract returns the chunk text. Remote faults are retried and end in a
	// StatusFailed result; the error is only for local faults such as an
	// unreadable chunk file.
	Extract(ctx context.Context, chunk pdf.Chunk) (Result, error)
}

// FailedResult builds the empty result recorded after the retry budget is spent
func FailedResult(chunk pdf.Chunk, attempts int, err error) Result {
	return Result{
		ChunkIndex: chunk.Index,
		Path:       chunk.Path,
		Status:     StatusFailed,
		Attempts:   attempts,
		Err:        err,
	}
}
