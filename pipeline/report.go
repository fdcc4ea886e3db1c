package pipeline

import (
	"time"
	"unicode/utf8"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/extraction"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/runlog"
)

// Report describes one finished run. Failed lists the indexes of chunks
// whose text is missing from Text.
type Report struct {
	RunID      string
	Source     string
	OutputPath string
	ObjectKey  string
	Text       string
	Chunks     []extraction.Result
	Failed     []int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Degraded reports whether any chunk was dropped from the output
func (r *Report) Degraded() bool {
	return len(r.Failed) > 0
}

// Run converts the report into its run log entry
func (r *Report) Run() runlog.Run {
	return runlog.Run{
		ID:           r.RunID,
		Source:       r.Source,
		OutputPath:   r.OutputPath,
		ObjectKey:    r.ObjectKey,
		ChunkCount:   len(r.Chunks),
		FailedChunks: append([]int(nil), r.Failed...),
		Characters:   utf8.RuneCountInString(r.Text),
		StartedAt:    r.StartedAt,
		FinishedAt:   r.FinishedAt,
	}
}
