package pipeline

import (
	"context"
	"os"
	"strings"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
)

// ExtractSource loads every document from ds and writes their text, in
// load order, into a single file at outputPath. Each document ends with a
// newline and documents are separated by one more, so per-page sources
// leave a blank line between pages.
func ExtractSource(ctx context.Context, ds datasource.DataSource, outputPath string, opts ...Option) (string, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	docs, err := ds.Load(ctx, options.LoadOptions...)
	if err != nil {
		return "", &PipelineError{Op: "ExtractSource", Source: outputPath, Message: "failed to load documents", Err: err}
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content + "\n"
	}
	text := strings.Join(texts, "\n")

	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return "", &PipelineError{Op: "ExtractSource", Source: outputPath, Message: "failed to write output", Err: err}
	}

	options.Logger.Info("extraction complete", "documents", len(docs), "output", outputPath)
	return text, nil
}
