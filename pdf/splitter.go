package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Splitter writes a Document out as a sequence of page chunks
type Splitter interface {
	Split(ctx context.Context, doc *Document, outDir string) ([]Chunk, error)
}

// PageSplitter splits documents into fixed size page chunks using pdfcpu
type PageSplitter struct {
	opts *SplitOptions
}

// NewPageSplitter creates a splitter, two pages per chunk unless WithChunkSize says otherwise
func NewPageSplitter(opts ...Option) *PageSplitter {
	options := defaultSplitOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &PageSplitter{opts: options}
}

// ChunkSize returns the configured number of pages per chunk
func (s *PageSplitter) ChunkSize() int {
	return s.opts.ChunkSize
}

// Split writes one PDF per page range into outDir and returns the chunks in
// page order. outDir must already exist.
func (s *PageSplitter) Split(ctx context.Context, doc *Document, outDir string) ([]Chunk, error) {
	if doc == nil || doc.PageCount == 0 {
		path := ""
		if doc != nil {
			path = doc.Path
		}
		return nil, newError("Split", path, ErrCodeInvalidFormat, "document has no pages", nil)
	}

	ranges := PageRanges(doc.PageCount, s.opts.ChunkSize)
	chunks := make([]Chunk, 0, len(ranges))

	for i, r := range ranges {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunkPath := filepath.Join(outDir, fmt.Sprintf(s.opts.NamePattern, i))
		if err := writeRange(doc, r, chunkPath); err != nil {
			return nil, err
		}

		s.opts.Logger.Debug("wrote chunk",
			"source", doc.Path,
			"chunk", i,
			"first_page", r.Start+1,
			"last_page", r.End,
			"path", chunkPath,
		)

		chunks = append(chunks, Chunk{
			Index: i,
			Pages: r,
			Path:  chunkPath,
		})
	}

	return chunks, nil
}

func writeRange(doc *Document, r PageRange, path string) error {
	var buf bytes.Buffer
	selection := []string{fmt.Sprintf("%d-%d", r.Start+1, r.End)}

	if err := api.Trim(bytes.NewReader(doc.Content), &buf, selection, model.NewDefaultConfiguration()); err != nil {
		return newError("Split", doc.Path, ErrCodeInvalidFormat,
			fmt.Sprintf("failed to select pages %d-%d", r.Start+1, r.End), err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return newError("Split", path, ErrCodeWriteFailed, "failed to write chunk", err)
	}

	return nil
}
