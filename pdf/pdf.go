// Package pdf reads source PDFs, partitions them into page chunks and
// extracts their plain text locally.
package pdf

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultChunkSize is the number of pages written into each chunk
const DefaultChunkSize = 2

// Document is a source PDF loaded into memory
type Document struct {
	Path      string
	PageCount int
	Content   []byte
}

// PageRange is a half-open, zero-based range of pages [Start, End)
type PageRange struct {
	Start int
	End   int
}

// Len returns the number of pages in the range
func (r PageRange) Len() int {
	return r.End - r.Start
}

// Chunk is a contiguous run of pages from a Document written as its own PDF
type Chunk struct {
	Index int
	Pages PageRange
	Path  string
}

// Open reads the PDF at path and counts its pages. A missing or corrupt
// file is reported as an *Error and is never worth retrying.
func Open(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		code := ErrCodeInvalidFormat
		if errors.Is(err, fs.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return nil, newError("Open", path, code, "failed to read file", err)
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil {
		return nil, newError("Open", path, ErrCodeInvalidFormat, "failed to parse pdf", err)
	}

	return &Document{
		Path:      path,
		PageCount: ctx.PageCount,
		Content:   content,
	}, nil
}

// PageRanges partitions pageCount pages into consecutive ranges of at most
// size pages. The last range may be shorter.
func PageRanges(pageCount, size int) []PageRange {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if pageCount <= 0 {
		return nil
	}

	ranges := make([]PageRange, 0, (pageCount+size-1)/size)
	for start := 0; start < pageCount; start += size {
		end := start + size
		if end > pageCount {
			end = pageCount
		}
		ranges = append(ranges, PageRange{Start: start, End: end})
	}
	return ranges
}
