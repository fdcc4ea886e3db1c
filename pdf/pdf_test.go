package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/internal/pdftest"
)

func TestPageRanges(t *testing.T) {
	tests := []struct {
		name      string
		pageCount int
		size      int
		want      []PageRange
	}{
		{
			name:      "Even split",
			pageCount: 4,
			size:      2,
			want:      []PageRange{{0, 2}, {2, 4}},
		},
		{
			name:      "Short last chunk",
			pageCount: 5,
			size:      2,
			want:      []PageRange{{0, 2}, {2, 4}, {4, 5}},
		},
		{
			name:      "Single page document",
			pageCount: 1,
			size:      2,
			want:      []PageRange{{0, 1}},
		},
		{
			name:      "Chunk larger than document",
			pageCount: 3,
			size:      10,
			want:      []PageRange{{0, 3}},
		},
		{
			name:      "Non-positive size falls back to default",
			pageCount: 3,
			size:      0,
			want:      []PageRange{{0, 2}, {2, 3}},
		},
		{
			name:      "Empty document",
			pageCount: 0,
			size:      2,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageRanges(tt.pageCount, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("PageRanges() returned %d ranges, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPageRanges_Partition(t *testing.T) {
	for pages := 1; pages <= 25; pages++ {
		for size := 1; size <= 7; size++ {
			ranges := PageRanges(pages, size)

			want := (pages + size - 1) / size
			if len(ranges) != want {
				t.Fatalf("P=%d S=%d: got %d ranges, want %d", pages, size, len(ranges), want)
			}

			next := 0
			for i, r := range ranges {
				if r.Start != next {
					t.Fatalf("P=%d S=%d: range %d starts at %d, want %d", pages, size, i, r.Start, next)
				}
				if r.Len() <= 0 || r.Len() > size {
					t.Fatalf("P=%d S=%d: range %d has length %d", pages, size, i, r.Len())
				}
				next = r.End
			}
			if next != pages {
				t.Fatalf("P=%d S=%d: ranges end at %d, want %d", pages, size, next, pages)
			}
		}
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := pdftest.WriteFile(t, dir, "source.pdf", 5)

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() unexpected error = %v", err)
	}
	if doc.PageCount != 5 {
		t.Errorf("PageCount = %d, want 5", doc.PageCount)
	}
	if doc.Path != path {
		t.Errorf("Path = %q, want %q", doc.Path, path)
	}
	if len(doc.Content) == 0 {
		t.Error("Content is empty")
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.pdf")
	if err := os.WriteFile(corrupt, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{
			name:     "Missing file",
			path:     filepath.Join(dir, "missing.pdf"),
			wantCode: ErrCodeNotFound,
		},
		{
			name:     "Corrupt file",
			path:     corrupt,
			wantCode: ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path)
			if err == nil {
				t.Fatal("Open() error = nil, want error")
			}
			var pe *Error
			if !errors.As(err, &pe) {
				t.Fatalf("Open() error type = %T, want *Error", err)
			}
			if pe.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", pe.Code, tt.wantCode)
			}
		})
	}
}

func TestPageSplitter_Split(t *testing.T) {
	tests := []struct {
		name      string
		pages     int
		chunkSize int
		wantPages []int
	}{
		{
			name:      "Default chunk size",
			pages:     5,
			chunkSize: 0,
			wantPages: []int{2, 2, 1},
		},
		{
			name:      "Three page chunks",
			pages:     6,
			chunkSize: 3,
			wantPages: []int{3, 3},
		},
		{
			name:      "Single page",
			pages:     1,
			chunkSize: 2,
			wantPages: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			outDir := filepath.Join(dir, "chunks")
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				t.Fatal(err)
			}

			doc, err := Open(pdftest.WriteFile(t, dir, "source.pdf", tt.pages))
			if err != nil {
				t.Fatalf("Open() unexpected error = %v", err)
			}

			splitter := NewPageSplitter(WithChunkSize(tt.chunkSize))
			chunks, err := splitter.Split(context.Background(), doc, outDir)
			if err != nil {
				t.Fatalf("Split() unexpected error = %v", err)
			}

			if len(chunks) != len(tt.wantPages) {
				t.Fatalf("Split() returned %d chunks, want %d", len(chunks), len(tt.wantPages))
			}

			for i, chunk := range chunks {
				if chunk.Index != i {
					t.Errorf("chunk %d has index %d", i, chunk.Index)
				}
				if want := filepath.Join(outDir, fmt.Sprintf("chunk_%d.pdf", i)); chunk.Path != want {
					t.Errorf("chunk %d path = %q, want %q", i, chunk.Path, want)
				}

				part, err := Open(chunk.Path)
				if err != nil {
					t.Fatalf("chunk %d is not a readable pdf: %v", i, err)
				}
				if part.PageCount != tt.wantPages[i] {
					t.Errorf("chunk %d has %d pages, want %d", i, part.PageCount, tt.wantPages[i])
				}
				if chunk.Pages.Len() != tt.wantPages[i] {
					t.Errorf("chunk %d range %+v, want %d pages", i, chunk.Pages, tt.wantPages[i])
				}
			}
		})
	}
}

func TestPageSplitter_SplitEmptyDocument(t *testing.T) {
	_, err := NewPageSplitter().Split(context.Background(), &Document{Path: "empty.pdf"}, t.TempDir())
	if err == nil {
		t.Fatal("Split() error = nil, want error for document without pages")
	}
}

func TestExtractTextFile(t *testing.T) {
	path := pdftest.WriteFile(t, t.TempDir(), "english.pdf", 2)

	text, pages, err := ExtractTextFile(path)
	if err != nil {
		t.Fatalf("ExtractTextFile() unexpected error = %v", err)
	}
	if pages != 2 {
		t.Errorf("pages = %d, want 2", pages)
	}
	for _, want := range []string{"Page 1", "Page 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("text %q does not contain %q", text, want)
		}
	}
}

func TestExtractPagesFile(t *testing.T) {
	dir := t.TempDir()
	path := pdftest.WriteFile(t, dir, "pages.pdf", 3)

	texts, pages, err := ExtractPagesFile(path)
	if err != nil {
		t.Fatalf("ExtractPagesFile() unexpected error = %v", err)
	}
	if pages != 3 || len(texts) != 3 {
		t.Fatalf("got %d texts for %d pages, want 3 and 3", len(texts), pages)
	}
	for i, text := range texts {
		if want := fmt.Sprintf("Page %d", i+1); text != want {
			t.Errorf("page %d = %q, want %q", i, text, want)
		}
	}

	broken := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(broken, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err = ExtractPagesFile(broken)
	var pe *Error
	if !errors.As(err, &pe) || pe.Code != ErrCodeInvalidFormat || pe.Path != broken {
		t.Errorf("ExtractPagesFile(broken) error = %v, want InvalidFormat for %s", err, broken)
	}
}
