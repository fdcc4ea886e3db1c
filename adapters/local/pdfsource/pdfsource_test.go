package pdfsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/internal/pdftest"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	pdftest.WriteFile(t, dir, "b.pdf", 2)
	pdftest.WriteFile(t, dir, "a.PDF", 1)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	pdftest.WriteFile(t, sub, "c.pdf", 3)
	pdftest.WriteFile(t, dir, ".draft.pdf", 1)
	hidden := filepath.Join(dir, ".cache")
	if err := os.Mkdir(hidden, 0o755); err != nil {
		t.Fatal(err)
	}
	pdftest.WriteFile(t, hidden, "d.pdf", 1)
	return dir
}

func pageNames(docs []datasource.Document) []string {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = fmt.Sprintf("%s#%d", d.Metadata[datasource.MetaFilename], d.Metadata[datasource.MetaPage])
	}
	return names
}

func TestDirSource_Load(t *testing.T) {
	dir := setup(t)

	tests := []struct {
		name string
		opts []datasource.Option
		want []string
	}{
		{
			name: "top level only",
			want: []string{"a.PDF#0", "b.pdf#0", "b.pdf#1"},
		},
		{
			name: "recursive",
			opts: []datasource.Option{datasource.WithRecursive(true)},
			want: []string{"a.PDF#0", "b.pdf#0", "b.pdf#1", "c.pdf#0", "c.pdf#1", "c.pdf#2"},
		},
		{
			name: "max items counts pages",
			opts: []datasource.Option{datasource.WithRecursive(true), datasource.WithMaxItems(2)},
			want: []string{"a.PDF#0", "b.pdf#0"},
		},
		{
			name: "filter",
			opts: []datasource.Option{datasource.WithFilter(func(m map[string]interface{}) bool {
				return m[datasource.MetaFilename] != "a.PDF"
			})},
			want: []string{"b.pdf#0", "b.pdf#1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := NewDirSource(dir, quiet()).Load(context.Background(), tt.opts...)
			if err != nil {
				t.Fatalf("Load() unexpected error = %v", err)
			}

			got := pageNames(docs)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Load() files = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDirSource_LoadContent(t *testing.T) {
	dir := setup(t)

	docs, err := NewDirSource(dir, quiet()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("Load() returned %d documents, want 3", len(docs))
	}

	for i, want := range []string{"Page 1", "Page 2"} {
		b := docs[1+i]
		if b.Content != want {
			t.Errorf("page %d content = %q, want %q", i, b.Content, want)
		}
		if b.Metadata[datasource.MetaPages] != 2 || b.Metadata[datasource.MetaPage] != i {
			t.Errorf("page %d metadata = %v", i, b.Metadata)
		}
		if b.Source != filepath.Join(dir, "b.pdf") {
			t.Errorf("Source = %q", b.Source)
		}
	}
}

func TestDirSource_LoadMissingDir(t *testing.T) {
	_, err := NewDirSource(filepath.Join(t.TempDir(), "missing"), quiet()).Load(context.Background())

	var dsErr *datasource.DataSourceError
	if !errors.As(err, &dsErr) || dsErr.Code != datasource.ErrCodeNotFound {
		t.Errorf("Load() error = %v, want NotFound", err)
	}
}
