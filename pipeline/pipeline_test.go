package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/adapters/inmemory"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/adapters/local/pdfsource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/extraction"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/internal/pdftest"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
)

type fakeExtractor struct {
	texts  map[int]string
	failed map[int]bool
	fatal  map[int]error
	seen   []int
}

func (f *fakeExtractor) Extract(ctx context.Context, chunk pdf.Chunk) (extraction.Result, error) {
	f.seen = append(f.seen, chunk.Index)

	if err := f.fatal[chunk.Index]; err != nil {
		return extraction.FailedResult(chunk, 0, err), err
	}
	if f.failed[chunk.Index] {
		return extraction.FailedResult(chunk, 3, errors.New("rate limited")), nil
	}

	return extraction.Result{
		ChunkIndex: chunk.Index,
		Path:       chunk.Path,
		Text:       f.texts[chunk.Index],
		Status:     extraction.StatusSucceeded,
		Attempts:   1,
	}, nil
}

type recordingSleeper struct {
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPipeline_Process(t *testing.T) {
	dir := t.TempDir()
	source := pdftest.WriteFile(t, dir, "arabic.pdf", 5)
	scratch := filepath.Join(dir, "pdf_chunks")

	extractor := &fakeExtractor{
		texts: map[int]string{
			0: "بسم الله الرحمن الرحيم",
			2: "الحمد لله\n\n\nرب العالمين",
		},
		failed: map[int]bool{1: true},
	}
	sleeper := &recordingSleeper{}
	runs := inmemory.NewRunLogRepository()
	store := inmemory.NewDataStore()

	p := New(pdf.NewPageSplitter(), extractor,
		WithScratchDir(scratch),
		WithSleeper(sleeper.Sleep),
		WithLogger(quietLogger()),
		WithRunLog(runs),
		WithPublisher(store, "extracted"),
		WithGenerateID(func() string { return "run-1" }),
	)

	report, err := p.Process(context.Background(), source)
	if err != nil {
		t.Fatalf("Process() unexpected error = %v", err)
	}

	wantText := "بسم الله الرحمن الرحيم\nالحمد لله\nرب العالمين"
	if report.Text != wantText {
		t.Errorf("Text = %q, want %q", report.Text, wantText)
	}

	if want := filepath.Join(dir, "arabic_extracted.txt"); report.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", report.OutputPath, want)
	}
	written, err := os.ReadFile(report.OutputPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(written) != wantText {
		t.Errorf("output file = %q, want %q", written, wantText)
	}

	if len(extractor.seen) != 3 || extractor.seen[0] != 0 || extractor.seen[1] != 1 || extractor.seen[2] != 2 {
		t.Errorf("chunks extracted in order %v, want [0 1 2]", extractor.seen)
	}
	for i := 0; i < 3; i++ {
		if _, err := os.Stat(filepath.Join(scratch, fmt.Sprintf("chunk_%d.pdf", i))); err != nil {
			t.Errorf("chunk %d not written to scratch directory: %v", i, err)
		}
	}

	if len(sleeper.waits) != 3 {
		t.Fatalf("pacing waits = %v, want three", sleeper.waits)
	}
	for _, w := range sleeper.waits {
		if w != 2*time.Second {
			t.Errorf("pacing wait = %v, want 2s", w)
		}
	}

	if !report.Degraded() || len(report.Failed) != 1 || report.Failed[0] != 1 {
		t.Errorf("Failed = %v, want [1]", report.Failed)
	}

	run, err := runs.Get(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("run not recorded: %v", err)
	}
	if run.ChunkCount != 3 || !run.Degraded() || run.ObjectKey != "extracted/arabic_extracted.txt" {
		t.Errorf("recorded run = %+v", run)
	}

	exists, _ := store.Exists(context.Background(), "extracted/arabic_extracted.txt")
	if !exists {
		t.Error("output was not published")
	}
}

func TestPipeline_ProcessCorruptSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(source, []byte("not a pdf at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	extractor := &fakeExtractor{}
	p := New(pdf.NewPageSplitter(), extractor,
		WithScratchDir(filepath.Join(dir, "chunks")),
		WithSleeper((&recordingSleeper{}).Sleep),
		WithLogger(quietLogger()),
	)

	_, err := p.Process(context.Background(), source)
	if err == nil {
		t.Fatal("Process() error = nil, want error for corrupt source")
	}

	var pe *pdf.Error
	if !errors.As(err, &pe) || pe.Code != pdf.ErrCodeInvalidFormat {
		t.Errorf("Process() error = %v, want wrapped pdf InvalidFormat", err)
	}
	if len(extractor.seen) != 0 {
		t.Errorf("extractor called %d times for corrupt source", len(extractor.seen))
	}
}

func TestPipeline_ProcessFatalChunkError(t *testing.T) {
	dir := t.TempDir()
	source := pdftest.WriteFile(t, dir, "book.pdf", 4)
	fatal := errors.New("chunk vanished")

	p := New(pdf.NewPageSplitter(), &fakeExtractor{fatal: map[int]error{1: fatal}},
		WithScratchDir(filepath.Join(dir, "chunks")),
		WithSleeper((&recordingSleeper{}).Sleep),
		WithLogger(quietLogger()),
	)

	if _, err := p.Process(context.Background(), source); !errors.Is(err, fatal) {
		t.Fatalf("Process() error = %v, want %v", err, fatal)
	}
	if _, err := os.Stat(OutputPath(source)); !os.IsNotExist(err) {
		t.Error("output written despite fatal error")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"/data/Arabic_Merged_PDF.pdf", "/data/Arabic_Merged_PDF_extracted.txt"},
		{"book.PDF", "book_extracted.txt"},
		{"archive.v2.pdf", "archive.v2_extracted.txt"},
		{"noext", "noext_extracted.txt"},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.source); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	results := []extraction.Result{
		{Text: "أ", Status: extraction.StatusSucceeded},
		{Status: extraction.StatusFailed},
		{Text: "\n\nب\n", Status: extraction.StatusSucceeded},
		{Status: extraction.StatusFailed},
		{Text: "ج", Status: extraction.StatusSucceeded},
	}

	if got := Aggregate(results); got != "أ\nب\nج" {
		t.Errorf("Aggregate() = %q", got)
	}
	if got := Aggregate(nil); got != "" {
		t.Errorf("Aggregate(nil) = %q, want empty", got)
	}
}

type staticSource struct {
	docs []datasource.Document
}

func (s staticSource) Load(ctx context.Context, opts ...datasource.Option) ([]datasource.Document, error) {
	return s.docs, nil
}

func TestExtractSource(t *testing.T) {
	out := filepath.Join(t.TempDir(), "extractedEng_text.txt")
	src := staticSource{docs: []datasource.Document{
		{Content: "Hajj is the fifth pillar."},
		{Content: "Umrah may be performed any time."},
	}}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	text, err := ExtractSource(context.Background(), src, out, WithLogger(logger))
	if err != nil {
		t.Fatalf("ExtractSource() unexpected error = %v", err)
	}
	if !strings.Contains(logs.String(), "extraction complete") {
		t.Errorf("injected logger not used, got %q", logs.String())
	}

	want := "Hajj is the fifth pillar.\n\nUmrah may be performed any time.\n"
	if text != want {
		t.Errorf("ExtractSource() = %q, want %q", text, want)
	}
	written, _ := os.ReadFile(out)
	if string(written) != want {
		t.Errorf("file content = %q, want %q", written, want)
	}
}

func TestExtractSource_PDFDirectory(t *testing.T) {
	dir := t.TempDir()
	pdftest.WriteFile(t, dir, "guide.pdf", 2)
	pdftest.WriteFile(t, dir, ".hidden.pdf", 1)
	nested := filepath.Join(dir, "nested")
	if err := os.Mkdir(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	pdftest.WriteFile(t, nested, "other.pdf", 1)

	out := filepath.Join(t.TempDir(), "extractedEng_text.txt")
	text, err := ExtractSource(context.Background(), pdfsource.NewDirSource(dir, quietLogger()), out,
		WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("ExtractSource() unexpected error = %v", err)
	}

	// One document per page; hidden and nested files are not read.
	if want := "Page 1\n\nPage 2\n"; text != want {
		t.Errorf("ExtractSource() = %q, want %q", text, want)
	}
}

func TestExtractSource_LoadOptions(t *testing.T) {
	dir := t.TempDir()
	pdftest.WriteFile(t, dir, "guide.pdf", 3)

	out := filepath.Join(t.TempDir(), "out.txt")
	text, err := ExtractSource(context.Background(), pdfsource.NewDirSource(dir, quietLogger()), out,
		WithLogger(quietLogger()),
		WithLoadOptions(datasource.WithMaxItems(2)),
	)
	if err != nil {
		t.Fatalf("ExtractSource() unexpected error = %v", err)
	}
	if want := "Page 1\n\nPage 2\n"; text != want {
		t.Errorf("ExtractSource() = %q, want %q", text, want)
	}
}
