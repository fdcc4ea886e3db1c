// Package pipeline drives the chunked extraction of a PDF: split, extract
// each chunk in page order, aggregate, write.
package pipeline

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/cleanup"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/extraction"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/storage"
)

// OutputSuffix is appended to the source name to form the output file
const OutputSuffix = "_extracted.txt"

// Pipeline processes one document at a time, one chunk at a time
type Pipeline struct {
	splitter  pdf.Splitter
	extractor extraction.Extractor
	opts      *Options
}

// New creates a Pipeline from a splitter and a remote extractor
func New(splitter pdf.Splitter, extractor extraction.Extractor, opts ...Option) *Pipeline {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Pipeline{
		splitter:  splitter,
		extractor: extractor,
		opts:      options,
	}
}

// OutputPath returns the text file written next to source
func OutputPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + OutputSuffix
}

// Aggregate concatenates chunk texts in order, failed chunks included as
// empty strings, and collapses the blank lines between them.
func Aggregate(results []extraction.Result) string {
	var sb strings.Builder
	for _, result := range results {
		sb.WriteString(result.Text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(cleanup.CollapseNewlines(sb.String()))
}

// Process extracts the text of the PDF at source and writes it to
// OutputPath(source). Unreadable input aborts the run; chunks the remote
// service cannot handle are left empty and listed in Report.Failed.
func (p *Pipeline) Process(ctx context.Context, source string) (*Report, error) {
	logger := p.opts.Logger.With("source", source)
	report := &Report{
		RunID:     p.opts.GenerateID(),
		Source:    source,
		StartedAt: time.Now(),
	}

	if err := os.MkdirAll(p.opts.ScratchDir, 0o755); err != nil {
		return nil, &PipelineError{Op: "Process", Source: source, Message: "failed to create scratch directory", Err: err}
	}

	doc, err := pdf.Open(source)
	if err != nil {
		return nil, &PipelineError{Op: "Process", Source: source, Message: "failed to open document", Err: err}
	}

	chunks, err := p.splitter.Split(ctx, doc, p.opts.ScratchDir)
	if err != nil {
		return nil, &PipelineError{Op: "Process", Source: source, Message: "failed to split document", Err: err}
	}

	logger.Info("document split", "pages", doc.PageCount, "chunks", len(chunks), "run_id", report.RunID)

	report.Chunks = make([]extraction.Result, 0, len(chunks))
	for _, chunk := range chunks {
		logger.Info("processing chunk", "chunk", chunk.Index, "path", chunk.Path)

		if err := p.opts.Sleep(ctx, p.opts.Pacing); err != nil {
			return nil, &PipelineError{Op: "Process", Source: source, Message: "interrupted", Err: err}
		}

		result, err := p.extractor.Extract(ctx, chunk)
		if err != nil {
			return nil, &PipelineError{Op: "Process", Source: source, Message: "failed to extract chunk", Err: err}
		}

		report.Chunks = append(report.Chunks, result)
		if result.Failed() {
			report.Failed = append(report.Failed, chunk.Index)
		}
	}

	report.Text = Aggregate(report.Chunks)
	report.OutputPath = OutputPath(source)

	if err := os.WriteFile(report.OutputPath, []byte(report.Text), 0o644); err != nil {
		return nil, &PipelineError{Op: "Process", Source: source, Message: "failed to write output", Err: err}
	}
	report.FinishedAt = time.Now()

	if report.Degraded() {
		logger.Warn("extraction degraded, chunks missing from output",
			"failed_chunks", report.Failed,
			"failed", len(report.Failed),
			"total", len(report.Chunks),
		)
	}
	logger.Info("extracted text saved", "output", report.OutputPath, "run_id", report.RunID)

	if err := p.publish(ctx, report); err != nil {
		return report, err
	}

	if p.opts.RunLog != nil {
		if err := p.opts.RunLog.Save(ctx, report.Run()); err != nil {
			return report, &PipelineError{Op: "Process", Source: source, Message: "failed to record run", Err: err}
		}
	}

	return report, nil
}

func (p *Pipeline) publish(ctx context.Context, report *Report) error {
	if p.opts.Publisher == nil {
		return nil
	}

	key := path.Join(p.opts.PublishPrefix, filepath.Base(report.OutputPath))
	err := p.opts.Publisher.Put(ctx, key, bytes.NewReader([]byte(report.Text)),
		storage.WithContentType("text/plain; charset=utf-8"),
		storage.WithMetadata(map[string]string{
			"run-id": report.RunID,
			"source": filepath.Base(report.Source),
		}),
	)
	if err != nil {
		return &PipelineError{Op: "publish", Source: report.Source, Message: "failed to publish output", Err: err}
	}

	report.ObjectKey = key
	return nil
}
