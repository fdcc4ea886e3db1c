package pdf

import "log/slog"

// SplitOptions contains configuration for the chunk splitter
type SplitOptions struct {
	// ChunkSize is the maximum number of pages per chunk
	ChunkSize int
	// NamePattern is the fmt pattern used for chunk file names, fed the chunk index
	NamePattern string
	Logger      *slog.Logger
}

// Option is a function type to modify SplitOptions
type Option func(*SplitOptions)

func defaultSplitOptions() *SplitOptions {
	return &SplitOptions{
		ChunkSize:   DefaultChunkSize,
		NamePattern: "chunk_%d.pdf",
		Logger:      slog.Default().With("component", "pdf-splitter"),
	}
}

// WithChunkSize sets the number of pages per chunk
func WithChunkSize(size int) Option {
	return func(o *SplitOptions) {
		if size > 0 {
			o.ChunkSize = size
		}
	}
}

// WithNamePattern sets the chunk file name pattern, e.g. "chunk_%d.pdf"
func WithNamePattern(pattern string) Option {
	return func(o *SplitOptions) {
		if pattern != "" {
			o.NamePattern = pattern
		}
	}
}

// WithLogger sets the logger used by the splitter
func WithLogger(logger *slog.Logger) Option {
	return func(o *SplitOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
