package pipeline

import (
	"log/slog"
	"time"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/extraction"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/runlog"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/storage"
	"github.com/google/uuid"
)

// IDGenerator produces run identifiers
type IDGenerator func() string

// Options contains configuration for the extraction pipeline
type Options struct {
	ScratchDir    string
	Pacing        time.Duration
	Logger        *slog.Logger
	Sleep         extraction.Sleeper
	Publisher     storage.DataStore
	PublishPrefix string
	RunLog        runlog.Repository
	GenerateID    IDGenerator
	LoadOptions   []datasource.Option
}

// Option is a function type to modify Options
type Option func(*Options)

// DefaultIDGenerator generates a UUID string
func DefaultIDGenerator() string {
	return uuid.New().String()
}

// DefaultOptions returns the default options
func DefaultOptions() *Options {
	return &Options{
		ScratchDir: "pdf_chunks",
		Pacing:     2 * time.Second,
		Logger:     slog.Default().With("component", "pipeline"),
		Sleep:      extraction.Sleep,
		GenerateID: DefaultIDGenerator,
	}
}

// WithScratchDir sets the directory chunk PDFs are written to
func WithScratchDir(dir string) Option {
	return func(o *Options) {
		o.ScratchDir = dir
	}
}

// WithPacing sets the pause before each chunk submission
func WithPacing(d time.Duration) Option {
	return func(o *Options) {
		o.Pacing = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithSleeper replaces the function used for pacing
func WithSleeper(sleep extraction.Sleeper) Option {
	return func(o *Options) {
		o.Sleep = sleep
	}
}

// WithPublisher uploads every output text to store under prefix
func WithPublisher(store storage.DataStore, prefix string) Option {
	return func(o *Options) {
		o.Publisher = store
		o.PublishPrefix = prefix
	}
}

// WithRunLog records a summary of every run
func WithRunLog(repo runlog.Repository) Option {
	return func(o *Options) {
		o.RunLog = repo
	}
}

// WithGenerateID sets the run ID generator
func WithGenerateID(generator IDGenerator) Option {
	return func(o *Options) {
		o.GenerateID = generator
	}
}

// WithLoadOptions passes options to the data source read by ExtractSource
func WithLoadOptions(opts ...datasource.Option) Option {
	return func(o *Options) {
		o.LoadOptions = append(o.LoadOptions, opts...)
	}
}
