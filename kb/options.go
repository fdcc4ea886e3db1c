package kb

import (
	"log/slog"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/vectorstore"
)

// Options contains configuration for the knowledge base
type Options struct {
	// Namespace is stamped on every indexed chunk and added to every query
	Namespace      string
	ScoreThreshold float32
	Filters        vectorstore.Filter
	Distance       vectorstore.DistanceMetric
	TopK           int
	Logger         *slog.Logger
}

// Option is a function type to modify Options
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		ScoreThreshold: 0.0,
		Distance:       vectorstore.Cosine,
		TopK:           4,
		Logger:         slog.Default(),
	}
}

// WithNamespace sets the namespace for the knowledge base
func WithNamespace(namespace string) Option {
	return func(o *Options) {
		o.Namespace = namespace
	}
}

// WithScoreThreshold sets the minimum similarity score threshold
func WithScoreThreshold(threshold float32) Option {
	return func(o *Options) {
		o.ScoreThreshold = threshold
	}
}

// WithFilters sets default filters for queries
func WithFilters(filters vectorstore.Filter) Option {
	return func(o *Options) {
		o.Filters = filters
	}
}

// WithDistanceMetric sets the distance calculation method
func WithDistanceMetric(metric vectorstore.DistanceMetric) Option {
	return func(o *Options) {
		o.Distance = metric
	}
}

// WithTopK sets the number of similar documents to retrieve
func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}
