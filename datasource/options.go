package datasource

// LoadOptions represents options for loading documents
type LoadOptions struct {
	// Recursive descends into subdirectories or nested prefixes
	Recursive bool
	// Filter is consulted with the document metadata before text extraction
	Filter func(metadata map[string]interface{}) bool
	// MaxItems is the maximum number of items to load (0 for no limit)
	MaxItems int
}

// Option is a function type to modify LoadOptions
type Option func(*LoadOptions)

// NewLoadOptions applies opts over the zero LoadOptions
func NewLoadOptions(opts ...Option) *LoadOptions {
	options := &LoadOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Accept reports whether a document with the given metadata passes the filter
func (o *LoadOptions) Accept(metadata map[string]interface{}) bool {
	return o.Filter == nil || o.Filter(metadata)
}

// Full reports whether count documents already reach MaxItems
func (o *LoadOptions) Full(count int) bool {
	return o.MaxItems > 0 && count >= o.MaxItems
}

// WithRecursive sets whether to load recursively
func WithRecursive(recursive bool) Option {
	return func(o *LoadOptions) {
		o.Recursive = recursive
	}
}

// WithFilter sets a filter function for documents
func WithFilter(filter func(metadata map[string]interface{}) bool) Option {
	return func(o *LoadOptions) {
		o.Filter = filter
	}
}

// WithMaxItems sets the maximum number of items to load
func WithMaxItems(max int) Option {
	return func(o *LoadOptions) {
		o.MaxItems = max
	}
}
