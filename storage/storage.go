package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo represents metadata about a stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
	ContentType  string
	Metadata     map[string]string
}

// DataStore is where extraction outputs are published
type DataStore interface {
	Put(ctx context.Context, key string, data io.Reader, options ...PutOption) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// PutOption allows customizing Put operations
type PutOption func(*PutOptions)

// PutOptions contains configuration for Put operations
type PutOptions struct {
	ContentType        string
	Metadata           map[string]string
	CacheControl       string
	ContentDisposition string
}

// NewPutOptions applies options over the zero PutOptions
func NewPutOptions(options ...PutOption) *PutOptions {
	opts := &PutOptions{}
	for _, opt := range options {
		opt(opts)
	}
	return opts
}

// WithContentType sets the content type for the object
func WithContentType(contentType string) PutOption {
	return func(o *PutOptions) {
		o.ContentType = contentType
	}
}

// WithMetadata sets additional metadata for the object
func WithMetadata(metadata map[string]string) PutOption {
	return func(o *PutOptions) {
		o.Metadata = metadata
	}
}

// WithCacheControl sets the Cache-Control header for the object
func WithCacheControl(cacheControl string) PutOption {
	return func(o *PutOptions) {
		o.CacheControl = cacheControl
	}
}

// WithContentDisposition sets the Content-Disposition header for the object
func WithContentDisposition(contentDisposition string) PutOption {
	return func(o *PutOptions) {
		o.ContentDisposition = contentDisposition
	}
}
