// Package datasource defines where source documents for English extraction
// and indexing come from.
package datasource

import (
	"context"
	"path"
	"strings"
)

// Metadata keys set by the PDF data sources
const (
	MetaSource       = "source"
	MetaFilename     = "filename"
	MetaPages        = "pages"
	MetaPage         = "page"
	MetaSize         = "size"
	MetaLastModified = "last_modified"
)

// Document is the extracted text of one source file, or of one page of it
// when the source loads per page
type Document struct {
	Content  string
	Metadata map[string]interface{}
	Source   string
}

// DataSource loads documents in a stable order
type DataSource interface {
	Load(ctx context.Context, opts ...Option) ([]Document, error)
}

// IsPDF reports whether name carries a .pdf extension, in any case
func IsPDF(name string) bool {
	return strings.EqualFold(path.Ext(name), ".pdf")
}
