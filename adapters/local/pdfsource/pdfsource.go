// Package pdfsource loads the text of PDF files found in a local directory,
// one document per page.
package pdfsource

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
)

// DirSource is a datasource.DataSource over the *.pdf files in a directory.
// Hidden files are ignored.
type DirSource struct {
	dir    string
	logger *slog.Logger
}

// NewDirSource creates a source rooted at dir. A nil logger uses slog.Default.
func NewDirSource(dir string, logger *slog.Logger) *DirSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirSource{
		dir:    dir,
		logger: logger.With("component", "pdfsource"),
	}
}

// Load extracts every PDF in lexical path order and returns one document
// per page, carrying the zero-based page index under datasource.MetaPage.
// MaxItems counts pages. A file that cannot be parsed is logged and
// skipped; the remaining files still load.
func (s *DirSource) Load(ctx context.Context, opts ...datasource.Option) ([]datasource.Document, error) {
	options := datasource.NewLoadOptions(opts...)

	paths, err := s.scan(options.Recursive)
	if err != nil {
		return nil, err
	}

	var documents []datasource.Document
	for _, path := range paths {
		if options.Full(len(documents)) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, &datasource.DataSourceError{
				Source:  s.dir,
				Op:      "Load",
				Err:     err,
				Code:    datasource.ErrCodeNotFound,
				Message: "failed to stat " + path,
			}
		}

		metadata := map[string]interface{}{
			datasource.MetaSource:       path,
			datasource.MetaFilename:     filepath.Base(path),
			datasource.MetaSize:         info.Size(),
			datasource.MetaLastModified: info.ModTime(),
		}
		if !options.Accept(metadata) {
			continue
		}

		texts, pages, err := pdf.ExtractPagesFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable pdf", "path", path, "error", err)
			continue
		}
		metadata[datasource.MetaPages] = pages
		s.logger.Debug("loaded pdf", "path", path, "pages", pages)

		for i, text := range texts {
			if options.Full(len(documents)) {
				break
			}

			pageMeta := make(map[string]interface{}, len(metadata)+1)
			for k, v := range metadata {
				pageMeta[k] = v
			}
			pageMeta[datasource.MetaPage] = i

			documents = append(documents, datasource.Document{
				Content:  text,
				Metadata: pageMeta,
				Source:   path,
			})
		}
	}

	return documents, nil
}

func (s *DirSource) scan(recursive bool) ([]string, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, &datasource.DataSourceError{
			Source:  s.dir,
			Op:      "Load",
			Err:     err,
			Code:    datasource.ErrCodeNotFound,
			Message: "directory not found",
		}
	}
	if !info.IsDir() {
		return nil, &datasource.DataSourceError{
			Source:  s.dir,
			Op:      "Load",
			Code:    datasource.ErrCodeInvalidSource,
			Message: "not a directory",
		}
	}

	var paths []string
	err = filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == s.dir {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if datasource.IsPDF(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, &datasource.DataSourceError{
			Source:  s.dir,
			Op:      "Load",
			Err:     err,
			Code:    datasource.ErrCodeAccessDenied,
			Message: "failed to scan directory",
		}
	}

	sort.Strings(paths)
	return paths, nil
}
