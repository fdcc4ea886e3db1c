package pdf

import (
	"bytes"
	"io"
	"os"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
)

// ExtractPages returns the plain text of each page in page order, trimmed
// of surrounding whitespace. A page that fails to decode yields "".
func ExtractPages(r io.ReaderAt, size int64) ([]string, int, error) {
	reader, err := lpdf.NewReader(r, size)
	if err != nil {
		return nil, 0, newError("ExtractPages", "", ErrCodeInvalidFormat, "failed to create pdf reader", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages[i-1] = strings.TrimSpace(text)
	}

	return pages, numPages, nil
}

// ExtractText returns the plain text of every page, one page per line
// block. Pages that fail to decode are skipped.
func ExtractText(r io.ReaderAt, size int64) (string, int, error) {
	pages, numPages, err := ExtractPages(r, size)
	if err != nil {
		return "", 0, err
	}

	var sb strings.Builder
	for _, text := range pages {
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String()), numPages, nil
}

// ExtractTextBytes is ExtractText over an in-memory PDF
func ExtractTextBytes(data []byte) (string, int, error) {
	return ExtractText(bytes.NewReader(data), int64(len(data)))
}

// ExtractTextFile is ExtractText over the file at path
func ExtractTextFile(path string) (string, int, error) {
	var text string
	var pages int
	err := withFile("ExtractTextFile", path, func(r io.ReaderAt, size int64) error {
		var err error
		text, pages, err = ExtractText(r, size)
		return err
	})
	if err != nil {
		return "", 0, err
	}
	return text, pages, nil
}

// ExtractPagesFile is ExtractPages over the file at path
func ExtractPagesFile(path string) ([]string, int, error) {
	var texts []string
	var pages int
	err := withFile("ExtractPagesFile", path, func(r io.ReaderAt, size int64) error {
		var err error
		texts, pages, err = ExtractPages(r, size)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return texts, pages, nil
}

func withFile(op, path string, fn func(r io.ReaderAt, size int64) error) error {
	f, err := os.Open(path)
	if err != nil {
		return newError(op, path, ErrCodeNotFound, "failed to open file", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return newError(op, path, ErrCodeNotFound, "failed to stat file", err)
	}

	if err := fn(f, info.Size()); err != nil {
		if pe, ok := err.(*Error); ok {
			pe.Path = path
		}
		return err
	}
	return nil
}
