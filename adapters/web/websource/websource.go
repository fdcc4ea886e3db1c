// Package websource loads documents published at fixed URLs. PDF responses
// are converted to text; plain text responses are used as is.
package websource

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
)

var pdfMagic = []byte("%PDF-")

type WebSource struct {
	urls    []string
	client  *http.Client
	timeout time.Duration
}

func NewWebSource(urls []string, timeout time.Duration) *WebSource {
	return &WebSource{
		urls:    urls,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (w *WebSource) Load(ctx context.Context, opts ...datasource.Option) ([]datasource.Document, error) {
	options := datasource.NewLoadOptions(opts...)

	var documents []datasource.Document

	for _, url := range w.urls {
		if options.Full(len(documents)) {
			break
		}

		metadata := map[string]interface{}{
			datasource.MetaSource:   url,
			datasource.MetaFilename: path.Base(url),
			"url":                   url,
		}

		if !options.Accept(metadata) {
			continue
		}

		content, pages, err := w.fetchURL(ctx, url)
		if err != nil {
			return nil, err
		}
		if pages > 0 {
			metadata[datasource.MetaPages] = pages
		}

		documents = append(documents, datasource.Document{
			Content:  content,
			Metadata: metadata,
			Source:   url,
		})
	}

	return documents, nil
}

func (w *WebSource) fetchURL(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, &datasource.DataSourceError{
			Source:  "web",
			Op:      "fetchURL",
			Err:     err,
			Code:    datasource.ErrCodeInvalidSource,
			Message: "invalid URL",
		}
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", 0, &datasource.DataSourceError{
			Source:  "web",
			Op:      "fetchURL",
			Err:     err,
			Code:    datasource.ErrCodeInternal,
			Message: "failed to fetch URL",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, &datasource.DataSourceError{
			Source:  "web",
			Op:      "fetchURL",
			Code:    datasource.ErrCodeNotFound,
			Message: "failed to fetch URL: " + resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &datasource.DataSourceError{
			Source:  "web",
			Op:      "fetchURL",
			Err:     err,
			Code:    datasource.ErrCodeInternal,
			Message: "failed to read response body",
		}
	}

	if bytes.HasPrefix(body, pdfMagic) {
		text, pages, err := pdf.ExtractTextBytes(body)
		if err != nil {
			return "", 0, &datasource.DataSourceError{
				Source:  "web",
				Op:      "fetchURL",
				Err:     err,
				Code:    datasource.ErrCodeInvalidFormat,
				Message: "failed to extract pdf text from " + url,
			}
		}
		return text, pages, nil
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "text/") {
		return string(body), 0, nil
	}

	return "", 0, &datasource.DataSourceError{
		Source:  "web",
		Op:      "fetchURL",
		Code:    datasource.ErrCodeInvalidFormat,
		Message: "unsupported content type " + mediaType + " at " + url,
	}
}
