// Package landingai implements extraction.Extractor on top of the
// LandingAI agentic document analysis API.
package landingai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/cleanup"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/extraction"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/pdf"
)

type Client struct {
	apiKey  string
	client  *http.Client
	options *Options
}

type subChunk struct {
	Text *string `json:"text"`
}

type analysisData struct {
	Chunks []subChunk `json:"chunks"`
}

type analysisResponse struct {
	Data *analysisData `json:"data"`
}

// NewClient creates a client that authenticates with apiKey
func NewClient(apiKey string, opts ...Option) *Client {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: options.Timeout,
		}
	}

	return &Client{
		apiKey:  apiKey,
		client:  client,
		options: options,
	}
}

// Extract implements extraction.Extractor
func (c *Client) Extract(ctx context.Context, chunk pdf.Chunk) (extraction.Result, error) {
	content, err := os.ReadFile(chunk.Path)
	if err != nil {
		return extraction.FailedResult(chunk, 0, err), &extraction.ExtractionError{
			Op:      "Extract",
			Path:    chunk.Path,
			Code:    extraction.ErrCodeFileUnreadable,
			Message: "failed to read chunk",
			Err:     err,
		}
	}

	logger := c.options.Logger.With("chunk", chunk.Index, "path", chunk.Path)
	policy := c.options.Retry
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}

	var lastErr error
	attempts := 0
	for attempts < policy.Attempts {
		attempts++

		raw, text, err := c.analyze(ctx, chunk.Path, content)
		if err == nil {
			return extraction.Result{
				ChunkIndex: chunk.Index,
				Path:       chunk.Path,
				RawText:    raw,
				Text:       text,
				Status:     extraction.StatusSucceeded,
				Attempts:   attempts,
			}, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return extraction.FailedResult(chunk, attempts, err), ctxErr
		}

		lastErr = err
		class := extraction.FailureTransport
		var extErr *extraction.ExtractionError
		if errors.As(err, &extErr) {
			class = extErr.Class()
		}

		if attempts == policy.Attempts {
			break
		}

		wait := policy.Wait(class)
		logger.Warn("extraction attempt failed, retrying",
			"attempt", attempts,
			"class", string(class),
			"wait", wait,
			"error", err,
		)

		if err := c.options.Sleep(ctx, wait); err != nil {
			return extraction.FailedResult(chunk, attempts, lastErr), err
		}
	}

	logger.Error("failed to extract text after retries", "attempts", attempts, "error", lastErr)
	return extraction.FailedResult(chunk, attempts, lastErr), nil
}

func (c *Client) analyze(ctx context.Context, path string, content []byte) (string, string, error) {
	body, contentType, err := multipartBody(filepath.Base(path), content)
	if err != nil {
		return "", "", &extraction.ExtractionError{
			Op:      "analyze",
			Path:    path,
			Code:    extraction.ErrCodeInternal,
			Message: "failed to build request body",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.options.Endpoint, body)
	if err != nil {
		return "", "", &extraction.ExtractionError{
			Op:      "analyze",
			Path:    path,
			Code:    extraction.ErrCodeInternal,
			Message: "invalid request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", &extraction.ExtractionError{
			Op:      "analyze",
			Path:    path,
			Code:    extraction.ErrCodeTransport,
			Message: "request failed",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &extraction.ExtractionError{
			Op:      "analyze",
			Path:    path,
			Code:    extraction.ErrCodeTransport,
			Status:  resp.StatusCode,
			Message: "failed to read response body",
			Err:     err,
		}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", "", &extraction.ExtractionError{
			Op:      "analyze",
			Path:    path,
			Code:    extraction.ErrCodeRateLimitExceeded,
			Status:  resp.StatusCode,
			Message: "rate limit reached",
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", &extraction.ExtractionError{
			Op:      "analyze",
			Path:    path,
			Code:    extraction.ErrCodeAPIError,
			Status:  resp.StatusCode,
			Message: "api error: " + truncate(string(payload), 200),
		}
	}

	raw, text, err := parseResponse(payload)
	if err != nil {
		return "", "", &extraction.ExtractionError{
			Op:      "analyze",
			Path:    path,
			Code:    extraction.ErrCodeInvalidFormat,
			Status:  resp.StatusCode,
			Message: "malformed response",
			Err:     err,
		}
	}

	return raw, text, nil
}

// parseResponse validates the payload shape and cleans its sub-chunks.
// Any structural problem rejects the whole payload.
func parseResponse(payload []byte) (string, string, error) {
	var resp analysisResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", "", err
	}

	if resp.Data == nil || resp.Data.Chunks == nil {
		return "", "", errors.New("response has no data.chunks")
	}

	raws := make([]string, 0, len(resp.Data.Chunks))
	texts := make([]string, 0, len(resp.Data.Chunks))
	for i, chunk := range resp.Data.Chunks {
		if chunk.Text == nil {
			return "", "", fmt.Errorf("chunk %d has no text", i)
		}
		raws = append(raws, *chunk.Text)

		if cleaned, ok := cleanup.CleanSubChunk(*chunk.Text); ok {
			texts = append(texts, cleaned)
		}
	}

	return strings.Join(raws, "\n"), strings.TrimSpace(strings.Join(texts, "\n")), nil
}

func multipartBody(filename string, content []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("pdf", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
