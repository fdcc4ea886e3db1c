package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/embedding"
	"github.com/sashabaranov/go-openai"
)

type OpenAIEmbedder struct {
	client  *openai.Client
	options *embedding.EmbeddingOptions
}

// DefaultOptions returns the default options for OpenAI embeddings. The
// third generation models handle Arabic far better than ada-002.
func DefaultOptions() *embedding.EmbeddingOptions {
	return &embedding.EmbeddingOptions{
		Model:     string(openai.SmallEmbedding3),
		BatchSize: 100,
		Normalize: true,
	}
}

// NewOpenAIEmbedder creates a new OpenAI embedder with the given API key and options
func NewOpenAIEmbedder(apiKey string, opts ...embedding.Option) *OpenAIEmbedder {
	return NewOpenAIEmbedderWithConfig(openai.DefaultConfig(apiKey), opts...)
}

// NewOpenAIEmbedderWithConfig creates an embedder from a full client config,
// for gateways and compatible servers with their own base URL.
func NewOpenAIEmbedderWithConfig(config openai.ClientConfig, opts ...embedding.Option) *OpenAIEmbedder {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.BatchSize <= 0 {
		options.BatchSize = 100
	}

	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(config),
		options: options,
	}
}

// EmbedDocuments implements the Embedder interface
func (e *OpenAIEmbedder) EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error) {
	if len(documents) == 0 {
		return nil, embedding.ErrEmptyInput("EmbedDocuments")
	}

	if len(documents) > e.options.BatchSize {
		return e.embedInBatches(ctx, documents)
	}

	resp, err := e.client.CreateEmbeddings(ctx, e.request(documents))
	if err != nil {
		return nil, e.handleError("EmbedDocuments", err)
	}
	if len(resp.Data) != len(documents) {
		return nil, embedding.NewEmbeddingError("EmbedDocuments", nil, embedding.ErrCodeAPIError,
			fmt.Sprintf("expected %d embeddings, got %d", len(documents), len(resp.Data)))
	}

	embeddings := make([][]float32, len(resp.Data))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, embedding.NewEmbeddingError("EmbedDocuments", nil, embedding.ErrCodeAPIError,
				fmt.Sprintf("embedding index %d out of range", item.Index))
		}
		if e.options.Normalize {
			embedding.Normalize(item.Embedding)
		}
		embeddings[item.Index] = item.Embedding
	}

	return embeddings, nil
}

// EmbedQuery implements the Embedder interface
func (e *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.ErrEmptyInput("EmbedQuery")
	}

	resp, err := e.client.CreateEmbeddings(ctx, e.request([]string{text}))
	if err != nil {
		return nil, e.handleError("EmbedQuery", err)
	}

	if len(resp.Data) == 0 {
		return nil, embedding.NewEmbeddingError("EmbedQuery", nil, embedding.ErrCodeAPIError,
			"no embedding returned from API")
	}

	vector := resp.Data[0].Embedding
	if e.options.Normalize {
		embedding.Normalize(vector)
	}

	return vector, nil
}

func (e *OpenAIEmbedder) request(input []string) openai.EmbeddingRequest {
	return openai.EmbeddingRequest{
		Input:      input,
		Model:      openai.EmbeddingModel(e.options.Model),
		Dimensions: e.options.Dimensions,
	}
}

// embedInBatches processes documents in batches
func (e *OpenAIEmbedder) embedInBatches(ctx context.Context, documents []string) ([][]float32, error) {
	var allEmbeddings [][]float32

	for i := 0; i < len(documents); i += e.options.BatchSize {
		end := i + e.options.BatchSize
		if end > len(documents) {
			end = len(documents)
		}

		batchEmbeddings, err := e.EmbedDocuments(ctx, documents[i:end])
		if err != nil {
			return nil, fmt.Errorf("error processing batch %d: %w", i/e.options.BatchSize, err)
		}

		allEmbeddings = append(allEmbeddings, batchEmbeddings...)
	}

	return allEmbeddings, nil
}

// handleError converts OpenAI API errors to embedding errors
func (e *OpenAIEmbedder) handleError(op string, err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeInternal, "unexpected error")
	}

	switch apiErr.HTTPStatusCode {
	case http.StatusBadRequest:
		return embedding.ErrInvalidInput(op, err, apiErr.Message)
	case http.StatusUnauthorized:
		return embedding.NewEmbeddingError(op, err, "Unauthorized", "invalid API key")
	case http.StatusTooManyRequests:
		return embedding.ErrRateLimitExceeded(op, err)
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return embedding.ErrModelNotAvailable(op, err)
	default:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeAPIError,
			fmt.Sprintf("OpenAI API error: %s", apiErr.Message))
	}
}
