// Package bedrock embeds text with the Amazon Titan models served by
// Bedrock runtime.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/ptr"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/embedding"
	"golang.org/x/sync/errgroup"
)

// EmbeddingModelID represents available Bedrock embedding models
type EmbeddingModelID string

const (
	TitanEmbedTextV1 EmbeddingModelID = "amazon.titan-embed-text-v1"
	TitanEmbedTextV2 EmbeddingModelID = "amazon.titan-embed-text-v2:0"
)

// InvokeAPI is the subset of *bedrockruntime.Client used by the embedder
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type TitanEmbedder struct {
	client  InvokeAPI
	options *embedding.EmbeddingOptions
}

type titanRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize,omitempty"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// DefaultOptions returns Titan v2 at 1024 dimensions, normalized by the
// service, with four requests in flight.
func DefaultOptions() *embedding.EmbeddingOptions {
	return &embedding.EmbeddingOptions{
		Model:      string(TitanEmbedTextV2),
		Dimensions: 1024,
		Normalize:  true,
		BatchSize:  4,
	}
}

func NewTitanEmbedder(client InvokeAPI, opts ...embedding.Option) *TitanEmbedder {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.BatchSize <= 0 {
		options.BatchSize = 1
	}
	return &TitanEmbedder{
		client:  client,
		options: options,
	}
}

// EmbedDocuments embeds each document with its own InvokeModel call, since
// Titan accepts a single input text per request. At most BatchSize calls
// are in flight.
func (t *TitanEmbedder) EmbedDocuments(ctx context.Context, documents []string) ([][]float32, error) {
	if len(documents) == 0 {
		return nil, embedding.ErrEmptyInput("EmbedDocuments")
	}

	vectors := make([][]float32, len(documents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.options.BatchSize)

	for i, doc := range documents {
		g.Go(func() error {
			v, err := t.embed(gctx, "EmbedDocuments", doc)
			if err != nil {
				return err
			}
			vectors[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (t *TitanEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, embedding.ErrEmptyInput("EmbedQuery")
	}
	return t.embed(ctx, "EmbedQuery", text)
}

func (t *TitanEmbedder) embed(ctx context.Context, op, text string) ([]float32, error) {
	req := titanRequest{InputText: text}
	// v1 takes neither field
	if EmbeddingModelID(t.options.Model) != TitanEmbedTextV1 {
		req.Dimensions = t.options.Dimensions
		req.Normalize = t.options.Normalize
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, embedding.NewEmbeddingError(op, err, embedding.ErrCodeInternal, "failed to marshal request")
	}

	output, err := t.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     ptr.String(t.options.Model),
		Body:        body,
		ContentType: ptr.String("application/json"),
		Accept:      ptr.String("application/json"),
	})
	if err != nil {
		return nil, handleBedrockError(op, err)
	}

	var resp titanResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return nil, embedding.NewEmbeddingError(op, err, embedding.ErrCodeAPIError, "failed to unmarshal response")
	}
	if len(resp.Embedding) == 0 {
		return nil, embedding.NewEmbeddingError(op, nil, embedding.ErrCodeAPIError, "no embedding returned from Bedrock")
	}

	if t.options.Normalize && EmbeddingModelID(t.options.Model) == TitanEmbedTextV1 {
		embedding.Normalize(resp.Embedding)
	}

	return resp.Embedding, nil
}

func handleBedrockError(op string, err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeInternal, "Bedrock request failed")
	}

	switch apiErr.ErrorCode() {
	case "ThrottlingException", "ServiceQuotaExceededException":
		return embedding.ErrRateLimitExceeded(op, err)
	case "ValidationException":
		return embedding.ErrInvalidInput(op, err, apiErr.ErrorMessage())
	case "ModelNotReadyException", "ModelTimeoutException", "ResourceNotFoundException", "ServiceUnavailableException":
		return embedding.ErrModelNotAvailable(op, err)
	case "AccessDeniedException":
		return embedding.NewEmbeddingError(op, err, "Unauthorized", "access to model denied")
	default:
		return embedding.NewEmbeddingError(op, err, embedding.ErrCodeAPIError, "Bedrock API error: "+apiErr.ErrorMessage())
	}
}
