package vectorstore

import (
	"context"
	"fmt"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/document"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/embedding"
)

// Filter matches chunks whose metadata equals every entry
type Filter map[string]interface{}

// Merge returns a new filter with the entries of other applied over f
func (f Filter) Merge(other Filter) Filter {
	merged := make(Filter, len(f)+len(other))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Document extends document.Document with a score
type Document struct {
	PageContent string                 `json:"page_content"`
	Metadata    map[string]interface{} `json:"metadata"`
	Score       float32                `json:"score"`
}

// ToDocument converts a vectorstore.Document to document.Document
func (d Document) ToDocument() document.Document {
	return document.Document{
		PageContent: d.PageContent,
		Metadata:    d.Metadata,
	}
}

// FromDocument creates a vectorstore.Document from document.Document
func FromDocument(doc document.Document) Document {
	return Document{
		PageContent: doc.PageContent,
		Metadata:    doc.Metadata,
	}
}

// Store interface defines the operations that any vector database adapter must implement
type Store interface {
	// InitDB prepares the schema, dropping existing data when forceRecreate is set
	InitDB(ctx context.Context, forceRecreate bool) error

	// AddDocuments adds documents to the vector store
	AddDocuments(ctx context.Context, docs []Document, vectors [][]float32) error

	// SimilaritySearch performs a similarity search using the provided vector
	SimilaritySearch(ctx context.Context, vector []float32, limit int, filter Filter) ([]Document, error)

	// Delete removes documents from the store
	Delete(ctx context.Context, filter Filter) error

	// Exists reports whether any stored chunk matches every filter entry
	Exists(ctx context.Context, filter Filter) (bool, error)
}

// VectorStore is the main struct that combines the database adapter and embedder
type VectorStore struct {
	store    Store
	embedder embedding.Embedder
	opts     *Options
}

// New creates a new VectorStore instance
func New(store Store, embedder embedding.Embedder, opts ...Option) *VectorStore {
	options := &Options{
		ScoreThreshold: 0.0,
		Distance:       Cosine,
	}

	for _, opt := range opts {
		opt(options)
	}

	return &VectorStore{
		store:    store,
		embedder: embedder,
		opts:     options,
	}
}

// AddDocuments embeds docs and stores them with their vectors
func (vs *VectorStore) AddDocuments(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	vsDocs := make([]Document, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
		vsDocs[i] = FromDocument(doc)
	}

	vectors, err := vs.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return NewEmbeddingFailedError("vectorstore", err)
	}
	if len(vectors) != len(docs) {
		return NewAddFailedError("vectorstore", fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs)))
	}

	return vs.store.AddDocuments(ctx, vsDocs, vectors)
}

// SimilaritySearch performs a similarity search using the query text
func (vs *VectorStore) SimilaritySearch(ctx context.Context, query string, limit int, filter Filter) ([]Document, error) {
	vector, err := vs.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, NewEmbeddingFailedError("vectorstore", err)
	}

	vsDocs, err := vs.store.SimilaritySearch(ctx, vector, limit, vs.opts.Filters.Merge(filter))
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(vsDocs))
	for _, vsDoc := range vsDocs {
		if vs.opts.ScoreThreshold <= 0 || vsDoc.Score >= vs.opts.ScoreThreshold {
			docs = append(docs, vsDoc)
		}
	}

	return docs, nil
}

// Delete removes documents from the store
func (vs *VectorStore) Delete(ctx context.Context, filter Filter) error {
	return vs.store.Delete(ctx, filter)
}

// DocumentExists reports whether chunks matching filter are already stored
func (vs *VectorStore) DocumentExists(ctx context.Context, filter Filter) (bool, error) {
	return vs.store.Exists(ctx, filter)
}

// Distance returns the configured distance metric
func (vs *VectorStore) Distance() DistanceMetric {
	return vs.opts.Distance
}
