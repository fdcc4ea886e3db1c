// Package kb indexes extracted Hajj and Umrah text for retrieval.
package kb

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/datasource"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/document"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/embedding"
	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/vectorstore"
	"golang.org/x/text/unicode/norm"
)

// Metadata keys written on every indexed chunk
const (
	MetaSource    = "source"
	MetaChecksum  = "checksum"
	MetaNamespace = "namespace"
)

// KnowledgeBase represents the main knowledge base system
type KnowledgeBase struct {
	embedder embedding.Embedder
	vStore   *vectorstore.VectorStore
	store    vectorstore.Store
	splitter document.Splitter
	opts     *Options
	logger   *slog.Logger
}

// New creates a new KnowledgeBase instance with the provided options
func New(
	embedder embedding.Embedder,
	store vectorstore.Store,
	splitter document.Splitter,
	opts ...Option,
) (*KnowledgeBase, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	kb := &KnowledgeBase{
		embedder: embedder,
		store:    store,
		splitter: splitter,
		opts:     options,
		logger:   options.Logger.With("component", "kb"),
	}
	kb.vStore = kb.newVectorStore()

	return kb, nil
}

func (kb *KnowledgeBase) newVectorStore() *vectorstore.VectorStore {
	filters := kb.opts.Filters
	if kb.opts.Namespace != "" {
		filters = filters.Merge(vectorstore.Filter{MetaNamespace: kb.opts.Namespace})
	}

	return vectorstore.New(
		kb.store,
		kb.embedder,
		vectorstore.WithScoreThreshold(kb.opts.ScoreThreshold),
		vectorstore.WithFilters(filters),
		vectorstore.WithDistance(kb.opts.Distance),
	)
}

// GetOptions returns a copy of the current options
func (kb *KnowledgeBase) GetOptions() Options {
	return *kb.opts
}

// UpdateOptions updates the knowledge base options
func (kb *KnowledgeBase) UpdateOptions(opts ...Option) {
	for _, opt := range opts {
		opt(kb.opts)
	}
	kb.logger = kb.opts.Logger.With("component", "kb")
	kb.vStore = kb.newVectorStore()
}

// Close releases the store's connections when it holds any
func (kb *KnowledgeBase) Close() error {
	if c, ok := kb.store.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}

func (kb *KnowledgeBase) InitStore(ctx context.Context, forceRecreate bool) error {
	return kb.store.InitDB(ctx, forceRecreate)
}

// Sync indexes every document ds loads. Documents whose content is already
// stored unchanged are skipped; changed documents replace their old chunks.
func (kb *KnowledgeBase) Sync(ctx context.Context, ds datasource.DataSource, opts ...datasource.Option) (int, error) {
	docs, err := ds.Load(ctx, opts...)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, doc := range mergePages(docs) {
		added, err := kb.IndexText(ctx, doc.Source, doc.Content, doc.Metadata)
		if err != nil {
			return indexed, err
		}
		if added {
			indexed++
		}
	}

	kb.logger.Info("sync complete", "loaded", len(docs), "indexed", indexed)
	return indexed, nil
}

// mergePages joins consecutive documents sharing a source, as loaded by
// per-page sources, so each source is indexed once
func mergePages(docs []datasource.Document) []datasource.Document {
	var merged []datasource.Document
	for _, doc := range docs {
		last := len(merged) - 1
		if last >= 0 && merged[last].Source == doc.Source {
			merged[last].Content += "\n" + doc.Content
			continue
		}

		meta := make(map[string]interface{}, len(doc.Metadata))
		for k, v := range doc.Metadata {
			if k != datasource.MetaPage {
				meta[k] = v
			}
		}
		merged = append(merged, datasource.Document{Source: doc.Source, Content: doc.Content, Metadata: meta})
	}
	return merged
}

// IndexText splits text and stores its chunks under source. It reports
// false when the same text is already indexed for source.
func (kb *KnowledgeBase) IndexText(ctx context.Context, source, text string, metadata map[string]interface{}) (bool, error) {
	meta := make(map[string]interface{}, len(metadata)+3)
	for k, v := range metadata {
		// JSONB compares text, so times are stored in a stable form
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format(time.RFC3339Nano)
		}
		meta[k] = v
	}

	// Extractors disagree on combining mark order in Arabic text
	text = norm.NFC.String(text)
	sum := sha256.Sum256([]byte(text))
	meta[MetaSource] = source
	meta[MetaChecksum] = hex.EncodeToString(sum[:])
	if kb.opts.Namespace != "" {
		meta[MetaNamespace] = kb.opts.Namespace
	}

	exists, err := kb.vStore.DocumentExists(ctx, kb.sourceFilter(source).Merge(vectorstore.Filter{
		MetaChecksum: meta[MetaChecksum],
	}))
	if err != nil {
		return false, err
	}
	if exists {
		kb.logger.Debug("source unchanged, skipping", "source", source)
		return false, nil
	}

	chunks, err := document.CreateDocuments(kb.splitter, []string{text}, []map[string]interface{}{meta})
	if err != nil {
		return false, err
	}

	// Old chunks go regardless of checksum so an edited source never leaves
	// stale text behind.
	if err := kb.vStore.Delete(ctx, kb.sourceFilter(source)); err != nil {
		return false, err
	}

	if err := kb.vStore.AddDocuments(ctx, chunks); err != nil {
		return false, err
	}

	kb.logger.Info("indexed source", "source", source, "chunks", len(chunks))
	return true, nil
}

func (kb *KnowledgeBase) sourceFilter(source string) vectorstore.Filter {
	filter := vectorstore.Filter{MetaSource: source}
	if kb.opts.Namespace != "" {
		filter[MetaNamespace] = kb.opts.Namespace
	}
	return filter
}

func (kb *KnowledgeBase) SimilaritySearch(
	ctx context.Context,
	query string,
	limit int,
	filter vectorstore.Filter,
) ([]vectorstore.Document, error) {
	return kb.vStore.SimilaritySearch(ctx, query, limit, filter)
}

// Search returns the TopK chunks closest to query
func (kb *KnowledgeBase) Search(ctx context.Context, query string) ([]vectorstore.Document, error) {
	return kb.vStore.SimilaritySearch(ctx, query, kb.opts.TopK, nil)
}
