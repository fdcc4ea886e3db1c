package inmemory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/vectorstore"
)

type entry struct {
	doc    vectorstore.Document
	vector []float32
}

// VectorStore implements vectorstore.Store with a brute force scan. Metadata
// values are compared in their string form, the same way the Postgres
// adapter compares JSONB text.
type VectorStore struct {
	entries  []entry
	distance vectorstore.DistanceMetric
	mu       sync.RWMutex
}

// NewVectorStore creates an empty store scoring with distance
func NewVectorStore(distance vectorstore.DistanceMetric) *VectorStore {
	if distance == "" {
		distance = vectorstore.Cosine
	}
	return &VectorStore{distance: distance}
}

func (s *VectorStore) InitDB(ctx context.Context, forceRecreate bool) error {
	if forceRecreate {
		s.mu.Lock()
		s.entries = nil
		s.mu.Unlock()
	}
	return nil
}

func (s *VectorStore) AddDocuments(ctx context.Context, docs []vectorstore.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return vectorstore.NewAddFailedError("inmemory", fmt.Errorf("%d documents, %d vectors", len(docs), len(vectors)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, doc := range docs {
		if len(s.entries) > 0 && len(vectors[i]) != len(s.entries[0].vector) {
			return vectorstore.NewInvalidDimensionsError("inmemory", len(s.entries[0].vector), len(vectors[i]))
		}
		s.entries = append(s.entries, entry{
			doc:    vectorstore.Document{PageContent: doc.PageContent, Metadata: doc.Metadata},
			vector: append([]float32(nil), vectors[i]...),
		})
	}
	return nil
}

func (s *VectorStore) SimilaritySearch(ctx context.Context, vector []float32, limit int, filter vectorstore.Filter) ([]vectorstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []vectorstore.Document
	for _, e := range s.entries {
		if !matches(e.doc.Metadata, filter) {
			continue
		}
		if len(e.vector) != len(vector) {
			return nil, vectorstore.NewInvalidDimensionsError("inmemory", len(e.vector), len(vector))
		}
		doc := e.doc
		doc.Score = s.score(e.vector, vector)
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func (s *VectorStore) Delete(ctx context.Context, filter vectorstore.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if !matches(e.doc.Metadata, filter) {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

func (s *VectorStore) Exists(ctx context.Context, filter vectorstore.Filter) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if matches(e.doc.Metadata, filter) {
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored chunks
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *VectorStore) score(a, b []float32) float32 {
	var dot, na, nb, sq float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
		sq += (x - y) * (x - y)
	}

	switch s.distance {
	case vectorstore.Euclidean:
		return float32(1 / (1 + math.Sqrt(sq)))
	case vectorstore.DotProduct:
		return float32(dot)
	default:
		if na == 0 || nb == 0 {
			return 0
		}
		return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
	}
}

func matches(metadata map[string]interface{}, filter vectorstore.Filter) bool {
	for k, want := range filter {
		got, ok := metadata[k]
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
