package pgvectore

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/batoolnq/Yusur-RAG-Based-Hajj-and-Umrah-Chatbot/vectorstore"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storeName = "pgvector"

// DefaultTableName holds indexed chunks of extracted text
const DefaultTableName = "yusur_chunks"

type PGVectorStore struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
	distance  vectorstore.DistanceMetric
}

type Options struct {
	TableName string
	Dimension int
	Distance  vectorstore.DistanceMetric
}

func validDistance(d vectorstore.DistanceMetric) bool {
	switch d {
	case vectorstore.Cosine, vectorstore.Euclidean, vectorstore.DotProduct:
		return true
	default:
		return false
	}
}

// operators returns the pgvector operator and index operator class for the
// configured distance metric
func (p *PGVectorStore) operators() (string, string) {
	switch p.distance {
	case vectorstore.Euclidean:
		return "<->", "vector_l2_ops"
	case vectorstore.DotProduct:
		return "<#>", "vector_ip_ops"
	default:
		return "<=>", "vector_cosine_ops"
	}
}

func NewPGVectorStore(ctx context.Context, connString string, opts Options) (*PGVectorStore, error) {
	if opts.Distance == "" {
		opts.Distance = vectorstore.Cosine
	}
	if opts.TableName == "" {
		opts.TableName = DefaultTableName
	}

	if !validDistance(opts.Distance) {
		return nil, vectorstore.NewInitFailedError(storeName, fmt.Errorf("invalid distance metric: %s", opts.Distance))
	}
	if opts.Dimension <= 0 {
		return nil, vectorstore.NewInitFailedError(storeName, fmt.Errorf("invalid dimension: %d", opts.Dimension))
	}

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, vectorstore.NewInitFailedError(storeName, fmt.Errorf("error parsing connection string: %w", err))
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, vectorstore.NewInitFailedError(storeName, fmt.Errorf("error creating connection pool: %w", err))
	}

	return &PGVectorStore{
		pool:      pool,
		table:     pgx.Identifier{opts.TableName}.Sanitize(),
		dimension: opts.Dimension,
		distance:  opts.Distance,
	}, nil
}

// InitDB initializes the database schema
func (p *PGVectorStore) InitDB(ctx context.Context, forceRecreate bool) error {
	if _, err := p.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return vectorstore.NewInitFailedError(storeName, fmt.Errorf("error creating vector extension: %w", err))
	}

	if forceRecreate {
		if _, err := p.pool.Exec(ctx, "DROP TABLE IF EXISTS "+p.table); err != nil {
			return vectorstore.NewInitFailedError(storeName, fmt.Errorf("error dropping table: %w", err))
		}
	}

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding vector(%d),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`, p.table, p.dimension)

	if _, err := p.pool.Exec(ctx, createTableSQL); err != nil {
		return vectorstore.NewInitFailedError(storeName, fmt.Errorf("error creating table: %w", err))
	}

	_, opClass := p.operators()
	indexName := pgx.Identifier{strings.Trim(p.table, `"`) + "_embedding_idx"}.Sanitize()
	indexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s
		ON %s
		USING hnsw (embedding %s)
	`, indexName, p.table, opClass)

	if _, err := p.pool.Exec(ctx, indexSQL); err != nil {
		return vectorstore.NewInitFailedError(storeName, fmt.Errorf("error creating index: %w", err))
	}

	sourceIdx := pgx.Identifier{strings.Trim(p.table, `"`) + "_source_idx"}.Sanitize()
	if _, err := p.pool.Exec(ctx, fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s ((metadata->>'source'))", sourceIdx, p.table)); err != nil {
		return vectorstore.NewInitFailedError(storeName, fmt.Errorf("error creating source index: %w", err))
	}

	return nil
}

func (p *PGVectorStore) AddDocuments(ctx context.Context, docs []vectorstore.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return vectorstore.NewAddFailedError(storeName, fmt.Errorf("%d documents, %d vectors", len(docs), len(vectors)))
	}

	batch := &pgx.Batch{}
	insertSQL := fmt.Sprintf(`
		INSERT INTO %s (content, metadata, embedding)
		VALUES ($1, $2, $3::vector)
	`, p.table)

	for i, doc := range docs {
		if len(vectors[i]) != p.dimension {
			return vectorstore.NewInvalidDimensionsError(storeName, p.dimension, len(vectors[i]))
		}
		batch.Queue(insertSQL, doc.PageContent, doc.Metadata, formatVectorForPG(vectors[i]))
	}

	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(docs); i++ {
		if _, err := results.Exec(); err != nil {
			return vectorstore.NewAddFailedError(storeName, fmt.Errorf("error inserting document %d: %w", i, err))
		}
	}

	return nil
}

func (p *PGVectorStore) SimilaritySearch(ctx context.Context, vector []float32, limit int, filter vectorstore.Filter) ([]vectorstore.Document, error) {
	operator, _ := p.operators()

	args := []interface{}{formatVectorForPG(vector), limit}
	where, filterArgs := buildWhere(filter, len(args)+1)
	args = append(args, filterArgs...)

	query := fmt.Sprintf(`
		SELECT
			content,
			metadata,
			%s AS similarity
		FROM %s
		%s
		ORDER BY embedding %s $1::vector
		LIMIT $2
	`, p.scoreExpr(operator), p.table, where, operator)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, vectorstore.NewSearchFailedError(storeName, err)
	}
	defer rows.Close()

	var docs []vectorstore.Document
	for rows.Next() {
		var doc vectorstore.Document
		if err := rows.Scan(&doc.PageContent, &doc.Metadata, &doc.Score); err != nil {
			return nil, vectorstore.NewSearchFailedError(storeName, fmt.Errorf("error scanning row: %w", err))
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, vectorstore.NewSearchFailedError(storeName, err)
	}

	return docs, nil
}

// scoreExpr turns a pgvector distance into a similarity where higher is closer
func (p *PGVectorStore) scoreExpr(operator string) string {
	switch p.distance {
	case vectorstore.DotProduct:
		return fmt.Sprintf("(embedding %s $1::vector) * -1", operator)
	case vectorstore.Euclidean:
		return fmt.Sprintf("1 / (1 + (embedding %s $1::vector))", operator)
	default:
		return fmt.Sprintf("1 - (embedding %s $1::vector)", operator)
	}
}

func (p *PGVectorStore) Delete(ctx context.Context, filter vectorstore.Filter) error {
	where, args := buildWhere(filter, 1)

	if _, err := p.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s %s", p.table, where), args...); err != nil {
		return vectorstore.NewDeleteFailedError(storeName, err)
	}

	return nil
}

func (p *PGVectorStore) Exists(ctx context.Context, filter vectorstore.Filter) (bool, error) {
	where, args := buildWhere(filter, 1)

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s %s)", p.table, where)
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, vectorstore.NewSearchFailedError(storeName, err)
	}

	return exists, nil
}

// Close closes the database connection pool
func (p *PGVectorStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// buildWhere renders filter as metadata text equality conditions with both
// keys and values bound as parameters starting at $next. Keys are sorted so
// the statement text is stable.
func buildWhere(filter vectorstore.Filter, next int) (string, []interface{}) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	args := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		conditions = append(conditions, fmt.Sprintf("metadata->>$%d = $%d", next, next+1))
		args = append(args, k, fmt.Sprint(filter[k]))
		next += 2
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// formatVectorForPG converts a float32 slice to the pgvector text format
func formatVectorForPG(vector []float32) string {
	var b strings.Builder
	b.WriteString("[")
	for i, v := range vector {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteString("]")
	return b.String()
}
