package vectorstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/edukits/ragtutor/internal/ai"
	"github.com/edukits/ragtutor/internal/model"
	appErr "github.com/edukits/ragtutor/internal/pkg/errors"
)

type pgConfig struct {
	DSN       string `json:"dsn"`
	Table     string `json:"table"`
	Dimension int    `json:"dimension"`
}

// pgStore is the pgvector-backed alternative to the file store for corpora
// that outgrow a single in-memory index. The embedding dimension is pinned
// by the table schema, so it must be declared up front.
type pgStore struct {
	db       *sqlx.DB
	table    string
	dim      int
	embedder ai.IEmbedder
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func init() {
	Register("pgvector", createPgStore)
}

func createPgStore(args interface{}, embedder ai.IEmbedder) (Store, error) {
	cfg := &pgConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("vector_store.dsn is required for pgvector store")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("vector_store.dimension is required for pgvector store")
	}
	if cfg.Table == "" {
		cfg.Table = "chunks"
	}
	if !tableNamePattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid table name: %s", cfg.Table)
	}
	if embedder == nil {
		return nil, fmt.Errorf("pgvector store requires an embedder")
	}
	db, err := sqlx.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	store := &pgStore{db: db, table: cfg.Table, dim: cfg.Dimension, embedder: embedder}
	if err := store.migrate(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *pgStore) migrate() error {
	if _, err := s.db.Exec("CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		subject TEXT NOT NULL,
		source TEXT NOT NULL,
		page INT NOT NULL,
		content TEXT NOT NULL,
		embedding vector(%d) NOT NULL
	)`, s.table, s.dim)
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	return nil
}

func (s *pgStore) Add(ctx context.Context, chunks []string, metas []model.ChunkMeta) (int, error) {
	if len(chunks) != len(metas) {
		return 0, fmt.Errorf("%w: %d chunks vs %d metadata entries", appErr.ErrInvalid, len(chunks), len(metas))
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, chunks, "RETRIEVAL_DOCUMENT")
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}
	embeddings = normalizeAll(embeddings)
	for _, emb := range embeddings {
		if len(emb) != s.dim {
			return 0, fmt.Errorf("%w: table has %d, embedding has %d", appErr.ErrDimensionMismatch, s.dim, len(emb))
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	insert := fmt.Sprintf("INSERT INTO %s (subject, source, page, content, embedding) VALUES ($1, $2, $3, $4, $5)", s.table)
	for i, chunk := range chunks {
		meta := metas[i]
		if _, err := tx.ExecContext(ctx, insert, meta.Subject, meta.Source, meta.Page, chunk, pgvector.NewVector(embeddings[i])); err != nil {
			return 0, fmt.Errorf("insert chunk: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(chunks), nil
}

type pgRow struct {
	ID      int64   `db:"id"`
	Subject string  `db:"subject"`
	Source  string  `db:"source"`
	Page    int     `db:"page"`
	Content string  `db:"content"`
	Score   float32 `db:"score"`
}

func (s *pgStore) Search(ctx context.Context, embedding []float32, limit int) ([]ScoredChunk, error) {
	if limit <= 0 {
		return nil, nil
	}
	// <#> is negative inner product; vectors are unit length so the negated
	// value is the cosine similarity.
	query := fmt.Sprintf(
		"SELECT id, subject, source, page, content, -(embedding <#> $1) AS score FROM %s ORDER BY embedding <#> $1 LIMIT $2",
		s.table,
	)
	var rows []pgRow
	if err := s.db.SelectContext(ctx, &rows, query, pgvector.NewVector(embedding), limit); err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	out := make([]ScoredChunk, 0, len(rows))
	for _, row := range rows {
		out = append(out, ScoredChunk{
			Text: row.Content,
			Meta: model.ChunkMeta{
				Subject: row.Subject,
				Source:  row.Source,
				Page:    row.Page,
				ID:      row.ID,
			},
			Score: row.Score,
		})
	}
	return out, nil
}

func (s *pgStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return count, nil
}

func (s *pgStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", s.table)); err != nil {
		return fmt.Errorf("truncate chunks: %w", err)
	}
	return nil
}
