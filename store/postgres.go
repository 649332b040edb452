package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"medrag/types"
)

// PostgresStore keeps indexed chunks in a pgvector table, one table per
// collection. Distances come from the cosine distance operator, so lower
// means more similar.
type PostgresStore struct {
	pool       *pgxpool.Pool
	collection string
	dim        int
}

func NewPostgresStore(ctx context.Context, connStr, collection string, dim int) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool:       pool,
		collection: collection,
		dim:        dim,
	}, nil
}

func (p *PostgresStore) table() string {
	return pgx.Identifier{p.collection}.Sanitize()
}

func (p *PostgresStore) embeddingIndex() string {
	return pgx.Identifier{fmt.Sprintf("idx_%s_embedding", p.collection)}.Sanitize()
}

func (p *PostgresStore) initQuery() string {
	return fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS %s (
		chunk_uid TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
		embedding vector(%d)
	);

	CREATE INDEX IF NOT EXISTS %s ON %s
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
	`, p.table(), p.dim, p.embeddingIndex(), p.table())
}

func (p *PostgresStore) Init(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, p.initQuery())
	return err
}

// Upsert writes records keyed by chunk UID. Re-upserting the same UID
// overwrites, which is what makes re-ingesting a file safe.
func (p *PostgresStore) Upsert(ctx context.Context, records []types.IndexedRecord) error {
	query := fmt.Sprintf(`
	INSERT INTO %s (chunk_uid, content, metadata, embedding)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (chunk_uid) DO UPDATE SET
		content = EXCLUDED.content,
		metadata = EXCLUDED.metadata,
		embedding = EXCLUDED.embedding
	`, p.table())

	for _, rec := range records {
		if len(rec.Embedding) != p.dim {
			return fmt.Errorf("embedding dimension %d does not match collection dimension %d", len(rec.Embedding), p.dim)
		}
		_, err := p.pool.Exec(ctx, query,
			rec.UID, rec.Content, rec.Metadata, pgvector.NewVector(rec.Embedding),
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", rec.UID, err)
		}
	}
	return nil
}

func (p *PostgresStore) Nearest(ctx context.Context, queryVec []float32, topK int) ([]types.SearchHit, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	query := fmt.Sprintf(`
	SELECT chunk_uid, content, metadata, embedding <=> $1 AS distance
	FROM %s
	WHERE embedding IS NOT NULL
	ORDER BY embedding <=> $1
	LIMIT $2
	`, p.table())

	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(queryVec), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []types.SearchHit
	for rows.Next() {
		var hit types.SearchHit
		var distance float64
		if err := rows.Scan(&hit.ID, &hit.Content, &hit.Metadata, &distance); err != nil {
			return nil, err
		}
		hit.Distance = &distance
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
