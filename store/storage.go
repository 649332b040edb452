package store

import (
	"context"

	"medrag/types"
)

// VectorIndex is the external vector-store collaborator. Upsert is idempotent
// by chunk UID; Nearest returns hits in ascending-distance order and may
// return fewer than topK when the corpus is smaller.
type VectorIndex interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, records []types.IndexedRecord) error
	Nearest(ctx context.Context, queryVec []float32, topK int) ([]types.SearchHit, error)
	Close() error
}
