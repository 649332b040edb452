package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"medrag/types"
)

// MemoryStore is a brute-force in-memory vector index using cosine distance,
// matching the distance semantics of the Postgres store. It backs tests and a
// database-less dev mode.
type MemoryStore struct {
	mu      sync.RWMutex
	records []types.IndexedRecord
	byUID   map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUID: make(map[string]int)}
}

func (m *MemoryStore) Init(ctx context.Context) error { return nil }

func (m *MemoryStore) Upsert(ctx context.Context, records []types.IndexedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		if i, ok := m.byUID[rec.UID]; ok {
			m.records[i] = rec
			continue
		}
		m.byUID[rec.UID] = len(m.records)
		m.records = append(m.records, rec)
	}
	return nil
}

func (m *MemoryStore) Nearest(ctx context.Context, queryVec []float32, topK int) ([]types.SearchHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make([]types.SearchHit, 0, len(m.records))
	for _, rec := range m.records {
		d := cosineDistance(queryVec, rec.Embedding)
		hits = append(hits, types.SearchHit{
			ID:       rec.UID,
			Content:  rec.Content,
			Metadata: rec.Metadata,
			Distance: &d,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return *hits[i].Distance < *hits[j].Distance
	})
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *MemoryStore) Close() error { return nil }

func cosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
