package agent

import (
	"context"
	"fmt"

	"medrag/model"
	"medrag/store"
	"medrag/types"
)

const fallbackSourceFile = "unknown_file"

// Retriever turns a question into ranked chunk records: embed the question,
// ask the vector index for the nearest chunks, shape the hits. Collaborators
// are wired once at startup and only read afterwards.
type Retriever struct {
	embedder model.EmbedderInterface
	index    store.VectorIndex
}

func NewRetriever(embedder model.EmbedderInterface, index store.VectorIndex) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
	}
}

// Retrieve returns the topK nearest chunks in ascending-distance order with
// 1-based ranks, and their citation ids in the same order. Citation ids are
// not deduplicated.
func (r *Retriever) Retrieve(ctx context.Context, question string, topK int) ([]types.RetrievedChunk, []string, error) {
	if r.embedder == nil || r.index == nil {
		return nil, nil, fmt.Errorf("retriever not initialized: embedder and vector index must be wired at startup")
	}

	vectors, err := r.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.index.Nearest(ctx, vectors[0], topK)
	if err != nil {
		return nil, nil, fmt.Errorf("vector index query: %w", err)
	}

	chunks := make([]types.RetrievedChunk, 0, len(hits))
	citations := make([]string, 0, len(hits))

	for i, hit := range hits {
		chunkID := hit.Metadata[types.MetaChunkUID]
		if chunkID == "" {
			chunkID = hit.ID
		}
		sourceFile := hit.Metadata[types.MetaFilename]
		if sourceFile == "" {
			sourceFile = fallbackSourceFile
		}

		chunks = append(chunks, types.RetrievedChunk{
			Rank:       i + 1,
			ChunkID:    chunkID,
			SourceFile: sourceFile,
			Metadata:   hit.Metadata,
			Text:       hit.Content,
			Distance:   hit.Distance,
		})
		citations = append(citations, chunkID)
	}

	return chunks, citations, nil
}
