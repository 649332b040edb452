package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrag/store"
	"medrag/types"
)

// End-to-end over the in-memory index: retrieval, grounding decision and
// composition with fake embedding/model collaborators.

const (
	questionHygiene    = "What are the key recommendations for hand hygiene?"
	questionAntibiotic = "What antibiotic should be prescribed for pneumonia?"
)

func seededIndex(t *testing.T) store.VectorIndex {
	t.Helper()
	index := store.NewMemoryStore()
	err := index.Upsert(context.Background(), []types.IndexedRecord{
		{
			UID:     "hygiene.txt::chunk_0",
			Content: "Wash hands before and after every patient contact.",
			Metadata: map[string]string{
				types.MetaChunkUID: "hygiene.txt::chunk_0",
				types.MetaFilename: "hygiene.txt",
			},
			// cosine similarity 0.7 to the hygiene question vector
			Embedding: []float32{0.7, 0.71414284},
		},
		{
			UID:     "pressure.txt::chunk_0",
			Content: "Reposition immobile patients at least every two hours.",
			Metadata: map[string]string{
				types.MetaChunkUID: "pressure.txt::chunk_0",
				types.MetaFilename: "pressure.txt",
			},
			Embedding: []float32{0, 1},
		},
	})
	require.NoError(t, err)
	return index
}

func pipelineEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: map[string][]float32{
		questionHygiene:    {1, 0},
		questionAntibiotic: {-0.97014254, -0.24253563},
	}}
}

func TestPipelineAnswersGroundedQuestion(t *testing.T) {
	retriever := NewRetriever(pipelineEmbedder(), seededIndex(t))
	llm := &fakeLLM{response: "Wash hands before and after patient contact [hygiene.txt::chunk_0]."}
	composer := NewComposer(llm, 1.2, true)

	chunks, citations, err := retriever.Retrieve(context.Background(), questionHygiene, 3)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	require.NotNil(t, chunks[0].Distance)
	assert.InDelta(t, 0.3, *chunks[0].Distance, 0.01)

	result, err := composer.Answer(context.Background(), questionHygiene, chunks, citations)
	require.NoError(t, err)

	assert.False(t, result.Grounding.Abstained)
	assert.Equal(t, 1, llm.calls)
	assert.Empty(t, result.WarningFlags)

	assert.True(t, containsAny(result.Answer, result.Citations),
		"answer must contain at least one returned citation id")
}

func TestPipelineAbstainsOnOutOfScopeQuestion(t *testing.T) {
	retriever := NewRetriever(pipelineEmbedder(), seededIndex(t))
	llm := &fakeLLM{response: "should never be called"}
	composer := NewComposer(llm, 1.2, true)

	chunks, citations, err := retriever.Retrieve(context.Background(), questionAntibiotic, 3)
	require.NoError(t, err)

	result, err := composer.Answer(context.Background(), questionAntibiotic, chunks, citations)
	require.NoError(t, err)

	assert.True(t, result.Grounding.Abstained)
	assert.Equal(t, 0, llm.calls)
	assert.Equal(t, types.RefusalAnswer, result.Answer)
	assert.Equal(t, []string{types.FlagLowRetrievalConfidence}, result.WarningFlags)
	require.NotNil(t, result.Grounding.BestDistance)
	assert.Greater(t, *result.Grounding.BestDistance, 1.2)
}
