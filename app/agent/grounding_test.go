package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medrag/types"
)

func dist(d float64) *float64 { return &d }

func chunksWithDistances(ds ...*float64) []types.RetrievedChunk {
	chunks := make([]types.RetrievedChunk, len(ds))
	for i, d := range ds {
		chunks[i] = types.RetrievedChunk{Rank: i + 1, ChunkID: "doc.txt::chunk_0", Distance: d}
	}
	return chunks
}

func TestDecideEmptyResultAbstains(t *testing.T) {
	info := Decide(nil, 1.2)

	assert.True(t, info.Abstained)
	assert.Nil(t, info.BestDistance)
	assert.Equal(t, 1.2, info.MaxDistanceThreshold)
}

func TestDecideNoReportedDistancesAbstains(t *testing.T) {
	info := Decide(chunksWithDistances(nil, nil), 1.2)

	assert.True(t, info.Abstained)
	assert.Nil(t, info.BestDistance)
}

func TestDecideThresholdBoundary(t *testing.T) {
	// exactly at the threshold counts as grounded
	info := Decide(chunksWithDistances(dist(1.2)), 1.2)
	assert.False(t, info.Abstained)

	// strictly above the threshold abstains
	info = Decide(chunksWithDistances(dist(1.2+1e-9)), 1.2)
	assert.True(t, info.Abstained)
}

func TestDecidePicksMinimumDistance(t *testing.T) {
	info := Decide(chunksWithDistances(dist(0.9), nil, dist(0.3), dist(1.8)), 1.2)

	require.NotNil(t, info.BestDistance)
	assert.Equal(t, 0.3, *info.BestDistance)
	assert.False(t, info.Abstained)
}

func TestDecideSingleGoodChunkIsEnough(t *testing.T) {
	info := Decide(chunksWithDistances(dist(0.3), dist(5.0), dist(7.0)), 1.2)

	assert.False(t, info.Abstained)
}
