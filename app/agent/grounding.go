package agent

import "medrag/types"

// Decide applies the abstention policy. The best evidence is the minimum
// distance among hits that report one; a single chunk at or under the
// threshold is enough to proceed. Abstain when no distance is available or
// the best distance is strictly above the threshold.
func Decide(chunks []types.RetrievedChunk, threshold float64) types.GroundingInfo {
	var best *float64
	for _, c := range chunks {
		if c.Distance == nil {
			continue
		}
		if best == nil || *c.Distance < *best {
			d := *c.Distance
			best = &d
		}
	}

	return types.GroundingInfo{
		BestDistance:         best,
		MaxDistanceThreshold: threshold,
		Abstained:            best == nil || *best > threshold,
	}
}
