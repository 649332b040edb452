package types

// RefusalAnswer is the fixed answer returned whenever the service declines to
// generate: either retrieval confidence was too low, or the model produced an
// answer without a single traceable citation.
const RefusalAnswer = "I don't know based on the provided documents."

// Warning flags attached to a QueryResult. These are machine-readable: a
// refusal is never silent.
const (
	FlagLowRetrievalConfidence = "low_retrieval_confidence"
	FlagMissingCitations       = "missing_citations_in_answer"
)

// Metadata keys stored alongside every indexed chunk.
const (
	MetaSource   = "source"
	MetaFilename = "filename"
	MetaChunkUID = "chunk_uid"
)

// Document is a raw ingested text file. Immutable after load.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Chunk is a bounded substring of a document, the unit of retrieval.
// UID is "<filename>::chunk_<index>" and is stable across re-ingests of the
// same file with the same chunking parameters.
type Chunk struct {
	Content  string
	Index    int
	UID      string
	Metadata map[string]string
}

// IndexedRecord is the tuple persisted in the vector index.
type IndexedRecord struct {
	UID       string
	Content   string
	Metadata  map[string]string
	Embedding []float32
}

// SearchHit is one nearest-neighbour result from the vector index.
// Distance is nil when the index does not report one.
type SearchHit struct {
	ID       string
	Content  string
	Metadata map[string]string
	Distance *float64
}

// RetrievedChunk is the query-scoped view of a hit: rank is 1-based in
// ascending-distance order.
type RetrievedChunk struct {
	Rank       int               `json:"rank"`
	ChunkID    string            `json:"chunk_id"`
	SourceFile string            `json:"source_file"`
	Metadata   map[string]string `json:"metadata"`
	Text       string            `json:"text"`
	Distance   *float64          `json:"distance"`
}

// GroundingInfo records the abstention decision for a query.
type GroundingInfo struct {
	BestDistance         *float64 `json:"best_distance"`
	MaxDistanceThreshold float64  `json:"max_distance_threshold"`
	Abstained            bool     `json:"abstained"`
}

// RetrieveResponse is the body of POST /retrieve.
type RetrieveResponse struct {
	Question  string           `json:"question"`
	TopK      int              `json:"top_k"`
	Chunks    []RetrievedChunk `json:"chunks"`
	Citations []string         `json:"citations"`
}

// QueryResult is the body of POST /query.
type QueryResult struct {
	Question     string           `json:"question"`
	Answer       string           `json:"answer"`
	Citations    []string         `json:"citations"`
	Chunks       []RetrievedChunk `json:"chunks"`
	WarningFlags []string         `json:"warning_flags"`
	Grounding    GroundingInfo    `json:"grounding"`
}
