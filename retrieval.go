package ragdex

// RetrievalResult is a single ranked hit assembled from a stored point.
// Results are produced fresh per query and never mutated afterwards.
type RetrievalResult struct {
	Content        string         `json:"content"`
	URL            string         `json:"url"`
	Title          string         `json:"title"`
	RelevanceScore float32        `json:"relevanceScore"`
	ChunkIndex     int            `json:"chunkIndex"`
	TotalChunks    int            `json:"totalChunks"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	SourceChunkID  string         `json:"sourceChunkId,omitempty"`
	ContentHash    string         `json:"contentHash,omitempty"`
}

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// TopK is the requested number of results. Values outside [3,10] are
	// clamped; zero means the engine default.
	TopK int

	// Filters restrict results by payload fields. A "modules" key matches
	// any of the given module IDs; other keys match exactly (scalar) or
	// any-of (list).
	Filters map[string]any

	// MinScore drops hits below this similarity score.
	MinScore float32
}

// ResultFromScoredPoint maps a search hit onto a RetrievalResult. A
// missing chunk index defaults to 0 and a missing total chunk count
// defaults to 1.
func ResultFromScoredPoint(hit ScoredPoint) RetrievalResult {
	totalChunks := hit.Payload.TotalChunks
	if totalChunks == 0 {
		totalChunks = 1
	}
	return RetrievalResult{
		Content:        hit.Payload.Content,
		URL:            hit.Payload.URL,
		Title:          hit.Payload.Title,
		RelevanceScore: hit.Score,
		ChunkIndex:     hit.Payload.ChunkIndex,
		TotalChunks:    totalChunks,
		Metadata:       hit.Payload.SourceMetadata,
		SourceChunkID:  hit.Payload.ChunkID,
		ContentHash:    hit.Payload.ContentHash,
	}
}
