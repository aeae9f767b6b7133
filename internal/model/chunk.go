package model

// ChunkMeta is the provenance record stored alongside every indexed chunk.
// The id is assigned at insertion time and never reused.
type ChunkMeta struct {
	Subject string `json:"subject"`
	Source  string `json:"source"`
	Page    int    `json:"page"`
	ID      int64  `json:"id"`
}

// RetrievedResult is a single similarity-search hit. Distance is
// 1 - cosine similarity and is only meaningful for relative ranking.
type RetrievedResult struct {
	Text     string    `json:"text"`
	Meta     ChunkMeta `json:"metadata"`
	Distance float32   `json:"distance"`
}
