package domain

// Document is the unit of input to the synchronization pipeline. Produced by a
// source provider or supplied inline by the caller; immutable once read.
type Document struct {
	ID       string                 `json:"id,omitempty"`
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	Category string                 `json:"category"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// EmbeddingResult pairs a synthesized vector-store id with the embedding and the
// metadata that gets stored alongside it
type EmbeddingResult struct {
	ID        string                 `json:"id"`
	Embedding []float32              `json:"embedding"`
	Metadata  map[string]interface{} `json:"metadata"`
	Document  string                 `json:"document"`
}

// SyncResult summarizes a single synchronization run
type SyncResult struct {
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
	Duration  int64    `json:"duration"` // milliseconds
}

// HealthStatus reports availability of the external services
type HealthStatus struct {
	Ollama           bool `json:"ollama"`
	Chroma           bool `json:"chroma"`
	CollectionExists bool `json:"collection_exists"`
}
