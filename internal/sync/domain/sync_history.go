package domain

import "time"

// Values a record's Status field can carry. Records are written once, after a
// run finishes, so the database only ever holds success or failed;
// SyncStatusRunning is reserved for in-flight reporting.
const (
	SyncStatusSuccess = "success"
	SyncStatusFailed  = "failed"
	SyncStatusRunning = "running"
)

// Sync types
const (
	SyncTypeFull        = "full"
	SyncTypeIncremental = "incremental"
)

// SyncHistory is one append-only record per synchronization run. Records are
// never mutated after creation; they can only be deleted by id.
type SyncHistory struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	Timestamp          time.Time `json:"timestamp" gorm:"index"`
	Status             string    `json:"status"`
	DocumentsProcessed int       `json:"documents_processed"`
	EmbeddingsCreated  int       `json:"embeddings_created"`
	Duration           int64     `json:"duration"` // milliseconds
	ErrorMessage       string    `json:"error_message,omitempty"`
	DataSource         string    `json:"data_source"`
	SyncType           string    `json:"sync_type"`
	CreatedAt          time.Time `json:"created_at"`
}
