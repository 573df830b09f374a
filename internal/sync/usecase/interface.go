package usecase

import (
	"context"

	"github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"
	"github.com/gagangborneo/chatzwa-sub002/pkg/chroma"
)

// EmbeddingService converts texts into vectors. Implemented by the Ollama
// client; swap implementations to change embedding providers.
type EmbeddingService interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Ping(ctx context.Context) error
}

// VectorStoreService is the interface for vector store operations
type VectorStoreService interface {
	EnsureCollection(ctx context.Context) error
	AddRecords(ctx context.Context, ids []string, vectors [][]float32, metadatas []map[string]interface{}, documents []string) error
	Query(ctx context.Context, embedding []float32, topK int) (*chroma.QueryResult, error)
	CollectionInfo(ctx context.Context) (*chroma.CollectionInfo, error)
	DeleteCollection(ctx context.Context) error
	Heartbeat(ctx context.Context) error
}

// DocumentSource resolves a source name to its documents
type DocumentSource interface {
	Fetch(ctx context.Context, name string) ([]domain.Document, error)
}

// SyncUsecase is the surface consumed by the delivery layer
type SyncUsecase interface {
	SynchronizeData(ctx context.Context, dataSource, syncType string, documents []domain.Document) domain.SyncResult
	CheckHealth(ctx context.Context) domain.HealthStatus
	Search(ctx context.Context, query string, topK int) (*chroma.QueryResult, error)
	CollectionInfo(ctx context.Context) (*chroma.CollectionInfo, error)
	DeleteCollection(ctx context.Context) error
	GetSyncHistory(limit int) ([]domain.SyncHistory, error)
	GetSyncByID(id string) (*domain.SyncHistory, error)
	DeleteSyncRecord(id string) error
}
