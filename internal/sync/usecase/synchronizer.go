package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"
	"github.com/gagangborneo/chatzwa-sub002/internal/sync/repository"
	"github.com/gagangborneo/chatzwa-sub002/pkg/chroma"

	"github.com/google/uuid"
)

// batchSize is the fixed number of documents embedded and stored per batch
const batchSize = 10

// Synchronizer orchestrates the document-to-embedding pipeline: health gate,
// collection creation, per-batch embed and store, and a history record per run.
type Synchronizer struct {
	embedder EmbeddingService
	store    VectorStoreService
	sources  DocumentSource
	history  repository.SyncHistoryRepository
}

// NewSynchronizer wires the pipeline from its dependencies
func NewSynchronizer(embedder EmbeddingService, store VectorStoreService, sources DocumentSource, history repository.SyncHistoryRepository) SyncUsecase {
	return &Synchronizer{
		embedder: embedder,
		store:    store,
		sources:  sources,
		history:  history,
	}
}

// SynchronizeData runs one synchronization pass. When documents is nil the
// source registry resolves dataSource; a caller-supplied list wins otherwise.
// A failing batch is counted and skipped, it never aborts the remaining
// batches. Exactly one history record is written per run, and the returned
// result never surfaces a panic or raw error to the caller.
func (s *Synchronizer) SynchronizeData(ctx context.Context, dataSource, syncType string, documents []domain.Document) domain.SyncResult {
	start := time.Now()
	if syncType != domain.SyncTypeIncremental {
		syncType = domain.SyncTypeFull
	}

	result := domain.SyncResult{Errors: []string{}}

	health := s.CheckHealth(ctx)
	if !health.Ollama {
		result.Errors = append(result.Errors, "Ollama service is not available")
	}
	if !health.Chroma {
		result.Errors = append(result.Errors, "Chroma service is not available")
	}
	if len(result.Errors) > 0 {
		result.Duration = time.Since(start).Milliseconds()
		s.recordRun(dataSource, syncType, result)
		return result
	}

	// Not fatal: a concurrent sync may have created the collection already, and
	// the store call below reports the real failure if the service lied here.
	if err := s.store.EnsureCollection(ctx); err != nil {
		log.Printf("[Sync] ensure collection failed, continuing: %v", err)
	}

	if documents == nil {
		fetched, err := s.sources.Fetch(ctx, dataSource)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to fetch documents from %s: %v", dataSource, err))
			result.Duration = time.Since(start).Milliseconds()
			s.recordRun(dataSource, syncType, result)
			return result
		}
		documents = fetched
	}

	// An empty source is a successful no-op run
	if len(documents) == 0 {
		result.Success = true
		result.Duration = time.Since(start).Milliseconds()
		s.recordRun(dataSource, syncType, result)
		return result
	}

	for i := 0; i < len(documents); i += batchSize {
		end := i + batchSize
		if end > len(documents) {
			end = len(documents)
		}
		batch := documents[i:end]

		if err := s.processBatch(ctx, batch, dataSource); err != nil {
			batchNum := i/batchSize + 1
			result.Failed += len(batch)
			result.Errors = append(result.Errors, fmt.Sprintf("Batch %d: %v", batchNum, err))
			log.Printf("[Sync] batch %d failed (%d documents): %v", batchNum, len(batch), err)
			continue
		}
		result.Processed += len(batch)
	}

	// Partial success counts as success; a run where every batch failed does not
	result.Success = result.Processed > 0
	result.Duration = time.Since(start).Milliseconds()
	s.recordRun(dataSource, syncType, result)

	log.Printf("[Sync] source=%s type=%s processed=%d failed=%d duration=%dms",
		dataSource, syncType, result.Processed, result.Failed, result.Duration)

	return result
}

// processBatch embeds one batch and stores it; any error fails the whole batch
func (s *Synchronizer) processBatch(ctx context.Context, batch []domain.Document, dataSource string) error {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		texts[i] = embeddingInput(doc)
	}

	vectors, err := s.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	results := make([]domain.EmbeddingResult, len(batch))
	for i, doc := range batch {
		metadata := map[string]interface{}{
			"title":      doc.Title,
			"content":    doc.Content,
			"category":   doc.Category,
			"source":     dataSource,
			"created_at": now,
		}
		// Document metadata is merged last so caller-supplied fields win on
		// key collision
		for key, value := range doc.Metadata {
			metadata[key] = value
		}

		results[i] = domain.EmbeddingResult{
			ID:        synthesizeID(doc),
			Embedding: vectors[i],
			Metadata:  metadata,
			Document:  doc.Content,
		}
	}

	ids := make([]string, len(results))
	embeddings := make([][]float32, len(results))
	metadatas := make([]map[string]interface{}, len(results))
	docs := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
		embeddings[i] = r.Embedding
		metadatas[i] = r.Metadata
		docs[i] = r.Document
	}

	return s.store.AddRecords(ctx, ids, embeddings, metadatas, docs)
}

// embeddingInput builds the text that actually gets embedded: title, category
// and content, non-empty fields space-joined
func embeddingInput(doc domain.Document) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{doc.Title, doc.Category, doc.Content} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// synthesizeID builds a unique vector-store id even for repeated syncs of the
// same document. Re-syncing therefore appends a new entry instead of updating
// the old one; sync runs form an audit trail of embedding versions.
func synthesizeID(doc domain.Document) string {
	base := doc.ID
	if base == "" {
		base = doc.Title
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s_%d_%s", base, time.Now().UnixMilli(), suffix)
}

// recordRun writes the single history record for a finished run. A history
// write failure is logged, not propagated: the sync outcome already happened.
func (s *Synchronizer) recordRun(dataSource, syncType string, result domain.SyncResult) {
	status := domain.SyncStatusFailed
	if result.Success {
		status = domain.SyncStatusSuccess
	}

	record := &domain.SyncHistory{
		Status:             status,
		DocumentsProcessed: result.Processed,
		EmbeddingsCreated:  result.Processed,
		Duration:           result.Duration,
		ErrorMessage:       strings.Join(result.Errors, "; "),
		DataSource:         dataSource,
		SyncType:           syncType,
	}
	if err := s.history.Add(record); err != nil {
		log.Printf("[Sync] failed to record sync history: %v", err)
	}
}

// Search embeds the query text and returns the nearest stored documents
func (s *Synchronizer) Search(ctx context.Context, query string, topK int) (*chroma.QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	if topK <= 0 {
		topK = 5
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return s.store.Query(ctx, embedding, topK)
}

// CollectionInfo reports collection stats, nil when unavailable
func (s *Synchronizer) CollectionInfo(ctx context.Context) (*chroma.CollectionInfo, error) {
	return s.store.CollectionInfo(ctx)
}

// DeleteCollection drops the knowledge-base collection
func (s *Synchronizer) DeleteCollection(ctx context.Context) error {
	return s.store.DeleteCollection(ctx)
}

// GetSyncHistory lists past runs, newest first
func (s *Synchronizer) GetSyncHistory(limit int) ([]domain.SyncHistory, error) {
	return s.history.List(limit)
}

// GetSyncByID returns one run record, nil when unknown
func (s *Synchronizer) GetSyncByID(id string) (*domain.SyncHistory, error) {
	return s.history.GetByID(id)
}

// DeleteSyncRecord removes one run record
func (s *Synchronizer) DeleteSyncRecord(id string) error {
	return s.history.Delete(id)
}
