package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"
	"github.com/gagangborneo/chatzwa-sub002/internal/sync/source"
	"github.com/gagangborneo/chatzwa-sub002/pkg/chroma"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder returns a fixed-size vector per text and can fail a given call
type fakeEmbedder struct {
	pingErr   error
	errOnCall int // 1-based batch call number that fails; 0 = never
	calls     int
	texts     [][]string
}

func (f *fakeEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	f.texts = append(f.texts, texts)
	if f.errOnCall != 0 && f.calls == f.errOnCall {
		return nil, errors.New("embedding backend exploded")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := f.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (f *fakeEmbedder) Ping(ctx context.Context) error { return f.pingErr }

// fakeStore records everything stored and can fail a given add call
type fakeStore struct {
	heartbeatErr error
	ensureErr    error
	addErrOnCall int
	addErrAlways error

	ensureCalls int
	addCalls    int
	ids         []string
	metadatas   []map[string]interface{}
	documents   []string
}

func (f *fakeStore) EnsureCollection(ctx context.Context) error {
	f.ensureCalls++
	return f.ensureErr
}

func (f *fakeStore) AddRecords(ctx context.Context, ids []string, vectors [][]float32, metadatas []map[string]interface{}, documents []string) error {
	f.addCalls++
	if f.addErrAlways != nil {
		return f.addErrAlways
	}
	if f.addErrOnCall != 0 && f.addCalls == f.addErrOnCall {
		return errors.New("chroma insert rejected")
	}
	f.ids = append(f.ids, ids...)
	f.metadatas = append(f.metadatas, metadatas...)
	f.documents = append(f.documents, documents...)
	return nil
}

func (f *fakeStore) Query(ctx context.Context, embedding []float32, topK int) (*chroma.QueryResult, error) {
	return &chroma.QueryResult{}, nil
}

func (f *fakeStore) CollectionInfo(ctx context.Context) (*chroma.CollectionInfo, error) {
	if f.heartbeatErr != nil {
		return nil, nil
	}
	return &chroma.CollectionInfo{Name: "knowledge_base", Count: len(f.ids)}, nil
}

func (f *fakeStore) DeleteCollection(ctx context.Context) error { return nil }

func (f *fakeStore) Heartbeat(ctx context.Context) error { return f.heartbeatErr }

// fakeHistory is an in-memory SyncHistoryRepository
type fakeHistory struct {
	mu      sync.Mutex
	records []domain.SyncHistory
	addErr  error
}

func (f *fakeHistory) Add(record *domain.SyncHistory) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		record.ID = fmt.Sprintf("sync_test_%d", len(f.records))
	}
	f.records = append([]domain.SyncHistory{*record}, f.records...)
	return nil
}

func (f *fakeHistory) List(limit int) ([]domain.SyncHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 || limit > len(f.records) {
		limit = len(f.records)
	}
	return append([]domain.SyncHistory{}, f.records[:limit]...), nil
}

func (f *fakeHistory) GetByID(id string) (*domain.SyncHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeHistory) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func makeDocuments(n int) []domain.Document {
	docs := make([]domain.Document, n)
	for i := range docs {
		docs[i] = domain.Document{
			ID:       fmt.Sprintf("doc_%02d", i),
			Title:    fmt.Sprintf("Document %d", i),
			Content:  "some content",
			Category: "test",
		}
	}
	return docs
}

func newTestSynchronizer(embedder *fakeEmbedder, store *fakeStore, history *fakeHistory) SyncUsecase {
	return NewSynchronizer(embedder, store, source.NewDefaultRegistry(), history)
}

func TestSynchronizeDatabaseSource(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	result := uc.SynchronizeData(context.Background(), "database", "full", nil)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, embedder.calls, "two documents fit in one batch")
	assert.Len(t, store.ids, 2)

	require.Len(t, history.records, 1, "exactly one history record per run")
	rec := history.records[0]
	assert.Equal(t, domain.SyncStatusSuccess, rec.Status)
	assert.Equal(t, 2, rec.DocumentsProcessed)
	assert.Equal(t, 2, rec.EmbeddingsCreated)
	assert.Equal(t, "database", rec.DataSource)
	assert.Equal(t, domain.SyncTypeFull, rec.SyncType)
}

func TestHealthGateOllamaDown(t *testing.T) {
	embedder := &fakeEmbedder{pingErr: errors.New("connection refused")}
	store := &fakeStore{}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	result := uc.SynchronizeData(context.Background(), "database", "full", nil)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, []string{"Ollama service is not available"}, result.Errors)
	assert.Equal(t, 0, store.ensureCalls, "no work starts when the gate fails")

	require.Len(t, history.records, 1)
	assert.Equal(t, domain.SyncStatusFailed, history.records[0].Status)
}

func TestHealthGateChromaDown(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{heartbeatErr: errors.New("no heartbeat")}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	result := uc.SynchronizeData(context.Background(), "database", "full", nil)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Processed)
	assert.Contains(t, result.Errors, "Chroma service is not available")
}

func TestEmptySourceIsSuccessfulNoOp(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	result := uc.SynchronizeData(context.Background(), "unknown_source", "full", nil)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, embedder.calls)

	require.Len(t, history.records, 1)
	assert.Equal(t, domain.SyncStatusSuccess, history.records[0].Status)
}

func TestBatchIsolation(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{addErrOnCall: 2}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	docs := makeDocuments(25) // batches of 10, 10, 5

	result := uc.SynchronizeData(context.Background(), "documents", "full", docs)

	assert.True(t, result.Success, "partial success counts as success")
	assert.Equal(t, 15, result.Processed)
	assert.Equal(t, 10, result.Failed)
	assert.Equal(t, len(docs), result.Processed+result.Failed)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "Batch 2:"), "error names the failing batch: %s", result.Errors[0])
	assert.Equal(t, 3, embedder.calls, "later batches still run after a failure")
}

func TestEmbeddingFailureIsolatedPerBatch(t *testing.T) {
	embedder := &fakeEmbedder{errOnCall: 1}
	store := &fakeStore{}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	docs := makeDocuments(12) // batches of 10, 2

	result := uc.SynchronizeData(context.Background(), "documents", "full", docs)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 10, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Batch 1:")
}

func TestAllBatchesFailingIsAFailedRun(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{addErrAlways: errors.New("disk full")}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	result := uc.SynchronizeData(context.Background(), "documents", "full", makeDocuments(15))

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 15, result.Failed)
	assert.Len(t, result.Errors, 2)

	require.Len(t, history.records, 1)
	assert.Equal(t, domain.SyncStatusFailed, history.records[0].Status)
}

func TestEmbeddingInputAndMetadataMerge(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	docs := []domain.Document{{
		ID:       "faq_1",
		Title:    "Refund Policy",
		Content:  "Refunds are processed within 5 business days.",
		Category: "faq",
		Metadata: map[string]interface{}{
			"source": "manual-import", // collides with the synthesized default
			"locale": "en",
		},
	}}

	result := uc.SynchronizeData(context.Background(), "database", "incremental", docs)

	require.True(t, result.Success)
	require.Len(t, embedder.texts, 1)
	assert.Equal(t, "Refund Policy faq Refunds are processed within 5 business days.", embedder.texts[0][0])

	require.Len(t, store.metadatas, 1)
	meta := store.metadatas[0]
	assert.Equal(t, "manual-import", meta["source"], "document metadata wins on key collision")
	assert.Equal(t, "en", meta["locale"])
	assert.Equal(t, "Refund Policy", meta["title"])
	assert.Equal(t, "faq", meta["category"])
	assert.NotEmpty(t, meta["created_at"])

	require.Len(t, store.ids, 1)
	assert.Regexp(t, `^faq_1_\d+_[0-9a-f]{6}$`, store.ids[0])
	assert.Equal(t, docs[0].Content, store.documents[0], "stored document text is the raw content")

	require.Len(t, history.records, 1)
	assert.Equal(t, domain.SyncTypeIncremental, history.records[0].SyncType)
}

func TestResyncCreatesNewVectorEntries(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	docs := makeDocuments(1)
	uc.SynchronizeData(context.Background(), "database", "full", docs)
	uc.SynchronizeData(context.Background(), "database", "full", docs)

	require.Len(t, store.ids, 2)
	assert.NotEqual(t, store.ids[0], store.ids[1], "re-sync appends instead of updating")
}

func TestSyncTypeDefaultsToFull(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	history := &fakeHistory{}
	uc := newTestSynchronizer(embedder, store, history)

	uc.SynchronizeData(context.Background(), "database", "", nil)

	require.Len(t, history.records, 1)
	assert.Equal(t, domain.SyncTypeFull, history.records[0].SyncType)
}

func TestCheckHealth(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		uc := newTestSynchronizer(&fakeEmbedder{}, &fakeStore{}, &fakeHistory{})
		status := uc.CheckHealth(context.Background())
		assert.True(t, status.Ollama)
		assert.True(t, status.Chroma)
		assert.True(t, status.CollectionExists)
	})

	t.Run("chroma down hides collection", func(t *testing.T) {
		store := &fakeStore{heartbeatErr: errors.New("down")}
		uc := newTestSynchronizer(&fakeEmbedder{}, store, &fakeHistory{})
		status := uc.CheckHealth(context.Background())
		assert.True(t, status.Ollama)
		assert.False(t, status.Chroma)
		assert.False(t, status.CollectionExists)
	})

	t.Run("ollama down", func(t *testing.T) {
		uc := newTestSynchronizer(&fakeEmbedder{pingErr: errors.New("down")}, &fakeStore{}, &fakeHistory{})
		status := uc.CheckHealth(context.Background())
		assert.False(t, status.Ollama)
		assert.True(t, status.Chroma)
	})
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	uc := newTestSynchronizer(&fakeEmbedder{}, &fakeStore{}, &fakeHistory{})

	_, err := uc.Search(context.Background(), "   ", 5)

	assert.Error(t, err)
}

func TestSearchEmbedsQueryText(t *testing.T) {
	embedder := &fakeEmbedder{}
	uc := newTestSynchronizer(embedder, &fakeStore{}, &fakeHistory{})

	result, err := uc.Search(context.Background(), "how do refunds work", 0)

	require.NoError(t, err)
	assert.NotNil(t, result)
	require.Len(t, embedder.texts, 1)
	assert.Equal(t, []string{"how do refunds work"}, embedder.texts[0])
}
