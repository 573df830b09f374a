package chroma

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/gagangborneo/chatzwa-sub002/pkg/config"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// CollectionInfo describes the knowledge-base collection
type CollectionInfo struct {
	Name     string                 `json:"name"`
	Count    int                    `json:"count"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// QueryResult holds nearest-neighbor results as nested groups, one outer element
// per query embedding
type QueryResult struct {
	IDs       [][]string                 `json:"ids"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
	Distances [][]float32                `json:"distances"`
	Documents [][]string                 `json:"documents"`
}

// Client wraps the Chroma v2 HTTP API for the knowledge-base collection
type Client struct {
	client         chroma.Client
	collectionName string

	mu         sync.Mutex
	collection chroma.Collection // cached handle, populated lazily
}

// NewClient creates a Chroma client for a self-hosted instance
func NewClient(cfg *config.Config) (*Client, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.ChromaURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	return &Client{
		client:         client,
		collectionName: cfg.ChromaCollection,
	}, nil
}

// collectionHandle returns the cached collection, creating it on first use.
// GetOrCreateCollection makes creation idempotent across racing callers.
func (c *Client) collectionHandle(ctx context.Context) (chroma.Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.collection != nil {
		return c.collection, nil
	}

	collection, err := c.client.GetOrCreateCollection(ctx, c.collectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection %s: %w", c.collectionName, err)
	}
	c.collection = collection
	return collection, nil
}

// EnsureCollection creates the collection if it does not exist yet. Safe to call
// repeatedly; "already exists" counts as success.
func (c *Client) EnsureCollection(ctx context.Context) error {
	_, err := c.collectionHandle(ctx)
	return err
}

// AddRecords bulk-inserts parallel arrays of ids, vectors, metadata objects and
// raw document text in a single request
func (c *Client) AddRecords(ctx context.Context, ids []string, vectors [][]float32, metadatas []map[string]interface{}, documents []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(vectors) != len(ids) || len(metadatas) != len(ids) || len(documents) != len(ids) {
		return fmt.Errorf("mismatched record arrays: %d ids, %d vectors, %d metadatas, %d documents",
			len(ids), len(vectors), len(metadatas), len(documents))
	}

	collection, err := c.collectionHandle(ctx)
	if err != nil {
		return err
	}

	docIDs := make([]chroma.DocumentID, 0, len(ids))
	for _, id := range ids {
		docIDs = append(docIDs, chroma.DocumentID(id))
	}

	embs := make([]embeddings.Embedding, 0, len(vectors))
	for _, vector := range vectors {
		embs = append(embs, embeddings.NewEmbeddingFromFloat32(vector))
	}

	metas := make([]chroma.DocumentMetadata, 0, len(metadatas))
	for _, m := range metadatas {
		meta, err := chroma.NewDocumentMetadataFromMap(m)
		if err != nil {
			return fmt.Errorf("failed to create metadata: %w", err)
		}
		metas = append(metas, meta)
	}

	err = collection.Add(
		ctx,
		chroma.WithIDs(docIDs...),
		chroma.WithEmbeddings(embs...),
		chroma.WithMetadatas(metas...),
		chroma.WithTexts(documents...),
	)
	if err != nil {
		return fmt.Errorf("failed to add records: %w", err)
	}

	return nil
}

// Query returns the topK nearest neighbors for a query embedding
func (c *Client) Query(ctx context.Context, embedding []float32, topK int) (*QueryResult, error) {
	if topK <= 0 {
		topK = 5
	}

	collection, err := c.collectionHandle(ctx)
	if err != nil {
		return nil, err
	}

	results, err := collection.Query(
		ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chroma.WithNResults(topK),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	out := &QueryResult{
		IDs:       [][]string{},
		Metadatas: [][]map[string]interface{}{},
		Distances: [][]float32{},
		Documents: [][]string{},
	}
	if results == nil || results.CountGroups() == 0 {
		return out, nil
	}

	for _, group := range results.GetIDGroups() {
		ids := make([]string, 0, len(group))
		for _, id := range group {
			ids = append(ids, string(id))
		}
		out.IDs = append(out.IDs, ids)
	}

	for _, group := range results.GetDistancesGroups() {
		distances := make([]float32, 0, len(group))
		for _, d := range group {
			distances = append(distances, float32(d))
		}
		out.Distances = append(out.Distances, distances)
	}

	for _, group := range results.GetMetadatasGroups() {
		metas := make([]map[string]interface{}, 0, len(group))
		for _, meta := range group {
			metas = append(metas, metadataToMap(meta))
		}
		out.Metadatas = append(out.Metadatas, metas)
	}

	for _, group := range results.GetDocumentsGroups() {
		docs := make([]string, 0, len(group))
		for _, doc := range group {
			docs = append(docs, doc.ContentString())
		}
		out.Documents = append(out.Documents, docs)
	}

	return out, nil
}

// metadataToMap flattens a Chroma metadata object back into a plain map
func metadataToMap(meta chroma.DocumentMetadata) map[string]interface{} {
	out := map[string]interface{}{}
	if meta == nil {
		return out
	}
	km, ok := meta.(interface{ Keys() []string })
	if !ok {
		return out
	}
	for _, key := range km.Keys() {
		if value, ok := meta.GetRaw(key); ok {
			out[key] = value
		}
	}
	return out
}

// CollectionInfo returns name and record count for the collection, or nil when
// the collection does not exist or the service is unreachable. Never returns the
// underlying error to the caller; absence of data is represented as nil.
func (c *Client) CollectionInfo(ctx context.Context) (*CollectionInfo, error) {
	collection, err := c.client.GetCollection(ctx, c.collectionName)
	if err != nil {
		return nil, nil
	}

	count, err := collection.Count(ctx)
	if err != nil {
		log.Printf("[Chroma] failed to count collection %s: %v", c.collectionName, err)
		return nil, nil
	}

	return &CollectionInfo{
		Name:  c.collectionName,
		Count: count,
	}, nil
}

// DeleteCollection removes the collection and drops the cached handle
func (c *Client) DeleteCollection(ctx context.Context) error {
	if err := c.client.DeleteCollection(ctx, c.collectionName); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", c.collectionName, err)
	}

	c.mu.Lock()
	c.collection = nil
	c.mu.Unlock()

	return nil
}

// Heartbeat probes the Chroma service
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.client.Heartbeat(ctx)
}
