package delivery

import (
	"net/http"
	"strconv"

	"github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"
	"github.com/gagangborneo/chatzwa-sub002/internal/sync/usecase"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes the synchronization pipeline over HTTP
type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
	}
}

// SyncRequest represents the request body for starting a sync run
type SyncRequest struct {
	DataSource string            `json:"data_source" binding:"required"`
	SyncType   string            `json:"sync_type,omitempty"`
	Documents  []domain.Document `json:"documents,omitempty"`
}

// SearchRequest represents the request body for semantic search
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k,omitempty"`
}

// Synchronize runs one sync pass and returns its aggregated result
// POST /api/sync
func (h *SyncHandler) Synchronize(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.syncUsecase.SynchronizeData(c.Request.Context(), req.DataSource, req.SyncType, req.Documents)
	c.JSON(http.StatusOK, result)
}

// Health reports availability of Ollama, Chroma and the collection
// GET /api/sync/health
func (h *SyncHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.syncUsecase.CheckHealth(c.Request.Context()))
}

// History lists past sync runs, newest first
// GET /api/sync/history?limit=N
func (h *SyncHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		limit = parsed
	}

	records, err := h.syncUsecase.GetSyncHistory(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sync history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

// HistoryByID returns one sync run record
// GET /api/sync/history/:id
func (h *SyncHandler) HistoryByID(c *gin.Context) {
	record, err := h.syncUsecase.GetSyncByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load sync record"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sync record not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// DeleteHistory removes one sync run record
// DELETE /api/sync/history/:id
func (h *SyncHandler) DeleteHistory(c *gin.Context) {
	if err := h.syncUsecase.DeleteSyncRecord(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete sync record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sync record deleted"})
}

// Search embeds the query and returns nearest stored documents
// POST /api/search
func (h *SyncHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.syncUsecase.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Collection reports collection stats
// GET /api/collection
func (h *SyncHandler) Collection(c *gin.Context) {
	info, err := h.syncUsecase.CollectionInfo(c.Request.Context())
	if err != nil || info == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "collection not available"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// DeleteCollection drops the knowledge-base collection
// DELETE /api/collection
func (h *SyncHandler) DeleteCollection(c *gin.Context) {
	if err := h.syncUsecase.DeleteCollection(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "collection deleted"})
}
