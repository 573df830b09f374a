package usecase

import (
	"context"
	"time"

	"github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"
)

const healthCheckTimeout = 5 * time.Second

// CheckHealth pings both external services with a bounded timeout. A timeout,
// network error or non-2xx response all collapse to unhealthy; no distinction is
// made between down and slow. CollectionExists piggybacks on CollectionInfo,
// which swallows its own errors and reports absence as nil.
func (s *Synchronizer) CheckHealth(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{}

	ollamaCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	status.Ollama = s.embedder.Ping(ollamaCtx) == nil
	cancel()

	chromaCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	status.Chroma = s.store.Heartbeat(chromaCtx) == nil
	cancel()

	if status.Chroma {
		infoCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
		info, err := s.store.CollectionInfo(infoCtx)
		cancel()
		status.CollectionExists = err == nil && info != nil
	}

	return status
}
