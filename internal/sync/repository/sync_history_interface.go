package repository

import "github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"

// SyncHistoryRepository defines the interface for sync history operations
type SyncHistoryRepository interface {
	// Add persists one record for a finished run; id and timestamp are
	// synthesized here when unset
	Add(record *domain.SyncHistory) error
	// List returns up to limit records, newest first
	List(limit int) ([]domain.SyncHistory, error)
	// GetByID returns a single record, or nil when not found
	GetByID(id string) (*domain.SyncHistory, error)
	// Delete removes a record by id
	Delete(id string) error
}
