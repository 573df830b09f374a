package repository

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gagangborneo/chatzwa-sub002/internal/sync/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxCachedRecords caps the in-process read cache; the 101st write evicts the
// oldest cached entry. The database keeps the full history.
const maxCachedRecords = 100

// syncHistoryRepository implements SyncHistoryRepository on GORM. The database
// is authoritative; the cache only serves reads when the database is down.
type syncHistoryRepository struct {
	db *gorm.DB

	mu    sync.Mutex
	cache []domain.SyncHistory // newest first
}

// NewSyncHistoryRepository creates a new instance of syncHistoryRepository
func NewSyncHistoryRepository(db *gorm.DB) SyncHistoryRepository {
	return &syncHistoryRepository{
		db: db,
	}
}

// Add persists one record for a finished run
func (r *syncHistoryRepository) Add(record *domain.SyncHistory) error {
	if record.ID == "" {
		record.ID = fmt.Sprintf("sync_%d_%s", time.Now().UnixMilli(), randomSuffix(9))
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to persist sync record: %w", err)
	}

	r.mu.Lock()
	r.cache = append([]domain.SyncHistory{*record}, r.cache...)
	if len(r.cache) > maxCachedRecords {
		r.cache = r.cache[:maxCachedRecords]
	}
	r.mu.Unlock()

	return nil
}

// List returns up to limit records, newest first. Reads go to the database and
// refresh the cache; on a database error the cache answers instead.
func (r *syncHistoryRepository) List(limit int) ([]domain.SyncHistory, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []domain.SyncHistory
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&records).Error
	if err != nil {
		log.Printf("[SyncHistory] database read failed, serving cache: %v", err)
		return r.cachedRecords(limit), nil
	}

	r.refreshCache(records)
	return records, nil
}

// GetByID returns a single record, or nil when not found
func (r *syncHistoryRepository) GetByID(id string) (*domain.SyncHistory, error) {
	var record domain.SyncHistory
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Delete removes a record from the database and the cache
func (r *syncHistoryRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&domain.SyncHistory{}).Error; err != nil {
		return fmt.Errorf("failed to delete sync record: %w", err)
	}

	r.mu.Lock()
	for i, record := range r.cache {
		if record.ID == id {
			r.cache = append(r.cache[:i], r.cache[i+1:]...)
			break
		}
	}
	r.mu.Unlock()

	return nil
}

func (r *syncHistoryRepository) cachedRecords(limit int) []domain.SyncHistory {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit > len(r.cache) {
		limit = len(r.cache)
	}
	out := make([]domain.SyncHistory, limit)
	copy(out, r.cache[:limit])
	return out
}

func (r *syncHistoryRepository) refreshCache(records []domain.SyncHistory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(records)
	if n > maxCachedRecords {
		n = maxCachedRecords
	}
	r.cache = make([]domain.SyncHistory, n)
	copy(r.cache, records[:n])
}

// randomSuffix returns n hex-ish characters for id synthesis
func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
