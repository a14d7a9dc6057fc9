package persistence

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/persistence/models"
)

// defaultLogPageSize bounds Query results when the filter names no limit.
const defaultLogPageSize = 100

// GormSyncLogStore implements storefront.SyncLogStore using GORM.
type GormSyncLogStore struct {
	db *gorm.DB
}

// NewGormSyncLogStore creates a new GormSyncLogStore.
func NewGormSyncLogStore(db *gorm.DB) *GormSyncLogStore {
	return &GormSyncLogStore{db: db}
}

// Append persists one log entry. The context map is serialized to JSON.
func (s *GormSyncLogStore) Append(ctx context.Context, typ storefront.LogType, message string, logCtx map[string]any) error {
	row := models.SyncLog{
		LogType: string(typ),
		Message: message,
	}
	if len(logCtx) > 0 {
		raw, err := json.Marshal(logCtx)
		if err != nil {
			return err
		}
		row.Context = string(raw)
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// Query returns entries matching the filter, newest first.
func (s *GormSyncLogStore) Query(ctx context.Context, filter storefront.LogFilter) ([]storefront.LogEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLogPageSize
	}

	var rows []models.SyncLog
	query := s.applyFilter(ctx, filter).
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]storefront.LogEntry, len(rows))
	for i, row := range rows {
		entry := storefront.LogEntry{
			ID:        row.ID,
			Type:      storefront.LogType(row.LogType),
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		}
		if row.Context != "" {
			// A malformed context is dropped rather than failing the page.
			_ = json.Unmarshal([]byte(row.Context), &entry.Context)
		}
		entries[i] = entry
	}
	return entries, nil
}

// Count returns the number of entries matching the filter.
func (s *GormSyncLogStore) Count(ctx context.Context, filter storefront.LogFilter) (int64, error) {
	var count int64
	if err := s.applyFilter(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Clear deletes entries matching the filter. Limit and Offset do not apply;
// an empty filter wipes the whole log.
func (s *GormSyncLogStore) Clear(ctx context.Context, filter storefront.LogFilter) error {
	return s.applyFilter(ctx, filter).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.SyncLog{}).Error
}

func (s *GormSyncLogStore) applyFilter(ctx context.Context, filter storefront.LogFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.SyncLog{})
	if filter.Type != "" {
		query = query.Where("log_type = ?", filter.Type)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		query = query.Where("message LIKE ?", "%"+filter.Search+"%")
	}
	return query
}

var _ storefront.SyncLogStore = (*GormSyncLogStore)(nil)
