package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/persistence/models"
)

// GormOptionStore implements storefront.OptionStore using GORM.
type GormOptionStore struct {
	db *gorm.DB
}

// NewGormOptionStore creates a new GormOptionStore.
func NewGormOptionStore(db *gorm.DB) *GormOptionStore {
	return &GormOptionStore{db: db}
}

// GetOption returns the stored value, or def when the key is unset or the
// read fails.
func (s *GormOptionStore) GetOption(ctx context.Context, key, def string) string {
	var option models.Option
	err := s.db.WithContext(ctx).First(&option, "option_key = ?", key).Error
	if err != nil {
		return def
	}
	return option.OptionValue
}

// SetOption upserts a value.
func (s *GormOptionStore) SetOption(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "option_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_value", "updated_at"}),
	}).Create(&models.Option{
		OptionKey:   key,
		OptionValue: value,
	}).Error
}

// Exists reports whether the key is set at all.
func (s *GormOptionStore) Exists(ctx context.Context, key string) (bool, error) {
	var option models.Option
	err := s.db.WithContext(ctx).Select("option_key").First(&option, "option_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ storefront.OptionStore = (*GormOptionStore)(nil)
