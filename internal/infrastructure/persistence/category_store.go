package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/persistence/models"
)

// GormCategoryStore implements storefront.CategoryStore using GORM.
type GormCategoryStore struct {
	db *gorm.DB
}

// NewGormCategoryStore creates a new GormCategoryStore.
func NewGormCategoryStore(db *gorm.DB) *GormCategoryStore {
	return &GormCategoryStore{db: db}
}

// FindBySlug finds the category id for a slug.
func (s *GormCategoryStore) FindBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	return s.findID(ctx, "slug = ?", slug)
}

// FindByName finds the category id for an exact name.
func (s *GormCategoryStore) FindByName(ctx context.Context, name string) (uuid.UUID, error) {
	return s.findID(ctx, "name = ?", name)
}

func (s *GormCategoryStore) findID(ctx context.Context, cond, value string) (uuid.UUID, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Select("id").First(&category, cond, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, storefront.ErrNotFound
		}
		return uuid.Nil, err
	}
	return category.ID, nil
}

// Create creates a category under parentID (uuid.Nil for a root category).
// A duplicate slug or name reports ErrConflict, so a racing creator can
// re-resolve instead of failing the run.
func (s *GormCategoryStore) Create(ctx context.Context, name, slug string, parentID uuid.UUID) (uuid.UUID, error) {
	category := models.Category{
		Name: name,
		Slug: slug,
	}
	if parentID != uuid.Nil {
		category.ParentID = &parentID
	}

	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		var exists int64
		s.db.WithContext(ctx).Model(&models.Category{}).
			Where("slug = ? OR name = ?", slug, name).
			Count(&exists)
		if exists > 0 {
			return uuid.Nil, storefront.ErrConflict
		}
		return uuid.Nil, err
	}
	return category.ID, nil
}

var _ storefront.CategoryStore = (*GormCategoryStore)(nil)
