package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/persistence/models"
)

// GormCatalogStore implements storefront.CatalogStore using GORM.
type GormCatalogStore struct {
	db *gorm.DB
}

// NewGormCatalogStore creates a new GormCatalogStore.
func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

// FindBySKU finds the product id for a SKU.
func (s *GormCatalogStore) FindBySKU(ctx context.Context, sku string) (uuid.UUID, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Select("id").First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, storefront.ErrNotFound
		}
		return uuid.Nil, err
	}
	return product.ID, nil
}

// Upsert creates the product when id is uuid.Nil, else applies the given
// fields. Nil pointer fields are left untouched.
func (s *GormCatalogStore) Upsert(ctx context.Context, id uuid.UUID, fields storefront.ProductFields) (uuid.UUID, error) {
	if id == uuid.Nil {
		product := models.Product{
			SKU:          fields.SKU,
			Name:         fields.Name,
			RegularPrice: fields.RegularPrice,
			Weight:       fields.Weight,
		}
		if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
			return uuid.Nil, err
		}
		return product.ID, nil
	}

	updates := map[string]any{
		"sku":  fields.SKU,
		"name": fields.Name,
	}
	if fields.RegularPrice != nil {
		updates["regular_price"] = *fields.RegularPrice
	}
	if fields.Weight != nil {
		updates["weight"] = *fields.Weight
	}

	result := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return uuid.Nil, result.Error
	}
	if result.RowsAffected == 0 {
		return uuid.Nil, storefront.ErrNotFound
	}
	return id, nil
}

// SetStockLevel writes the managed stock quantity and in-stock status.
func (s *GormCatalogStore) SetStockLevel(ctx context.Context, id uuid.UUID, qty int, inStock bool) error {
	result := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
		"stock_quantity": qty,
		"in_stock":       inStock,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storefront.ErrNotFound
	}
	return nil
}

// SetCategories replaces the product's category assignments.
func (s *GormCatalogStore) SetCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	categories := make([]models.Category, len(categoryIDs))
	for i, cid := range categoryIDs {
		categories[i] = models.Category{BaseModel: models.BaseModel{ID: cid}}
	}
	product := models.Product{BaseModel: models.BaseModel{ID: id}}
	return s.db.WithContext(ctx).Model(&product).Association("Categories").Replace(categories)
}

// SetAttributes replaces the product's display attributes.
func (s *GormCatalogStore) SetAttributes(ctx context.Context, id uuid.UUID, attrs []storefront.ProductAttribute) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductAttribute{}).Error; err != nil {
			return err
		}
		if len(attrs) == 0 {
			return nil
		}
		rows := make([]models.ProductAttribute, len(attrs))
		for i, attr := range attrs {
			rows[i] = models.ProductAttribute{
				ProductID: id,
				Name:      attr.Name,
				Value:     attr.Value,
				Position:  attr.Position,
				Visible:   attr.Visible,
			}
		}
		return tx.Create(&rows).Error
	})
}

// SetMetadata upserts one metadata key on the product.
func (s *GormCatalogStore) SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&models.ProductMeta{
		ProductID: id,
		MetaKey:   key,
		MetaValue: value,
	}).Error
}

var _ storefront.CatalogStore = (*GormCatalogStore)(nil)
