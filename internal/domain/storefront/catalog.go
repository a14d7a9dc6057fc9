package storefront

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductFields is the set of product fields a sync run may write. Pointer
// fields are left untouched when nil, so a partial update never clears data
// the ERP did not provide.
type ProductFields struct {
	SKU          string
	Name         string
	RegularPrice *decimal.Decimal
	Weight       *decimal.Decimal
}

// ProductAttribute is a display attribute attached to a product in a stable
// declared order.
type ProductAttribute struct {
	Name     string
	Value    string
	Position int
	Visible  bool
}

// CatalogStore is the storefront's product persistence as consumed by the
// synchronization. Implementations live in infrastructure/persistence.
type CatalogStore interface {
	// FindBySKU returns the product id for a SKU, or ErrNotFound.
	FindBySKU(ctx context.Context, sku string) (uuid.UUID, error)

	// Upsert creates the product when id is uuid.Nil, else updates it.
	// Returns the (possibly new) product id.
	Upsert(ctx context.Context, id uuid.UUID, fields ProductFields) (uuid.UUID, error)

	// SetStockLevel writes the managed stock quantity and in-stock status.
	SetStockLevel(ctx context.Context, id uuid.UUID, qty int, inStock bool) error

	// SetCategories replaces the product's category assignments.
	SetCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error

	// SetAttributes replaces the product's display attributes.
	SetAttributes(ctx context.Context, id uuid.UUID, attrs []ProductAttribute) error

	// SetMetadata upserts one metadata key on the product.
	SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error
}

// CategoryStore is the storefront's category tree persistence.
type CategoryStore interface {
	// FindBySlug returns the category id for a slug, or ErrNotFound.
	FindBySlug(ctx context.Context, slug string) (uuid.UUID, error)

	// FindByName returns the category id for an exact name, or ErrNotFound.
	FindByName(ctx context.Context, name string) (uuid.UUID, error)

	// Create creates a category under parentID (uuid.Nil for a root
	// category). Returns ErrConflict when the slug or name already exists.
	Create(ctx context.Context, name, slug string, parentID uuid.UUID) (uuid.UUID, error)
}
