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

// GormOrderStore implements storefront.OrderStore using GORM.
type GormOrderStore struct {
	db *gorm.DB
}

// NewGormOrderStore creates a new GormOrderStore.
func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// Get returns an order snapshot including its lines.
func (s *GormOrderStore) Get(ctx context.Context, id uuid.UUID) (*storefront.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Lines").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storefront.ErrNotFound
		}
		return nil, err
	}

	lines := make([]storefront.OrderLine, len(order.Lines))
	for i, line := range order.Lines {
		lines[i] = storefront.OrderLine{
			SKU:      line.SKU,
			Name:     line.Name,
			Quantity: line.Quantity,
			Subtotal: line.Subtotal,
			Total:    line.Total,
			TaxClass: line.TaxClass,
		}
	}

	return &storefront.Order{
		ID:                order.ID,
		Number:            order.Number,
		CreatedAt:         order.PlacedAt,
		CustomerID:        order.CustomerID,
		BillingFirstName:  order.BillingFirstName,
		BillingLastName:   order.BillingLastName,
		BillingCompany:    order.BillingCompany,
		BillingEmail:      order.BillingEmail,
		BillingPhone:      order.BillingPhone,
		BillingStreet:     order.BillingStreet,
		BillingStreet2:    order.BillingStreet2,
		BillingCity:       order.BillingCity,
		BillingZip:        order.BillingZip,
		BillingCountry:    order.BillingCountry,
		ShippingFirstName: order.ShippingFirstName,
		ShippingLastName:  order.ShippingLastName,
		ShippingStreet:    order.ShippingStreet,
		ShippingStreet2:   order.ShippingStreet2,
		ShippingCity:      order.ShippingCity,
		ShippingZip:       order.ShippingZip,
		ShippingCountry:   order.ShippingCountry,
		PaymentMethod:     order.PaymentMethod,
		ShippingMethod:    order.ShippingMethod,
		ShippingTotal:     order.ShippingTotal,
		TransactionID:     order.TransactionID,
		CustomerNote:      order.CustomerNote,
		Lines:             lines,
	}, nil
}

// SetMetadata upserts one metadata key on the order.
func (s *GormOrderStore) SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&models.OrderMeta{
		OrderID:   id,
		MetaKey:   key,
		MetaValue: value,
	}).Error
}

// Metadata reads one metadata key; returns "" when unset.
func (s *GormOrderStore) Metadata(ctx context.Context, id uuid.UUID, key string) (string, error) {
	var meta models.OrderMeta
	err := s.db.WithContext(ctx).
		First(&meta, "order_id = ? AND meta_key = ?", id, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.MetaValue, nil
}

// AppendNote appends an operator-visible note to the order.
func (s *GormOrderStore) AppendNote(ctx context.Context, id uuid.UUID, note string) error {
	return s.db.WithContext(ctx).Create(&models.OrderNote{
		OrderID: id,
		Note:    note,
	}).Error
}

var _ storefront.OrderStore = (*GormOrderStore)(nil)
