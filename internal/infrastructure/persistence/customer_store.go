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

// GormCustomerStore implements storefront.CustomerStore using GORM.
type GormCustomerStore struct {
	db *gorm.DB
}

// NewGormCustomerStore creates a new GormCustomerStore.
func NewGormCustomerStore(db *gorm.DB) *GormCustomerStore {
	return &GormCustomerStore{db: db}
}

// Get returns a customer snapshot.
func (s *GormCustomerStore) Get(ctx context.Context, id uuid.UUID) (*storefront.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storefront.ErrNotFound
		}
		return nil, err
	}

	return &storefront.Customer{
		ID:              customer.ID,
		AccountNo:       customer.AccountNo,
		Email:           customer.Email,
		FirstName:       customer.FirstName,
		LastName:        customer.LastName,
		Company:         customer.Company,
		Phone:           customer.Phone,
		TaxID:           customer.TaxID,
		BillingStreet:   customer.BillingStreet,
		BillingStreet2:  customer.BillingStreet2,
		BillingCity:     customer.BillingCity,
		BillingZip:      customer.BillingZip,
		BillingCountry:  customer.BillingCountry,
		ShippingStreet:  customer.ShippingStreet,
		ShippingStreet2: customer.ShippingStreet2,
		ShippingCity:    customer.ShippingCity,
		ShippingZip:     customer.ShippingZip,
		ShippingCountry: customer.ShippingCountry,
	}, nil
}

// FindByEmail finds the customer id for an email.
func (s *GormCustomerStore) FindByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).Select("id").First(&customer, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, storefront.ErrNotFound
		}
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// Create creates a minimal account for the email, assigning the next
// account number.
func (s *GormCustomerStore) Create(ctx context.Context, email string) (uuid.UUID, error) {
	customer := models.Customer{Email: email}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxNo int64
		if err := tx.Model(&models.Customer{}).
			Select("COALESCE(MAX(account_no), 0)").
			Scan(&maxNo).Error; err != nil {
			return err
		}
		customer.AccountNo = maxNo + 1
		return tx.Create(&customer).Error
	})
	if err != nil {
		return uuid.Nil, err
	}
	return customer.ID, nil
}

// Update writes the profile fields of an existing customer. Email and
// account number are immutable here.
func (s *GormCustomerStore) Update(ctx context.Context, customer *storefront.Customer) error {
	result := s.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]any{
			"first_name":       customer.FirstName,
			"last_name":        customer.LastName,
			"company":          customer.Company,
			"phone":            customer.Phone,
			"tax_id":           customer.TaxID,
			"billing_street":   customer.BillingStreet,
			"billing_street2":  customer.BillingStreet2,
			"billing_city":     customer.BillingCity,
			"billing_zip":      customer.BillingZip,
			"billing_country":  customer.BillingCountry,
			"shipping_street":  customer.ShippingStreet,
			"shipping_street2": customer.ShippingStreet2,
			"shipping_city":    customer.ShippingCity,
			"shipping_zip":     customer.ShippingZip,
			"shipping_country": customer.ShippingCountry,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return storefront.ErrNotFound
	}
	return nil
}

// SetMetadata upserts one metadata key on the customer.
func (s *GormCustomerStore) SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value"}),
	}).Create(&models.CustomerMeta{
		CustomerID: id,
		MetaKey:    key,
		MetaValue:  value,
	}).Error
}

// Metadata reads one metadata key; returns "" when unset.
func (s *GormCustomerStore) Metadata(ctx context.Context, id uuid.UUID, key string) (string, error) {
	var meta models.CustomerMeta
	err := s.db.WithContext(ctx).
		First(&meta, "customer_id = ? AND meta_key = ?", id, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return meta.MetaValue, nil
}

var _ storefront.CustomerStore = (*GormCustomerStore)(nil)
