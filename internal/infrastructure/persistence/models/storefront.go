package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the storefront catalog entry the sync writes into.
type Product struct {
	BaseModel
	SKU           string           `gorm:"size:64;uniqueIndex;not null"`
	Name          string           `gorm:"size:255;not null"`
	RegularPrice  *decimal.Decimal `gorm:"type:numeric(15,4)"`
	Weight        *decimal.Decimal `gorm:"type:numeric(12,4)"`
	StockQuantity int              `gorm:"not null;default:0"`
	InStock       bool             `gorm:"not null;default:false"`

	Categories []Category         `gorm:"many2many:product_categories"`
	Attributes []ProductAttribute `gorm:"constraint:OnDelete:CASCADE"`
	Meta       []ProductMeta      `gorm:"constraint:OnDelete:CASCADE"`
}

// ProductAttribute is one display attribute row, ordered by Position.
type ProductAttribute struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"size:128;not null"`
	Value     string    `gorm:"size:255;not null"`
	Position  int       `gorm:"not null;default:0"`
	Visible   bool      `gorm:"not null;default:true"`
}

// ProductMeta is a metadata key/value pair on a product.
type ProductMeta struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	MetaKey   string    `gorm:"size:128;primaryKey"`
	MetaValue string    `gorm:"type:text;not null"`
}

// Category is a node in the storefront category tree.
type Category struct {
	BaseModel
	Name     string     `gorm:"size:255;uniqueIndex;not null"`
	Slug     string     `gorm:"size:255;uniqueIndex;not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// Customer is a storefront account. AccountNo is the small numeric
// identifier external keys are derived from.
type Customer struct {
	BaseModel
	AccountNo int64  `gorm:"uniqueIndex;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	FirstName string `gorm:"size:128"`
	LastName  string `gorm:"size:128"`
	Company   string `gorm:"size:255"`
	Phone     string `gorm:"size:64"`
	TaxID     string `gorm:"size:64;index"`

	BillingStreet   string `gorm:"size:255"`
	BillingStreet2  string `gorm:"size:255"`
	BillingCity     string `gorm:"size:128"`
	BillingZip      string `gorm:"size:32"`
	BillingCountry  string `gorm:"size:2"`
	ShippingStreet  string `gorm:"size:255"`
	ShippingStreet2 string `gorm:"size:255"`
	ShippingCity    string `gorm:"size:128"`
	ShippingZip     string `gorm:"size:32"`
	ShippingCountry string `gorm:"size:2"`

	Meta []CustomerMeta `gorm:"constraint:OnDelete:CASCADE"`
}

// CustomerMeta is a metadata key/value pair on a customer.
type CustomerMeta struct {
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey"`
	MetaKey    string    `gorm:"size:128;primaryKey"`
	MetaValue  string    `gorm:"type:text;not null"`
}

// Order is a storefront order header.
type Order struct {
	BaseModel
	Number     string     `gorm:"size:32;uniqueIndex;not null"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	PlacedAt   time.Time  `gorm:"not null"`

	BillingFirstName string `gorm:"size:128"`
	BillingLastName  string `gorm:"size:128"`
	BillingCompany   string `gorm:"size:255"`
	BillingEmail     string `gorm:"size:255;index"`
	BillingPhone     string `gorm:"size:64"`
	BillingStreet    string `gorm:"size:255"`
	BillingStreet2   string `gorm:"size:255"`
	BillingCity      string `gorm:"size:128"`
	BillingZip       string `gorm:"size:32"`
	BillingCountry   string `gorm:"size:2"`

	ShippingFirstName string `gorm:"size:128"`
	ShippingLastName  string `gorm:"size:128"`
	ShippingStreet    string `gorm:"size:255"`
	ShippingStreet2   string `gorm:"size:255"`
	ShippingCity      string `gorm:"size:128"`
	ShippingZip       string `gorm:"size:32"`
	ShippingCountry   string `gorm:"size:2"`

	PaymentMethod  string          `gorm:"size:64"`
	ShippingMethod string          `gorm:"size:64"`
	ShippingTotal  decimal.Decimal `gorm:"type:numeric(15,4);not null;default:0"`
	TransactionID  string          `gorm:"size:128"`
	CustomerNote   string          `gorm:"type:text"`

	Lines []OrderLine `gorm:"constraint:OnDelete:CASCADE"`
	Meta  []OrderMeta `gorm:"constraint:OnDelete:CASCADE"`
	Notes []OrderNote `gorm:"constraint:OnDelete:CASCADE"`
}

// OrderLine is one order line. Subtotal and Total are tax exclusive.
type OrderLine struct {
	BaseModel
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU      string          `gorm:"size:64;not null"`
	Name     string          `gorm:"size:255;not null"`
	Quantity decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	Subtotal decimal.Decimal `gorm:"type:numeric(15,4);not null"`
	Total    decimal.Decimal `gorm:"type:numeric(15,4);not null"`
	TaxClass string          `gorm:"size:64"`
}

// OrderMeta is a metadata key/value pair on an order.
type OrderMeta struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	MetaKey   string    `gorm:"size:128;primaryKey"`
	MetaValue string    `gorm:"type:text;not null"`
}

// OrderNote is an operator-visible note on an order.
type OrderNote struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	Note    string    `gorm:"type:text;not null"`
}

// Option is one key/value configuration row.
type Option struct {
	OptionKey   string    `gorm:"size:128;primaryKey"`
	OptionValue string    `gorm:"type:text;not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// SyncLog is one persisted sync log entry. Context is serialized JSON.
type SyncLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	LogType   string    `gorm:"size:16;not null;index"`
	Message   string    `gorm:"type:text;not null"`
	Context   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// BeforeCreate assigns an id when the caller did not.
func (l *SyncLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// AutoMigrate creates or updates the sync schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Product{},
		&ProductAttribute{},
		&ProductMeta{},
		&Category{},
		&Customer{},
		&CustomerMeta{},
		&Order{},
		&OrderLine{},
		&OrderMeta{},
		&OrderNote{},
		&Option{},
		&SyncLog{},
	)
}
