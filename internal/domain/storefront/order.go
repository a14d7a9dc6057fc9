package storefront

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a storefront order snapshot.
type Order struct {
	ID         uuid.UUID
	Number     string
	CreatedAt  time.Time
	CustomerID *uuid.UUID // nil for guest checkouts

	BillingFirstName string
	BillingLastName  string
	BillingCompany   string
	BillingEmail     string
	BillingPhone     string
	BillingStreet    string
	BillingStreet2   string
	BillingCity      string
	BillingZip       string
	BillingCountry   string

	ShippingFirstName string
	ShippingLastName  string
	ShippingStreet    string
	ShippingStreet2   string
	ShippingCity      string
	ShippingZip       string
	ShippingCountry   string

	PaymentMethod  string
	ShippingMethod string
	ShippingTotal  decimal.Decimal
	TransactionID  string
	CustomerNote   string

	Lines []OrderLine
}

// OrderLine is one line of a storefront order. Subtotal and Total are
// tax-exclusive; the difference between them is the line discount.
type OrderLine struct {
	SKU      string
	Name     string
	Quantity decimal.Decimal
	Subtotal decimal.Decimal
	Total    decimal.Decimal
	TaxClass string
}

// UnitPrice is the tax- and discount-exclusive per-unit price.
func (l OrderLine) UnitPrice() decimal.Decimal {
	if l.Quantity.IsZero() {
		return decimal.Zero
	}
	return l.Subtotal.Div(l.Quantity)
}

// OrderStore is the storefront's order persistence.
type OrderStore interface {
	// Get returns an order snapshot, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Order, error)

	// SetMetadata upserts one metadata key on the order.
	SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error

	// Metadata reads one metadata key; returns "" when unset.
	Metadata(ctx context.Context, id uuid.UUID, key string) (string, error)

	// AppendNote appends an operator-visible note to the order.
	AppendNote(ctx context.Context, id uuid.UUID, note string) error
}
