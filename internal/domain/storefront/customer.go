package storefront

import (
	"context"

	"github.com/google/uuid"
)

// Customer is a storefront account snapshot as consumed by the
// synchronization. Address fields mirror the checkout profile; either block
// may be incomplete, in which case the export falls back to the triggering
// order's addresses.
type Customer struct {
	ID        uuid.UUID
	AccountNo int64
	Email     string
	FirstName string
	LastName  string
	Company   string
	Phone     string
	TaxID     string

	BillingStreet   string
	BillingStreet2  string
	BillingCity     string
	BillingZip      string
	BillingCountry  string
	ShippingStreet  string
	ShippingStreet2 string
	ShippingCity    string
	ShippingZip     string
	ShippingCountry string
}

// CustomerStore is the storefront's account persistence.
type CustomerStore interface {
	// Get returns a customer snapshot, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByEmail returns the customer id for an email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (uuid.UUID, error)

	// Create creates a minimal account for the email and returns its id.
	Create(ctx context.Context, email string) (uuid.UUID, error)

	// Update writes the profile fields of an existing customer.
	Update(ctx context.Context, customer *Customer) error

	// SetMetadata upserts one metadata key on the customer.
	SetMetadata(ctx context.Context, id uuid.UUID, key, value string) error

	// Metadata reads one metadata key; returns "" when unset.
	Metadata(ctx context.Context, id uuid.UUID, key string) (string, error)
}
