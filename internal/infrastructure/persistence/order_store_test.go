package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/persistence/models"
)

func TestGormOrderStore(t *testing.T) {
	ctx := context.Background()

	t.Run("get returns header and lines", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormOrderStore(db)

		order := models.Order{
			Number:           "1042",
			PlacedAt:         time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC),
			BillingFirstName: "Anna",
			BillingLastName:  "Kovács",
			BillingEmail:     "anna@example.com",
			PaymentMethod:    "bacs",
			ShippingMethod:   "flat_rate",
			ShippingTotal:    decimal.RequireFromString("1490"),
			Lines: []models.OrderLine{
				{
					SKU:      "DOB-001",
					Name:     "Kartondoboz",
					Quantity: decimal.NewFromInt(10),
					Subtotal: decimal.RequireFromString("12500"),
					Total:    decimal.RequireFromString("12500"),
				},
			},
		}
		require.NoError(t, db.Create(&order).Error)

		got, err := store.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "1042", got.Number)
		assert.Nil(t, got.CustomerID)
		require.Len(t, got.Lines, 1)
		assert.Equal(t, "DOB-001", got.Lines[0].SKU)
		assert.True(t, got.Lines[0].Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("get missing order", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormOrderStore(db)

		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, storefront.ErrNotFound)
	})

	t.Run("metadata round trip", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormOrderStore(db)

		order := models.Order{Number: "1043", PlacedAt: time.Now()}
		require.NoError(t, db.Create(&order).Error)

		value, err := store.Metadata(ctx, order.ID, storefront.MetaDocEntry)
		require.NoError(t, err)
		assert.Empty(t, value, "unset key reads as empty")

		require.NoError(t, store.SetMetadata(ctx, order.ID, storefront.MetaDocEntry, "7731"))
		require.NoError(t, store.SetMetadata(ctx, order.ID, storefront.MetaDocEntry, "7732"))

		value, err = store.Metadata(ctx, order.ID, storefront.MetaDocEntry)
		require.NoError(t, err)
		assert.Equal(t, "7732", value)
	})

	t.Run("append note", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormOrderStore(db)

		order := models.Order{Number: "1044", PlacedAt: time.Now()}
		require.NoError(t, db.Create(&order).Error)

		require.NoError(t, store.AppendNote(ctx, order.ID, "SAP rendelés létrehozva: 7731"))
		require.NoError(t, store.AppendNote(ctx, order.ID, "SAP rendelés frissítve"))

		var notes []models.OrderNote
		require.NoError(t, db.Where("order_id = ?", order.ID).Order("created_at").Find(&notes).Error)
		require.Len(t, notes, 2)
		assert.Contains(t, notes[0].Note, "7731")
	})
}
