package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapbridge/backend/internal/domain/storefront"
)

func TestGormSyncLogStore(t *testing.T) {
	ctx := context.Background()

	t.Run("append and query with context", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormSyncLogStore(db)

		require.NoError(t, store.Append(ctx, storefront.LogTypeOrder, "order pushed", map[string]any{
			"order_id":  "1042",
			"doc_entry": float64(7731),
		}))
		require.NoError(t, store.Append(ctx, storefront.LogTypeError, "item lookup failed", nil))

		entries, err := store.Query(ctx, storefront.LogFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 2)

		orders, err := store.Query(ctx, storefront.LogFilter{Type: storefront.LogTypeOrder})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "order pushed", orders[0].Message)
		assert.Equal(t, "1042", orders[0].Context["order_id"])
		assert.Equal(t, float64(7731), orders[0].Context["doc_entry"])
	})

	t.Run("search filters the message", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormSyncLogStore(db)

		require.NoError(t, store.Append(ctx, storefront.LogTypeProduct, "item DOB-001 updated", nil))
		require.NoError(t, store.Append(ctx, storefront.LogTypeProduct, "item DOB-002 skipped", nil))

		entries, err := store.Query(ctx, storefront.LogFilter{Search: "DOB-002"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "DOB-002")
	})

	t.Run("count and clear by type", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormSyncLogStore(db)

		require.NoError(t, store.Append(ctx, storefront.LogTypeDebug, "a", nil))
		require.NoError(t, store.Append(ctx, storefront.LogTypeDebug, "b", nil))
		require.NoError(t, store.Append(ctx, storefront.LogTypeError, "c", nil))

		count, err := store.Count(ctx, storefront.LogFilter{Type: storefront.LogTypeDebug})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		require.NoError(t, store.Clear(ctx, storefront.LogFilter{Type: storefront.LogTypeDebug}))

		count, err = store.Count(ctx, storefront.LogFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("clear everything", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormSyncLogStore(db)

		require.NoError(t, store.Append(ctx, storefront.LogTypeInfo, "a", nil))
		require.NoError(t, store.Clear(ctx, storefront.LogFilter{}))

		count, err := store.Count(ctx, storefront.LogFilter{})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
