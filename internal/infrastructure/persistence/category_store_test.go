package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/infrastructure/persistence/models"
)

func TestGormCategoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormCategoryStore(db)

		rootID, err := store.Create(ctx, "Csomagolóanyagok", "sap-100", uuid.Nil)
		require.NoError(t, err)

		childID, err := store.Create(ctx, "Dobozok", "sap-110", rootID)
		require.NoError(t, err)

		found, err := store.FindBySlug(ctx, "sap-110")
		require.NoError(t, err)
		assert.Equal(t, childID, found)

		found, err = store.FindByName(ctx, "Csomagolóanyagok")
		require.NoError(t, err)
		assert.Equal(t, rootID, found)

		var child models.Category
		require.NoError(t, db.First(&child, "id = ?", childID).Error)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, rootID, *child.ParentID)
	})

	t.Run("missing slug and name", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormCategoryStore(db)

		_, err := store.FindBySlug(ctx, "sap-999")
		assert.ErrorIs(t, err, storefront.ErrNotFound)

		_, err = store.FindByName(ctx, "Nincs ilyen")
		assert.ErrorIs(t, err, storefront.ErrNotFound)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormCategoryStore(db)

		_, err := store.Create(ctx, "Dobozok", "sap-110", uuid.Nil)
		require.NoError(t, err)

		_, err = store.Create(ctx, "Dobozok 2", "sap-110", uuid.Nil)
		assert.ErrorIs(t, err, storefront.ErrConflict)
	})

	t.Run("duplicate name conflicts", func(t *testing.T) {
		db := newTestDB(t)
		store := NewGormCategoryStore(db)

		_, err := store.Create(ctx, "Dobozok", "sap-110", uuid.Nil)
		require.NoError(t, err)

		_, err = store.Create(ctx, "Dobozok", "sap-111", uuid.Nil)
		assert.ErrorIs(t, err, storefront.ErrConflict)
	})
}
