package sync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
)

func testHierarchy() []sap.HierarchyNode {
	return []sap.HierarchyNode{
		{Code: "DOB", Name: "Dobozok", Level: 1, Status: "O"},
		{Code: "DOB-KV", Name: "Kétrétegű dobozok", Level: 2, ParentCode: "DOB", Status: "O"},
		{Code: "DOB-KV-A4", Name: "A4 dobozok", Level: 3, ParentCode: "DOB-KV", Status: "O"},
		{Code: "OLD", Name: "Kivezetett", Level: 1, Status: "C"},
	}
}

func TestCategoryResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing chain parent first", func(t *testing.T) {
		items := &fakeItemSource{hierarchy: testHierarchy()}
		categories := newFakeCategories()
		resolver := NewCategoryResolver(items, categories, zap.NewNop())

		id, err := resolver.Resolve(ctx, "DOB-KV-A4")
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		assert.Equal(t, []string{"sap-DOB", "sap-DOB-KV", "sap-DOB-KV-A4"}, categories.created)

		leaf := categories.records[id]
		assert.Equal(t, "A4 dobozok", leaf.name)
		parent := categories.records[leaf.parentID]
		assert.Equal(t, "sap-DOB-KV", parent.slug)
		root := categories.records[parent.parentID]
		assert.Equal(t, "sap-DOB", root.slug)
		assert.Equal(t, uuid.Nil, root.parentID)
	})

	t.Run("memoizes and reuses existing categories", func(t *testing.T) {
		items := &fakeItemSource{hierarchy: testHierarchy()}
		categories := newFakeCategories()
		existing := categories.seed("Dobozok", "sap-DOB")
		resolver := NewCategoryResolver(items, categories, zap.NewNop())

		id, err := resolver.Resolve(ctx, "DOB")
		require.NoError(t, err)
		assert.Equal(t, existing, id)
		assert.Empty(t, categories.created)

		again, err := resolver.Resolve(ctx, "DOB")
		require.NoError(t, err)
		assert.Equal(t, existing, again)
		assert.Equal(t, 1, items.hierCalls)
	})

	t.Run("unknown and inactive codes", func(t *testing.T) {
		items := &fakeItemSource{hierarchy: testHierarchy()}
		resolver := NewCategoryResolver(items, newFakeCategories(), zap.NewNop())

		_, err := resolver.Resolve(ctx, "NOPE")
		assert.ErrorIs(t, err, storefront.ErrNotFound)

		_, err = resolver.Resolve(ctx, "OLD")
		assert.ErrorIs(t, err, storefront.ErrNotFound)
	})

	t.Run("broken parent demotes to root", func(t *testing.T) {
		items := &fakeItemSource{hierarchy: []sap.HierarchyNode{
			{Code: "ORPH", Name: "Árva", Level: 2, ParentCode: "GONE", Status: "O"},
		}}
		categories := newFakeCategories()
		resolver := NewCategoryResolver(items, categories, zap.NewNop())

		id, err := resolver.Resolve(ctx, "ORPH")
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, categories.records[id].parentID)
	})

	t.Run("cycle does not recurse forever", func(t *testing.T) {
		items := &fakeItemSource{hierarchy: []sap.HierarchyNode{
			{Code: "A", Name: "A", ParentCode: "B", Status: "O"},
			{Code: "B", Name: "B", ParentCode: "A", Status: "O"},
		}}
		categories := newFakeCategories()
		resolver := NewCategoryResolver(items, categories, zap.NewNop())

		// The cycle breaks at the revisited node; both nodes still get a
		// category, the second one at root.
		_, err := resolver.Resolve(ctx, "A")
		require.NoError(t, err)
		assert.Len(t, categories.created, 2)
	})

	t.Run("conflict falls back to lookup by name", func(t *testing.T) {
		items := &fakeItemSource{hierarchy: testHierarchy()}
		categories := newFakeCategories()
		existing := categories.seed("Dobozok", "manually-made-slug")
		categories.conflictSlugs = map[string]bool{"sap-DOB": true}
		resolver := NewCategoryResolver(items, categories, zap.NewNop())

		id, err := resolver.Resolve(ctx, "DOB")
		require.NoError(t, err)
		assert.Equal(t, existing, id)
	})

	t.Run("refresh drops memoization", func(t *testing.T) {
		items := &fakeItemSource{hierarchy: testHierarchy()}
		resolver := NewCategoryResolver(items, newFakeCategories(), zap.NewNop())

		require.NoError(t, resolver.Refresh(ctx))
		_, err := resolver.Resolve(ctx, "DOB")
		require.NoError(t, err)

		require.NoError(t, resolver.Refresh(ctx))
		assert.Equal(t, 2, items.hierCalls)
	})
}
