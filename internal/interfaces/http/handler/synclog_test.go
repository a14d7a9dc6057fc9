package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

type fakeLogStore struct {
	entries []storefront.LogEntry

	lastQuery storefront.LogFilter
	lastClear *storefront.LogFilter
}

func (f *fakeLogStore) Append(ctx context.Context, typ storefront.LogType, message string, logCtx map[string]any) error {
	f.entries = append(f.entries, storefront.LogEntry{
		ID: uuid.New(), Type: typ, Message: message, Context: logCtx, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeLogStore) matches(e storefront.LogEntry, filter storefront.LogFilter) bool {
	if filter.Type != "" && e.Type != filter.Type {
		return false
	}
	if filter.Search != "" && !strings.Contains(e.Message, filter.Search) {
		return false
	}
	if filter.From != nil && e.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !e.CreatedAt.Before(*filter.To) {
		return false
	}
	return true
}

func (f *fakeLogStore) Query(ctx context.Context, filter storefront.LogFilter) ([]storefront.LogEntry, error) {
	f.lastQuery = filter
	var out []storefront.LogEntry
	for _, e := range f.entries {
		if f.matches(e, filter) {
			out = append(out, e)
		}
	}
	if filter.Offset > 0 && filter.Offset < len(out) {
		out = out[filter.Offset:]
	} else if filter.Offset >= len(out) {
		out = nil
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeLogStore) Count(ctx context.Context, filter storefront.LogFilter) (int64, error) {
	var n int64
	for _, e := range f.entries {
		if f.matches(e, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeLogStore) Clear(ctx context.Context, filter storefront.LogFilter) error {
	f.lastClear = &filter
	var kept []storefront.LogEntry
	for _, e := range f.entries {
		if !f.matches(e, filter) {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func seedLogs(store *fakeLogStore) {
	ctx := context.Background()
	_ = store.Append(ctx, storefront.LogTypeProduct, "termék szinkronizálva: DOB001", map[string]any{"item_code": "DOB001"})
	_ = store.Append(ctx, storefront.LogTypeProduct, "termék szinkronizálva: DOB002", nil)
	_ = store.Append(ctx, storefront.LogTypeError, "hiányzó cikkszám", nil)
}

func TestSyncLogList(t *testing.T) {
	t.Run("lists entries with pagination meta", func(t *testing.T) {
		store := &fakeLogStore{}
		seedLogs(store)
		engine := newTestRouter(t, NewSyncLogHandler(store, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/sync/logs?page=1&page_size=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(3), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.TotalPages)

		items, ok := resp.Data.([]any)
		require.True(t, ok)
		assert.Len(t, items, 2)
	})

	t.Run("filters by type and search", func(t *testing.T) {
		store := &fakeLogStore{}
		seedLogs(store)
		engine := newTestRouter(t, NewSyncLogHandler(store, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/sync/logs?type=product&search=DOB002", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Equal(t, storefront.LogTypeProduct, store.lastQuery.Type)
		assert.Equal(t, "DOB002", store.lastQuery.Search)
	})

	t.Run("to filter is inclusive of the named day", func(t *testing.T) {
		store := &fakeLogStore{}
		engine := newTestRouter(t, NewSyncLogHandler(store, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/sync/logs?to=2026-08-20", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, store.lastQuery.To)
		assert.Equal(t, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC), store.lastQuery.To.UTC())
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		engine := newTestRouter(t, NewSyncLogHandler(&fakeLogStore{}, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/sync/logs?from=yesterday", nil)
		requireErrorCode(t, rec, http.StatusBadRequest, dto.ErrCodeInvalidRequest)
	})
}

func TestSyncLogClear(t *testing.T) {
	store := &fakeLogStore{}
	seedLogs(store)
	engine := newTestRouter(t, NewSyncLogHandler(store, testLogger()))

	rec := doRequest(t, engine, http.MethodDelete, "/api/v1/sync/logs?type=product", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, store.lastClear)
	assert.Equal(t, storefront.LogTypeProduct, store.lastClear.Type)
	assert.Len(t, store.entries, 1)
}
