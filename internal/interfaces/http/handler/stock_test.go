package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

type fakeStockChecker struct {
	available map[string]int
	err       error
	disabled  bool
}

func (f *fakeStockChecker) RealtimeCheckEnabled(ctx context.Context) bool {
	return !f.disabled
}

func (f *fakeStockChecker) RealtimeAvailable(ctx context.Context, itemCode string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	qty, ok := f.available[itemCode]
	if !ok {
		return 0, fmt.Errorf("item %s: %w", itemCode, sap.ErrNotFound)
	}
	return qty, nil
}

func TestStockEndpoint(t *testing.T) {
	t.Run("returns live availability", func(t *testing.T) {
		stock := &fakeStockChecker{available: map[string]int{"DOB001": 5}}
		engine := newTestRouter(t, NewStockHandler(stock, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/stock/DOB001", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := dataMap(t, decodeResponse(t, rec))
		assert.Equal(t, "DOB001", data["item_code"])
		assert.Equal(t, float64(5), data["available"])
	})

	t.Run("unknown item returns 404", func(t *testing.T) {
		stock := &fakeStockChecker{available: map[string]int{}}
		engine := newTestRouter(t, NewStockHandler(stock, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/stock/GHOST", nil)
		requireErrorCode(t, rec, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("disabled option returns conflict", func(t *testing.T) {
		stock := &fakeStockChecker{available: map[string]int{"DOB001": 5}, disabled: true}
		engine := newTestRouter(t, NewStockHandler(stock, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/stock/DOB001", nil)
		requireErrorCode(t, rec, http.StatusConflict, dto.ErrCodeSyncDisabled)
	})

	t.Run("service layer outage returns 502", func(t *testing.T) {
		stock := &fakeStockChecker{err: sap.ErrUnavailable}
		engine := newTestRouter(t, NewStockHandler(stock, testLogger()))

		rec := doRequest(t, engine, http.MethodGet, "/api/v1/stock/DOB001", nil)
		requireErrorCode(t, rec, http.StatusBadGateway, dto.ErrCodeSAPUnavailable)
	})
}
