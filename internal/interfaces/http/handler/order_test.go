package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapbridge/backend/internal/domain/sap"
	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

type fakeOrderSync struct {
	enabled  bool
	docEntry int
	syncErr  error
	refErr   error
	synced   []uuid.UUID
	refs     map[uuid.UUID]string
}

func (f *fakeOrderSync) Enabled(ctx context.Context) bool { return f.enabled }

func (f *fakeOrderSync) SyncOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	if f.syncErr != nil {
		return 0, f.syncErr
	}
	f.synced = append(f.synced, orderID)
	return f.docEntry, nil
}

func (f *fakeOrderSync) UpdateTransactionRef(ctx context.Context, orderID uuid.UUID, ref string) error {
	if f.refErr != nil {
		return f.refErr
	}
	if f.refs == nil {
		f.refs = make(map[uuid.UUID]string)
	}
	f.refs[orderID] = ref
	return nil
}

func TestOrderSyncEndpoint(t *testing.T) {
	orderID := uuid.New()

	t.Run("creates the document", func(t *testing.T) {
		orders := &fakeOrderSync{enabled: true, docEntry: 501}
		engine := newTestRouter(t, NewOrderHandler(orders, testLogger()))

		rec := doRequest(t, engine, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/sync", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		data := dataMap(t, decodeResponse(t, rec))
		assert.Equal(t, orderID.String(), data["order_id"])
		assert.Equal(t, float64(501), data["doc_entry"])
		assert.Equal(t, []uuid.UUID{orderID}, orders.synced)
	})

	t.Run("rejects when sync is disabled", func(t *testing.T) {
		orders := &fakeOrderSync{enabled: false}
		engine := newTestRouter(t, NewOrderHandler(orders, testLogger()))

		rec := doRequest(t, engine, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/sync", nil)
		requireErrorCode(t, rec, http.StatusConflict, dto.ErrCodeSyncDisabled)
		assert.Empty(t, orders.synced)
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		orders := &fakeOrderSync{enabled: true, syncErr: storefront.ErrNotFound}
		engine := newTestRouter(t, NewOrderHandler(orders, testLogger()))

		rec := doRequest(t, engine, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/sync", nil)
		requireErrorCode(t, rec, http.StatusNotFound, dto.ErrCodeNotFound)
	})

	t.Run("upstream rejection returns 502", func(t *testing.T) {
		orders := &fakeOrderSync{enabled: true, syncErr: fmt.Errorf("order 2301: %w",
			&sap.APIError{StatusCode: 400, Message: "Invalid BP code"})}
		engine := newTestRouter(t, NewOrderHandler(orders, testLogger()))

		rec := doRequest(t, engine, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/sync", nil)
		requireErrorCode(t, rec, http.StatusBadGateway, dto.ErrCodeSAPRejected)
	})

	t.Run("invalid id returns 400", func(t *testing.T) {
		engine := newTestRouter(t, NewOrderHandler(&fakeOrderSync{enabled: true}, testLogger()))

		rec := doRequest(t, engine, http.MethodPost, "/api/v1/orders/not-a-uuid/sync", nil)
		requireErrorCode(t, rec, http.StatusBadRequest, dto.ErrCodeInvalidRequest)
	})
}

func TestUpdateTransactionRefEndpoint(t *testing.T) {
	orderID := uuid.New()

	t.Run("patches the reference", func(t *testing.T) {
		orders := &fakeOrderSync{enabled: true}
		engine := newTestRouter(t, NewOrderHandler(orders, testLogger()))

		rec := doRequest(t, engine, http.MethodPut, "/api/v1/orders/"+orderID.String()+"/transaction-ref",
			dto.TransactionRefRequest{TransactionRef: "SP-20260820-77"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "SP-20260820-77", orders.refs[orderID])
	})

	t.Run("requires a reference value", func(t *testing.T) {
		engine := newTestRouter(t, NewOrderHandler(&fakeOrderSync{enabled: true}, testLogger()))

		rec := doRequest(t, engine, http.MethodPut, "/api/v1/orders/"+orderID.String()+"/transaction-ref",
			map[string]string{})
		requireErrorCode(t, rec, http.StatusBadRequest, dto.ErrCodeInvalidRequest)
	})

	t.Run("not yet synced order returns 404", func(t *testing.T) {
		orders := &fakeOrderSync{enabled: true, refErr: fmt.Errorf("order 2301: %w", storefront.ErrNotFound)}
		engine := newTestRouter(t, NewOrderHandler(orders, testLogger()))

		rec := doRequest(t, engine, http.MethodPut, "/api/v1/orders/"+orderID.String()+"/transaction-ref",
			dto.TransactionRefRequest{TransactionRef: "SP-1"})
		requireErrorCode(t, rec, http.StatusNotFound, dto.ErrCodeNotFound)
	})
}
