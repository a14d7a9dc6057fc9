package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

// OrderSyncService pushes a single storefront order to SAP.
type OrderSyncService interface {
	Enabled(ctx context.Context) bool
	SyncOrder(ctx context.Context, orderID uuid.UUID) (int, error)
	UpdateTransactionRef(ctx context.Context, orderID uuid.UUID, ref string) error
}

// OrderHandler handles per-order sync endpoints
type OrderHandler struct {
	BaseHandler
	orders OrderSyncService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderSyncService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		BaseHandler: NewBaseHandler(logger),
		orders:      orders,
	}
}

// RegisterRoutes registers order sync routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/:id/sync", h.SyncOrder)
		orders.PUT("/:id/transaction-ref", h.UpdateTransactionRef)
	}
}

// SyncOrder creates the sales document for one order. Re-syncing an already
// synced order returns the existing document entry.
func (h *OrderHandler) SyncOrder(c *gin.Context) {
	orderID, ok := h.bindOrderID(c)
	if !ok {
		return
	}

	if !h.orders.Enabled(c.Request.Context()) {
		h.Error(c, dto.ErrCodeSyncDisabled, "order synchronization is disabled")
		return
	}

	docEntry, err := h.orders.SyncOrder(c.Request.Context(), orderID)
	if err != nil {
		h.DomainError(c, err)
		return
	}

	h.Success(c, dto.OrderSyncResponse{
		OrderID:  orderID.String(),
		DocEntry: docEntry,
	})
}

// UpdateTransactionRef writes the payment gateway reference onto the synced
// document
func (h *OrderHandler) UpdateTransactionRef(c *gin.Context) {
	orderID, ok := h.bindOrderID(c)
	if !ok {
		return
	}

	var req dto.TransactionRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.orders.UpdateTransactionRef(c.Request.Context(), orderID, req.TransactionRef); err != nil {
		h.DomainError(c, err)
		return
	}

	h.Success(c, gin.H{"order_id": orderID.String(), "transaction_ref": req.TransactionRef})
}

func (h *OrderHandler) bindOrderID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, err.Error())
		return uuid.Nil, false
	}
	orderID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	return orderID, true
}
