package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

// StockChecker answers realtime availability queries against SAP.
type StockChecker interface {
	RealtimeCheckEnabled(ctx context.Context) bool
	RealtimeAvailable(ctx context.Context, itemCode string) (int, error)
}

// StockHandler handles realtime stock endpoints
type StockHandler struct {
	BaseHandler
	stock StockChecker
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stock StockChecker, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		BaseHandler: NewBaseHandler(logger),
		stock:       stock,
	}
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock/:code", h.GetAvailable)
}

// GetAvailable returns the live available quantity for one item code,
// straight from the Service Layer rather than the cached storefront value.
func (h *StockHandler) GetAvailable(c *gin.Context) {
	itemCode := c.Param("code")
	if itemCode == "" {
		h.BadRequest(c, "item code is required")
		return
	}

	if !h.stock.RealtimeCheckEnabled(c.Request.Context()) {
		h.Error(c, dto.ErrCodeSyncDisabled, "realtime stock check is disabled")
		return
	}

	available, err := h.stock.RealtimeAvailable(c.Request.Context(), itemCode)
	if err != nil {
		h.DomainError(c, err)
		return
	}

	h.Success(c, dto.StockResponse{ItemCode: itemCode, Available: available})
}
