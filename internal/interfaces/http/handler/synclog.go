package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/domain/storefront"
	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

// SyncLogHandler exposes the persisted sync journal
type SyncLogHandler struct {
	BaseHandler
	logs storefront.SyncLogStore
}

// NewSyncLogHandler creates a new sync log handler
func NewSyncLogHandler(logs storefront.SyncLogStore, logger *zap.Logger) *SyncLogHandler {
	return &SyncLogHandler{
		BaseHandler: NewBaseHandler(logger),
		logs:        logs,
	}
}

// RegisterRoutes registers sync log routes
func (h *SyncLogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	logs := rg.Group("/sync/logs")
	{
		logs.GET("", h.List)
		logs.DELETE("", h.Clear)
	}
}

// List returns sync log entries, newest first, with pagination meta
func (h *SyncLogHandler) List(c *gin.Context) {
	var req dto.LogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 50
	}

	filter := storefront.LogFilter{
		Type:   storefront.LogType(req.Type),
		Search: req.Search,
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	}
	if req.From != "" {
		from, _ := time.Parse("2006-01-02", req.From)
		filter.From = &from
	}
	if req.To != "" {
		// To is inclusive, so the cutoff is the start of the next day.
		to, _ := time.Parse("2006-01-02", req.To)
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}

	total, err := h.logs.Count(c.Request.Context(), filter)
	if err != nil {
		h.InternalError(c, err.Error())
		return
	}

	entries, err := h.logs.Query(c.Request.Context(), filter)
	if err != nil {
		h.InternalError(c, err.Error())
		return
	}

	items := make([]dto.LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.LogEntryResponse{
			ID:        e.ID.String(),
			Type:      string(e.Type),
			Message:   e.Message,
			Context:   e.Context,
			CreatedAt: e.CreatedAt,
		})
	}

	h.SuccessWithMeta(c, items, total, req.Page, req.PageSize)
}

// Clear deletes log entries matching the filter
func (h *SyncLogHandler) Clear(c *gin.Context) {
	var req dto.LogClearRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := storefront.LogFilter{Type: storefront.LogType(req.Type)}
	if req.Before != "" {
		before, _ := time.Parse("2006-01-02", req.Before)
		filter.To = &before
	}

	if err := h.logs.Clear(c.Request.Context(), filter); err != nil {
		h.InternalError(c, err.Error())
		return
	}

	h.NoContent(c)
}
