package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/infrastructure/scheduler"
	"github.com/sapbridge/backend/internal/interfaces/http/dto"
)

// SyncTrigger queues sync jobs outside the cron schedule.
type SyncTrigger interface {
	TriggerManual(jobType scheduler.JobType, since string) error
}

// SyncHandler handles manual sync trigger endpoints
type SyncHandler struct {
	BaseHandler
	trigger SyncTrigger
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(trigger SyncTrigger, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		BaseHandler: NewBaseHandler(logger),
		trigger:     trigger,
	}
}

// RegisterRoutes registers sync trigger routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/products", h.TriggerProductSync)
		sync.POST("/customers", h.TriggerCustomerSync)
		sync.POST("/stock", h.TriggerStockSync)
	}
}

// TriggerProductSync queues a product sync job
func (h *SyncHandler) TriggerProductSync(c *gin.Context) {
	h.triggerSync(c, scheduler.JobTypeProductSync)
}

// TriggerCustomerSync queues a customer import job
func (h *SyncHandler) TriggerCustomerSync(c *gin.Context) {
	h.triggerSync(c, scheduler.JobTypeCustomerSync)
}

// TriggerStockSync queues a stock sync job
func (h *SyncHandler) TriggerStockSync(c *gin.Context) {
	h.triggerSync(c, scheduler.JobTypeStockSync)
}

func (h *SyncHandler) triggerSync(c *gin.Context, jobType scheduler.JobType) {
	var req dto.TriggerSyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	if err := h.trigger.TriggerManual(jobType, req.Since); err != nil {
		switch {
		case errors.Is(err, scheduler.ErrJobQueueFull):
			h.Error(c, dto.ErrCodeQueueFull, err.Error())
		case errors.Is(err, scheduler.ErrSchedulerNotRunning):
			h.Error(c, dto.ErrCodeConflict, err.Error())
		default:
			h.InternalError(c, err.Error())
		}
		return
	}

	h.Accepted(c, dto.TriggerSyncResponse{
		JobType: string(jobType),
		Since:   req.Since,
		Queued:  true,
	})
}
