package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sapbridge/backend/internal/infrastructure/sapclient"
)

// SessionTester verifies Service Layer connectivity by forcing a session.
type SessionTester interface {
	Login(ctx context.Context) (*sapclient.Session, error)
	Logout(ctx context.Context)
}

// SystemHandler handles system-level endpoints
type SystemHandler struct {
	BaseHandler
	sap       SessionTester
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(sap SessionTester, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		sap:         sap,
		version:     version,
		startTime:   time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/info", h.GetSystemInfo)
		system.GET("/ping", h.Ping)
		system.POST("/sap/test", h.TestConnection)
	}
}

// GetSystemInfo returns service version and uptime
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, gin.H{
		"version":   h.version,
		"uptime":    time.Since(h.startTime).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Ping is a liveness check
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// TestConnection performs a login+logout round trip against the Service
// Layer. The fresh login bypasses any cached session so a stale cookie
// cannot mask a broken connection.
func (h *SystemHandler) TestConnection(c *gin.Context) {
	session, err := h.sap.Login(c.Request.Context())
	if err != nil {
		h.DomainError(c, err)
		return
	}
	sessionID := session.SessionID
	h.sap.Logout(c.Request.Context())

	h.Success(c, gin.H{
		"connected":  true,
		"session_id": sessionID,
	})
}
