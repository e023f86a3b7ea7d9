package handler

import (
	"context"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WSHandler interface {
	HandleWS(c *gin.Context)
}

type wsHandler struct {
	hub                 *service.Hub
	notificationService service.NotificationService
}

func NewWSHandler(hub *service.Hub, notificationService service.NotificationService) WSHandler {
	return &wsHandler{
		hub:                 hub,
		notificationService: notificationService,
	}
}

// HandleWS upgrades the request and pushes the unread feed once the
// connection is registered.
func (h *wsHandler) HandleWS(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	conn, err := h.hub.Upgrade(c.Writer, c.Request)
	if err != nil {
		// Upgrade already wrote the error response.
		zap.L().Info("websocket upgrade failed", zap.Int64("user_id", a.ID), zap.Error(err))
		return
	}
	zap.L().Debug("websocket connected", zap.Int64("user_id", a.ID))
	h.hub.Serve(c.Request.Context(), conn, a.ID, func(ctx context.Context) {
		n, err := h.notificationService.DeliverMissed(ctx, a.ID)
		if err != nil {
			zap.L().Error("deliver missed notifications failed", zap.Int64("user_id", a.ID), zap.Error(err))
			return
		}
		if n > 0 {
			zap.L().Debug("missed notifications delivered", zap.Int64("user_id", a.ID), zap.Int("count", n))
		}
	})
}
