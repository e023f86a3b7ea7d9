package handler

import (
	"net/http"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/gin-gonic/gin"
)

type NotificationHandler interface {
	HandleList(c *gin.Context)
	HandleUnopened(c *gin.Context)
	HandleMarkRead(c *gin.Context)
	HandleMarkOpened(c *gin.Context)
	HandleDelete(c *gin.Context)
	HandleClear(c *gin.Context)
}

type notificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) NotificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
	}
}

func (h *notificationHandler) HandleList(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	list, err := h.notificationService.List(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []types.Notification{}
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    list,
	})
}

// HandleUnopened answers with data null when everything has been opened.
func (h *notificationHandler) HandleUnopened(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	n, err := h.notificationService.Unopened(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    n,
	})
}

func (h *notificationHandler) HandleMarkRead(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), a, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Notification marked as read",
	})
}

func (h *notificationHandler) HandleMarkOpened(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkOpened(c.Request.Context(), a, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Notification marked as opened",
	})
}

func (h *notificationHandler) HandleDelete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), a, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Notification deleted",
	})
}

func (h *notificationHandler) HandleClear(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	n, err := h.notificationService.Clear(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "All notifications cleared",
		"deleted": n,
	})
}
