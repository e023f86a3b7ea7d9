package handler

import (
	"net/http"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/gin-gonic/gin"
)

type SelfReminderHandler interface {
	HandleGet(c *gin.Context)
	HandleSave(c *gin.Context)
}

type selfReminderHandler struct {
	selfReminderService service.SelfReminderService
}

func NewSelfReminderHandler(selfReminderService service.SelfReminderService) SelfReminderHandler {
	return &selfReminderHandler{
		selfReminderService: selfReminderService,
	}
}

func (h *selfReminderHandler) HandleGet(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	taskID, ok := pathID(c, "taskId")
	if !ok {
		return
	}
	r, err := h.selfReminderService.Get(c.Request.Context(), a, taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    r,
	})
}

func (h *selfReminderHandler) HandleSave(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.SaveSelfReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.selfReminderService.Save(c.Request.Context(), a, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Self reminder saved successfully",
	})
}
