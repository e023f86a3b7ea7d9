package handler

import (
	"net/http"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/gin-gonic/gin"
)

type MeetingHandler interface {
	HandleSchedule(c *gin.Context)
	HandleList(c *gin.Context)
	HandleUpdateStatus(c *gin.Context)
	HandleDelete(c *gin.Context)
}

type meetingHandler struct {
	meetingService service.MeetingService
}

func NewMeetingHandler(meetingService service.MeetingService) MeetingHandler {
	return &meetingHandler{
		meetingService: meetingService,
	}
}

func (h *meetingHandler) HandleSchedule(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.meetingService.Schedule(c.Request.Context(), a, req)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Meeting scheduled successfully"
	if resp.NotifiedUsers == 0 {
		message = "Meeting scheduled, but no recipients found"
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"message":       message,
		"meetingId":     resp.MeetingID,
		"notifiedUsers": resp.NotifiedUsers,
	})
}

func (h *meetingHandler) HandleList(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	meetings, err := h.meetingService.List(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	if meetings == nil {
		meetings = []types.MeetingView{}
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    meetings,
	})
}

func (h *meetingHandler) HandleUpdateStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.UpdateMeetingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.meetingService.UpdateStatus(c.Request.Context(), a, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Meeting status updated",
	})
}

func (h *meetingHandler) HandleDelete(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "meetingId")
	if !ok {
		return
	}
	if err := h.meetingService.Delete(c.Request.Context(), a, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Meeting deleted",
	})
}
