package handler

import (
	"fmt"
	"net/http"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/gin-gonic/gin"
)

type TaskHandler interface {
	HandleCreateTask(c *gin.Context)
	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleAppendHistory(c *gin.Context)
	HandleUserHistory(c *gin.Context)
}

type taskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) TaskHandler {
	return &taskHandler{
		taskService: taskService,
	}
}

func (h *taskHandler) HandleCreateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.taskService.CreateTask(c.Request.Context(), a, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Success: true,
		Message: fmt.Sprintf("Task successfully assigned to %d user(s).", countAssignees(req.Users)),
		Data:    resp,
	})
}

func countAssignees(ids types.IDList) int {
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id > 0 {
			seen[id] = true
		}
	}
	return len(seen)
}

func (h *taskHandler) HandleListTasks(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	tasks, err := h.taskService.ListTasks(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    tasks,
	})
}

func (h *taskHandler) HandleGetTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    task,
	})
}

func (h *taskHandler) HandleUpdateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req types.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.taskService.UpdateTask(c.Request.Context(), a, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Task updated successfully",
		Data:    resp,
	})
}

func (h *taskHandler) HandleDeleteTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), a, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Message: "Task deleted",
	})
}

func (h *taskHandler) HandleAppendHistory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.AppendHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.taskService.AppendHistory(c.Request.Context(), a, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.DataResponse{
		Success: true,
		Message: "History entry added",
		Data:    entry,
	})
}

func (h *taskHandler) HandleUserHistory(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	history, err := h.taskService.UserHistory(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	if history == nil {
		history = []types.HistoryView{}
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    history,
	})
}
