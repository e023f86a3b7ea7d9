package handler

import (
	"net/http"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/gin-gonic/gin"
)

type StatsHandler interface {
	HandleUserPerformance(c *gin.Context)
}

type statsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) StatsHandler {
	return &statsHandler{
		statsService: statsService,
	}
}

// HandleUserPerformance answers with the summary fields at the top level
// next to the row data.
func (h *statsHandler) HandleUserPerformance(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	resp, err := h.statsService.UserPerformance(c.Request.Context(), a, c.Query("type"), c.Query("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
