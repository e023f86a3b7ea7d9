package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Euroteck-developer/Reminder-App/middleware"
	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, types.DataResponse{
		Success: false,
		Message: message,
	})
}

// respondError maps service error kinds to status codes. Anything that is
// not a client error is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	var serr *service.Error
	switch {
	case errors.As(err, &serr) && errors.Is(serr.Kind, service.ErrValidation):
		fail(c, http.StatusBadRequest, serr.Msg)
	case errors.As(err, &serr) && errors.Is(serr.Kind, service.ErrForbidden):
		fail(c, http.StatusForbidden, serr.Msg)
	case errors.As(err, &serr) && errors.Is(serr.Kind, service.ErrNotFound):
		fail(c, http.StatusNotFound, serr.Msg)
	default:
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

func actor(c *gin.Context) (types.Actor, bool) {
	a, ok := middleware.Actor(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	return a, ok
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
