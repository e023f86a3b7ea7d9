package handler

import (
	"net/http"

	"github.com/Euroteck-developer/Reminder-App/service"
	"github.com/Euroteck-developer/Reminder-App/types"
	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	HandleAssignable(c *gin.Context)
	HandleMe(c *gin.Context)
}

type userHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{
		userService: userService,
	}
}

func (h *userHandler) HandleAssignable(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	users, err := h.userService.Assignable(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	refs := make([]types.UserRef, 0, len(users))
	for i := range users {
		refs = append(refs, users[i].Ref())
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    refs,
	})
}

func (h *userHandler) HandleMe(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	u, err := h.userService.Profile(c.Request.Context(), a)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    u,
	})
}
