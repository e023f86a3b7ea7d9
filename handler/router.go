package handler

import (
	"net/http"

	"github.com/Euroteck-developer/Reminder-App/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups everything SetupRouter mounts.
type Handlers struct {
	Cors         *CorsHandler
	Task         TaskHandler
	Stats        StatsHandler
	Meeting      MeetingHandler
	Notification NotificationHandler
	SelfReminder SelfReminderHandler
	User         UserHandler
	WS           WSHandler
}

func SetupRouter(jwtSecret string, h Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(h.Cors.CorsMiddleware)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Reminder App API is running")
	})

	auth := middleware.AuthMiddleware(jwtSecret)
	router.GET("/ws", auth, h.WS.HandleWS)

	api := router.Group("/api")
	api.Use(auth)

	reminders := api.Group("/reminders")
	{
		reminders.POST("", h.Task.HandleCreateTask)
		reminders.GET("", h.Task.HandleListTasks)
		reminders.PUT("/update-task-status", h.Task.HandleUpdateTask)
		reminders.GET("/history/user", h.Task.HandleUserHistory)
		reminders.GET("/:id", h.Task.HandleGetTask)
		reminders.DELETE("/:id", h.Task.HandleDeleteTask)
		reminders.POST("/:id/history", h.Task.HandleAppendHistory)
	}

	api.GET("/stats/user-performance", h.Stats.HandleUserPerformance)

	meetings := api.Group("/meetings")
	{
		meetings.POST("", h.Meeting.HandleSchedule)
		meetings.GET("", h.Meeting.HandleList)
		meetings.PUT("/status", h.Meeting.HandleUpdateStatus)
		meetings.DELETE("/:meetingId", h.Meeting.HandleDelete)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notification.HandleList)
		notifications.GET("/unopened", h.Notification.HandleUnopened)
		notifications.PUT("/:id/read", h.Notification.HandleMarkRead)
		notifications.PATCH("/:id/opened", h.Notification.HandleMarkOpened)
		notifications.DELETE("/clear", h.Notification.HandleClear)
		notifications.DELETE("/:id", h.Notification.HandleDelete)
	}

	selfReminder := api.Group("/self-reminder")
	{
		selfReminder.GET("/:taskId", h.SelfReminder.HandleGet)
		selfReminder.POST("/save", h.SelfReminder.HandleSave)
	}

	users := api.Group("/users")
	{
		users.GET("/assignable", h.User.HandleAssignable)
		users.GET("/me", h.User.HandleMe)
	}

	return router
}
