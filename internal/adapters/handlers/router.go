package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler) http.Handler {
	router := gin.Default()
	api := router.Group("/api")
	{
		api.POST("/connection/check", h.CheckConnection)
		api.POST("/connection/connect", h.Connect)
		api.GET("/connection", h.GetConnection)

		api.POST("/runs", h.StartRun)
		api.GET("/runs/current", h.GetCurrentRun)
		api.GET("/runs/current/events", h.GetEvents)
		api.POST("/runs/current/pause", h.PauseRun)
		api.POST("/runs/current/resume", h.ResumeRun)
		api.POST("/runs/current/stop", h.StopRun)
	}
	return router
}
