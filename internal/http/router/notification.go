package router

import (
	"cerebrin.app/backend/internal/http/handler"
	"github.com/gin-gonic/gin"
)

func NotificationRouter(rg *gin.RouterGroup, h *handler.NotificationHandler) {
	rg.GET("", h.List)
	rg.GET("/unread-count", h.UnreadCount)
	rg.POST("/read-all", h.MarkAllRead)
	rg.POST("/:id/read", h.MarkRead)
	rg.POST("/stream-ticket", h.IssueStreamTicket)
}
