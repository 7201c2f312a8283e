package router

import (
	"cerebrin.app/backend/internal/http/handler"
	"github.com/gin-gonic/gin"
)

// AdminRouter expects the group to already carry the admin API key check.
func AdminRouter(rg *gin.RouterGroup, h *handler.AdminHandler) {
	rg.GET("/overview", h.Overview)
	rg.GET("/workspaces", h.ListWorkspaces)
	rg.GET("/agent-requests", h.ListPendingRequests)

	tickets := rg.Group("/tickets")
	tickets.GET("", h.ListTickets)
	tickets.GET("/:id", h.GetTicket)
	tickets.POST("/:id/transition", h.TransitionTicket)
	tickets.POST("/:id/assign", h.AssignTicket)
}
