package router

import (
	"cerebrin.app/backend/internal/http/handler"
	"github.com/gin-gonic/gin"
)

type WorkspaceHandlers struct {
	Workspaces    *handler.WorkspaceHandler
	Invitations   *handler.InvitationHandler
	Documents     *handler.DocumentHandler
	Ideas         *handler.IdeaHandler
	Agents        *handler.AgentHandler
	AgentRequests *handler.AgentRequestHandler
	Tickets       *handler.TicketHandler
	AccessTokens  *handler.AccessTokenHandler
}

// WorkspaceRouter mounts everything scoped to /workspaces/:ws. Handlers
// check membership, role and token scope themselves.
func WorkspaceRouter(rg *gin.RouterGroup, h WorkspaceHandlers) {
	rg.POST("", h.Workspaces.Create)
	rg.GET("", h.Workspaces.ListMine)

	ws := rg.Group("/:ws")
	ws.GET("", h.Workspaces.Get)
	ws.PATCH("", h.Workspaces.Update)
	ws.DELETE("", h.Workspaces.Delete)

	members := ws.Group("/members")
	members.GET("", h.Workspaces.ListMembers)
	members.PATCH("/:user", h.Workspaces.UpdateMember)
	members.DELETE("/:user", h.Workspaces.RemoveMember)

	invitations := ws.Group("/invitations")
	invitations.POST("", h.Invitations.Create)
	invitations.GET("", h.Invitations.List)
	invitations.DELETE("/:id", h.Invitations.Revoke)

	documents := ws.Group("/documents")
	documents.POST("", h.Documents.Create)
	documents.GET("", h.Documents.List)
	documents.GET("/search", h.Documents.Search)
	documents.GET("/:id", h.Documents.Get)
	documents.PATCH("/:id", h.Documents.Update)
	documents.DELETE("/:id", h.Documents.Delete)

	ideas := ws.Group("/ideas")
	ideas.POST("", h.Ideas.Create)
	ideas.GET("", h.Ideas.List)
	ideas.GET("/:id", h.Ideas.Get)
	ideas.PATCH("/:id", h.Ideas.Update)
	ideas.DELETE("/:id", h.Ideas.Delete)
	ideas.POST("/:id/move", h.Ideas.Move)
	ideas.POST("/:id/promote", h.Ideas.Promote)
	ideas.POST("/:id/score", h.Ideas.Score)

	agents := ws.Group("/agents")
	agents.POST("", h.Agents.Create)
	agents.GET("", h.Agents.List)
	agents.GET("/:agent", h.Agents.Get)
	agents.PATCH("/:agent", h.Agents.Update)
	agents.DELETE("/:agent", h.Agents.Delete)
	agents.PUT("/:agent/permissions", h.Agents.ReplacePermissions)
	agents.PATCH("/:agent/permissions", h.Agents.SetPermission)
	agents.GET("/:agent/permissions/effective", h.Agents.EffectivePermissions)
	agents.POST("/:agent/chat", h.Agents.Chat)
	agents.POST("/:agent/actions", h.Agents.Propose)
	agents.GET("/:agent/memory", h.Agents.ListMemory)
	agents.POST("/:agent/memory", h.Agents.AddFact)
	agents.DELETE("/:agent/memory", h.Agents.ClearMemory)
	agents.DELETE("/:agent/memory/:entry", h.Agents.DeleteMemory)
	agents.POST("/:agent/mirror", h.Agents.Mirror)

	requests := ws.Group("/agent-requests")
	requests.GET("", h.AgentRequests.List)
	requests.GET("/:id", h.AgentRequests.Get)
	requests.POST("/:id/approve", h.AgentRequests.Approve)
	requests.POST("/:id/reject", h.AgentRequests.Reject)

	tickets := ws.Group("/tickets")
	tickets.POST("", h.Tickets.Create)
	tickets.GET("", h.Tickets.List)
	tickets.GET("/:id", h.Tickets.Get)
	tickets.PATCH("/:id", h.Tickets.Update)
	tickets.POST("/:id/transition", h.Tickets.Transition)
	tickets.POST("/:id/assign", h.Tickets.Assign)

	tokens := ws.Group("/tokens")
	tokens.POST("", h.AccessTokens.Create)
	tokens.GET("", h.AccessTokens.List)
	tokens.DELETE("/:id", h.AccessTokens.Revoke)
}
