package handler

import (
	"net/http"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AgentRequestHandler exposes the approval queue of proposed agent actions.
type AgentRequestHandler struct {
	guard     workspaceGuard
	architect service.ArchitectService
}

func NewAgentRequestHandler(architect service.ArchitectService, workspaces service.WorkspaceService) *AgentRequestHandler {
	return &AgentRequestHandler{
		guard:     workspaceGuard{workspaces: workspaces},
		architect: architect,
	}
}

func (h *AgentRequestHandler) List(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	var status *model.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s := model.RequestStatus(raw)
		if !s.IsValid() {
			badRequest(c, "invalid status filter")
			return
		}
		status = &s
	}

	requests, err := h.architect.List(c.Request.Context(), acc.WorkspaceID, status, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list agent requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentRequestResponses(requests))
}

func (h *AgentRequestHandler) Get(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}
	reqID, ok := parseID(c, "id")
	if !ok {
		return
	}

	req, err := h.architect.Get(c.Request.Context(), acc.WorkspaceID, reqID)
	if err != nil {
		respondError(c, err, "failed to get agent request")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentRequestResponse(req))
}

// Approve applies a pending request. 409 once decided, 410 once expired,
// 422 when applying fails.
func (h *AgentRequestHandler) Approve(c *gin.Context) {
	h.decide(c, true)
}

func (h *AgentRequestHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *AgentRequestHandler) decide(c *gin.Context, approve bool) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}
	reqID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var body dto.DecideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}

	var (
		req *model.AgentRequest
		err error
	)
	if approve {
		req, err = h.architect.Approve(c.Request.Context(), acc.WorkspaceID, reqID, acc.User.ID, body.Note)
	} else {
		req, err = h.architect.Reject(c.Request.Context(), acc.WorkspaceID, reqID, acc.User.ID, body.Note)
	}
	if err != nil {
		respondError(c, err, "failed to decide agent request")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentRequestResponse(req))
}
