package handler

import (
	"net/http"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	guard      workspaceGuard
	workspaces service.WorkspaceService
}

func NewWorkspaceHandler(workspaces service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		guard:      workspaceGuard{workspaces: workspaces},
		workspaces: workspaces,
	}
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if p := principalOf(c); p.Token != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "access tokens cannot create workspaces", "code": "insufficient_scope"})
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: name is required")
		return
	}

	ws, err := h.workspaces.Create(c.Request.Context(), user.ID, service.CreateWorkspaceParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "failed to create workspace")
		return
	}

	resp := dto.ToWorkspaceResponse(ws)
	resp.Role = model.WorkspaceRoleOwner
	c.JSON(http.StatusCreated, resp)
}

func (h *WorkspaceHandler) ListMine(c *gin.Context) {
	items, err := h.workspaces.ListMine(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err, "failed to list workspaces")
		return
	}

	if pinned, ok := principalOf(c).PinnedWorkspace(); ok {
		filtered := items[:0]
		for _, ws := range items {
			if ws.ID == pinned {
				filtered = append(filtered, ws)
			}
		}
		items = filtered
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceWithRoleResponses(items))
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(c.Request.Context(), acc.WorkspaceID)
	if err != nil {
		respondError(c, err, "failed to get workspace")
		return
	}

	resp := dto.ToWorkspaceResponse(ws)
	resp.Role = acc.Member.Role
	c.JSON(http.StatusOK, resp)
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	var req dto.UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	ws, err := h.workspaces.Update(c.Request.Context(), acc.WorkspaceID, service.UpdateWorkspaceParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "failed to update workspace")
		return
	}

	resp := dto.ToWorkspaceResponse(ws)
	resp.Role = acc.Member.Role
	c.JSON(http.StatusOK, resp)
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleOwner, model.ScopeAdmin)
	if !ok {
		return
	}

	if err := h.workspaces.Delete(c.Request.Context(), acc.WorkspaceID); err != nil {
		respondError(c, err, "failed to delete workspace")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	members, err := h.workspaces.ListMembers(c.Request.Context(), acc.WorkspaceID)
	if err != nil {
		respondError(c, err, "failed to list members")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponses(members))
}

func (h *WorkspaceHandler) UpdateMember(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: role is required")
		return
	}

	member, err := h.workspaces.UpdateMemberRole(c.Request.Context(), acc.WorkspaceID, userID, req.Role, acc.Member.Role)
	if err != nil {
		respondError(c, err, "failed to update member")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberResponse(member))
}

func (h *WorkspaceHandler) RemoveMember(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeAdmin)
	if !ok {
		return
	}
	userID, ok := parseID(c, "user")
	if !ok {
		return
	}

	// Members may leave on their own; removing someone else needs admin.
	if userID != acc.User.ID && !acc.Member.Role.AtLeast(model.WorkspaceRoleAdmin) {
		respondError(c, service.ErrForbidden, "")
		return
	}

	if err := h.workspaces.RemoveMember(c.Request.Context(), acc.WorkspaceID, userID); err != nil {
		respondError(c, err, "failed to remove member")
		return
	}

	c.Status(http.StatusNoContent)
}
