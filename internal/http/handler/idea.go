package handler

import (
	"net/http"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type IdeaHandler struct {
	guard workspaceGuard
	ideas service.IdeaService
}

func NewIdeaHandler(ideas service.IdeaService, workspaces service.WorkspaceService) *IdeaHandler {
	return &IdeaHandler{
		guard: workspaceGuard{workspaces: workspaces},
		ideas: ideas,
	}
}

func (h *IdeaHandler) Create(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}

	var req dto.CreateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: title is required")
		return
	}

	idea, err := h.ideas.Create(c.Request.Context(), service.CreateIdeaParams{
		WorkspaceID:     acc.WorkspaceID,
		Title:           req.Title,
		Description:     req.Description,
		Stage:           req.Stage,
		CreatedByUserID: acc.UserID(),
	})
	if err != nil {
		respondError(c, err, "failed to create idea")
		return
	}

	c.JSON(http.StatusCreated, dto.ToIdeaResponse(idea))
}

// List returns the board ordered by stage then position.
func (h *IdeaHandler) List(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	var stage *model.IdeaStage
	if raw := c.Query("stage"); raw != "" {
		s := model.IdeaStage(raw)
		stage = &s
	}

	ideas, err := h.ideas.List(c.Request.Context(), acc.WorkspaceID, stage)
	if err != nil {
		respondError(c, err, "failed to list ideas")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaResponses(ideas))
}

func (h *IdeaHandler) Get(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}
	ideaID, ok := parseID(c, "id")
	if !ok {
		return
	}

	idea, err := h.ideas.Get(c.Request.Context(), acc.WorkspaceID, ideaID)
	if err != nil {
		respondError(c, err, "failed to get idea")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaResponse(idea))
}

func (h *IdeaHandler) Update(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ideaID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	idea, err := h.ideas.Update(c.Request.Context(), acc.WorkspaceID, ideaID, service.UpdateIdeaParams{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err, "failed to update idea")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaResponse(idea))
}

func (h *IdeaHandler) Delete(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ideaID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.ideas.Delete(c.Request.Context(), acc.WorkspaceID, ideaID); err != nil {
		respondError(c, err, "failed to delete idea")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *IdeaHandler) Move(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ideaID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.MoveIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: stage is required")
		return
	}

	idea, err := h.ideas.Move(c.Request.Context(), acc.WorkspaceID, ideaID, service.MoveIdeaParams{
		Stage:    req.Stage,
		Position: req.Position,
	})
	if err != nil {
		respondError(c, err, "failed to move idea")
		return
	}

	c.JSON(http.StatusOK, dto.ToIdeaResponse(idea))
}

func (h *IdeaHandler) Promote(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ideaID, ok := parseID(c, "id")
	if !ok {
		return
	}

	idea, doc, err := h.ideas.Promote(c.Request.Context(), acc.WorkspaceID, ideaID, acc.UserID())
	if err != nil {
		respondError(c, err, "failed to promote idea")
		return
	}

	c.JSON(http.StatusOK, dto.PromoteIdeaResponse{
		Idea:     dto.ToIdeaResponse(idea),
		Document: dto.ToDocumentResponse(doc),
	})
}

// Score queues a resonance pass; the result lands on the idea later.
func (h *IdeaHandler) Score(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ideaID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.ideas.RequestScore(c.Request.Context(), acc.WorkspaceID, ideaID); err != nil {
		respondError(c, err, "failed to queue scoring")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
