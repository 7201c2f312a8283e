package handler

import (
	"encoding/json"
	"net/http"

	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/ladder"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	guard     workspaceGuard
	agents    service.AgentService
	memory    service.MemoryService
	chat      service.ChatService
	architect service.ArchitectService
}

func NewAgentHandler(
	agents service.AgentService,
	memory service.MemoryService,
	chat service.ChatService,
	architect service.ArchitectService,
	workspaces service.WorkspaceService,
) *AgentHandler {
	return &AgentHandler{
		guard:     workspaceGuard{workspaces: workspaces},
		agents:    agents,
		memory:    memory,
		chat:      chat,
		architect: architect,
	}
}

// resolveAgent authorizes the caller and loads :agent, which may be an id
// or a slug.
func (h *AgentHandler) resolveAgent(c *gin.Context, minRole model.WorkspaceRole, scope model.TokenScope) (*access, *model.Agent, bool) {
	acc, ok := h.guard.authorize(c, minRole, scope)
	if !ok {
		return nil, nil, false
	}

	agent, err := h.agents.Resolve(c.Request.Context(), acc.WorkspaceID, c.Param("agent"))
	if err != nil {
		respondError(c, err, "failed to load agent")
		return nil, nil, false
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{AgentID: &agent.ID})
	c.Request = c.Request.WithContext(ctx)
	return acc, agent, true
}

func (h *AgentHandler) Create(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	var req dto.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: name is required")
		return
	}

	agent, err := h.agents.Create(c.Request.Context(), service.CreateAgentParams{
		WorkspaceID:   acc.WorkspaceID,
		Name:          req.Name,
		Slug:          req.Slug,
		Persona:       req.Persona,
		Model:         req.Model,
		AutonomyLevel: req.AutonomyLevel,
		Permissions:   req.Permissions,
		CreatedBy:     acc.UserID(),
	})
	if err != nil {
		respondError(c, err, "failed to create agent")
		return
	}

	c.JSON(http.StatusCreated, dto.ToAgentResponse(agent))
}

func (h *AgentHandler) List(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	agents, err := h.agents.List(c.Request.Context(), acc.WorkspaceID)
	if err != nil {
		respondError(c, err, "failed to list agents")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentResponses(agents))
}

func (h *AgentHandler) Get(c *gin.Context) {
	_, agent, ok := h.resolveAgent(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToAgentResponse(agent))
}

func (h *AgentHandler) Update(c *gin.Context) {
	acc, agent, ok := h.resolveAgent(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	var req dto.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	updated, err := h.agents.Update(c.Request.Context(), acc.WorkspaceID, agent.ID, service.UpdateAgentParams{
		Name:          req.Name,
		Persona:       req.Persona,
		Model:         req.Model,
		AutonomyLevel: req.AutonomyLevel,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondError(c, err, "failed to update agent")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentResponse(updated))
}

func (h *AgentHandler) Delete(c *gin.Context) {
	acc, agent, ok := h.resolveAgent(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	if err := h.agents.Delete(c.Request.Context(), acc.WorkspaceID, agent.ID); err != nil {
		respondError(c, err, "failed to delete agent")
		return
	}

	c.Status(http.StatusNoContent)
}

// ReplacePermissions swaps the whole permissions document.
func (h *AgentHandler) ReplacePermissions(c *gin.Context) {
	acc, agent, ok := h.resolveAgent(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	var perms json.RawMessage
	if err := c.ShouldBindJSON(&perms); err != nil {
		badRequest(c, "permissions must be a JSON object")
		return
	}

	updated, err := h.agents.ReplacePermissions(c.Request.Context(), acc.WorkspaceID, agent.ID, perms)
	if err != nil {
		respondError(c, err, "failed to replace permissions")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentResponse(updated))
}

// SetPermission edits one rule such as ideas.promote or tickets.*.
func (h *AgentHandler) SetPermission(c *gin.Context) {
	acc, agent, ok := h.resolveAgent(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	var req dto.SetPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: path and level are required")
		return
	}

	updated, err := h.agents.SetPermission(c.Request.Context(), acc.WorkspaceID, agent.ID, req.Path, req.Level)
	if err != nil {
		respondError(c, err, "failed to set permission")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentResponse(updated))
}

// EffectivePermissions evaluates every known rule after autonomy caps.
func (h *AgentHandler) EffectivePermissions(c *gin.Context) {
	_, agent, ok := h.resolveAgent(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	decisions := make(map[string]model.Decision)
	for _, r := range ladder.Resources() {
		for _, a := range ladder.Actions(r) {
			decisions[string(r)+"."+string(a)] = ladder.Evaluate(agent, r, a)
		}
	}

	c.JSON(http.StatusOK, dto.EffectivePermissionsResponse{
		AgentID:       agent.ID,
		AutonomyLevel: agent.AutonomyLevel,
		Decisions:     decisions,
	})
}

func (h *AgentHandler) Chat(c *gin.Context) {
	acc, agent, ok := h.resolveAgent(c, model.WorkspaceRoleMember, model.ScopeAgents)
	if !ok {
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: message is required")
		return
	}

	result, err := h.chat.Chat(c.Request.Context(), service.ChatParams{
		Agent:   agent,
		UserID:  acc.UserID(),
		Message: req.Message,
	})
	if err != nil {
		respondError(c, err, "failed to chat with agent")
		return
	}

	c.JSON(http.StatusOK, dto.ToChatResponse(result))
}

// Propose routes one action through the permission ladder without a chat
// turn. Only admins may drive an agent directly.
func (h *AgentHandler) Propose(c *gin.Context) {
	acc, agent, ok := h.resolveAgent(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	var req dto.ProposeActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: action and payload are required")
		return
	}

	outcome, err := h.architect.Propose(c.Request.Context(), service.Proposal{
		Agent:       agent,
		Action:      req.Action,
		Payload:     req.Payload,
		Rationale:   req.Rationale,
		RequestedBy: acc.UserID(),
	})
	if err != nil {
		respondError(c, err, "failed to propose action")
		return
	}

	resp := dto.OutcomeResponse{Decision: outcome.Decision, Result: outcome.Result}
	status := http.StatusOK
	if outcome.Request != nil {
		r := dto.ToAgentRequestResponse(outcome.Request)
		resp.Request = &r
	}
	if outcome.Decision == model.DecisionApproval {
		status = http.StatusAccepted
	}
	c.JSON(status, resp)
}

func (h *AgentHandler) ListMemory(c *gin.Context) {
	_, agent, ok := h.resolveAgent(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	var kind *model.MemoryKind
	if raw := c.Query("kind"); raw != "" {
		k := model.MemoryKind(raw)
		if !k.IsValid() {
			badRequest(c, "invalid kind filter")
			return
		}
		kind = &k
	}

	entries, err := h.memory.List(c.Request.Context(), agent, kind, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list memory")
		return
	}

	c.JSON(http.StatusOK, dto.ToMemoryEntryResponses(entries))
}

func (h *AgentHandler) AddFact(c *gin.Context) {
	_, agent, ok := h.resolveAgent(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}

	var req dto.AddFactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: content is required")
		return
	}

	entry, err := h.memory.AddFact(c.Request.Context(), agent, req.Content)
	if err != nil {
		respondError(c, err, "failed to add fact")
		return
	}

	c.JSON(http.StatusCreated, dto.ToMemoryEntryResponse(entry))
}

func (h *AgentHandler) DeleteMemory(c *gin.Context) {
	_, agent, ok := h.resolveAgent(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	entryID, ok := parseID(c, "entry")
	if !ok {
		return
	}

	if err := h.memory.Delete(c.Request.Context(), agent, entryID); err != nil {
		respondError(c, err, "failed to delete memory entry")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AgentHandler) ClearMemory(c *gin.Context) {
	_, agent, ok := h.resolveAgent(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	n, err := h.memory.Clear(c.Request.Context(), agent)
	if err != nil {
		respondError(c, err, "failed to clear memory")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// Mirror queues a memory condensation pass for the worker.
func (h *AgentHandler) Mirror(c *gin.Context) {
	_, agent, ok := h.resolveAgent(c, model.WorkspaceRoleMember, model.ScopeAgents)
	if !ok {
		return
	}

	if err := h.memory.RequestMirror(c.Request.Context(), agent); err != nil {
		respondError(c, err, "failed to queue mirror")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
