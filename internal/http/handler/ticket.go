package handler

import (
	"net/http"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	guard   workspaceGuard
	tickets service.TicketService
}

func NewTicketHandler(tickets service.TicketService, workspaces service.WorkspaceService) *TicketHandler {
	return &TicketHandler{
		guard:   workspaceGuard{workspaces: workspaces},
		tickets: tickets,
	}
}

func (h *TicketHandler) Create(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: subject is required")
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), service.CreateTicketParams{
		WorkspaceID:    acc.WorkspaceID,
		Subject:        req.Subject,
		Body:           req.Body,
		Priority:       req.Priority,
		ReporterUserID: acc.UserID(),
	})
	if err != nil {
		respondError(c, err, "failed to create ticket")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) List(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}

	filter, ok := ticketFilter(c)
	if !ok {
		return
	}
	filter.WorkspaceID = &acc.WorkspaceID

	tickets, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponses(tickets))
}

func (h *TicketHandler) Get(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleViewer, model.ScopeRead)
	if !ok {
		return
	}
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.tickets.Get(c.Request.Context(), &acc.WorkspaceID, ticketID)
	if err != nil {
		respondError(c, err, "failed to get ticket")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) Update(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	assignee, clearAssignee, err := parseOptionalID(req.AssigneeID)
	if err != nil {
		badRequest(c, "invalid assignee_user_id")
		return
	}

	ticket, err := h.tickets.Update(c.Request.Context(), acc.WorkspaceID, ticketID, service.UpdateTicketParams{
		Subject:        req.Subject,
		Body:           req.Body,
		Priority:       req.Priority,
		AssigneeUserID: assignee,
		ClearAssignee:  clearAssignee,
	})
	if err != nil {
		respondError(c, err, "failed to update ticket")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) Transition(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: status is required")
		return
	}

	ticket, err := h.tickets.Transition(c.Request.Context(), &acc.WorkspaceID, ticketID, req.Status, acc.UserID())
	if err != nil {
		respondError(c, err, "failed to transition ticket")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *TicketHandler) Assign(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleMember, model.ScopeWrite)
	if !ok {
		return
	}
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	assignee, _, err := parseOptionalID(req.AssigneeID)
	if err != nil {
		badRequest(c, "invalid assignee_user_id")
		return
	}

	ticket, err := h.tickets.Assign(c.Request.Context(), &acc.WorkspaceID, ticketID, assignee)
	if err != nil {
		respondError(c, err, "failed to assign ticket")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

// ticketFilter reads ?status, ?priority and pagination.
func ticketFilter(c *gin.Context) (store.TicketFilter, bool) {
	limit, offset := pagination(c)
	filter := store.TicketFilter{Limit: limit, Offset: offset}

	if raw := c.Query("status"); raw != "" {
		s := model.TicketStatus(raw)
		if !s.IsValid() {
			badRequest(c, "invalid status filter")
			return filter, false
		}
		filter.Status = &s
	}
	if raw := c.Query("priority"); raw != "" {
		p := model.TicketPriority(raw)
		if !p.IsValid() {
			badRequest(c, "invalid priority filter")
			return filter, false
		}
		filter.Priority = &p
	}
	return filter, true
}
