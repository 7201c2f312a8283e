package handler

import (
	"net/http"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler serves the operator console. Every route sits behind the
// admin API key and reaches across workspaces.
type AdminHandler struct {
	admin      service.AdminService
	workspaces service.WorkspaceService
	tickets    service.TicketService
	architect  service.ArchitectService
}

func NewAdminHandler(
	admin service.AdminService,
	workspaces service.WorkspaceService,
	tickets service.TicketService,
	architect service.ArchitectService,
) *AdminHandler {
	return &AdminHandler{
		admin:      admin,
		workspaces: workspaces,
		tickets:    tickets,
		architect:  architect,
	}
}

func (h *AdminHandler) Overview(c *gin.Context) {
	overview, err := h.admin.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to load overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *AdminHandler) ListWorkspaces(c *gin.Context) {
	limit, offset := pagination(c)

	workspaces, err := h.workspaces.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "failed to list workspaces")
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponses(workspaces))
}

func (h *AdminHandler) ListTickets(c *gin.Context) {
	filter, ok := ticketFilter(c)
	if !ok {
		return
	}
	if raw := c.Query("workspace_id"); raw != "" {
		wsID, _, err := parseOptionalID(&raw)
		if err != nil {
			badRequest(c, "invalid workspace_id")
			return
		}
		filter.WorkspaceID = wsID
	}

	tickets, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "failed to list tickets")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponses(tickets))
}

func (h *AdminHandler) GetTicket(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.tickets.Get(c.Request.Context(), nil, ticketID)
	if err != nil {
		respondError(c, err, "failed to get ticket")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *AdminHandler) TransitionTicket(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: status is required")
		return
	}

	ticket, err := h.tickets.Transition(c.Request.Context(), nil, ticketID, req.Status, nil)
	if err != nil {
		respondError(c, err, "failed to transition ticket")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *AdminHandler) AssignTicket(c *gin.Context) {
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

	ticket, err := h.tickets.Assign(c.Request.Context(), nil, ticketID, assignee)
	if err != nil {
		respondError(c, err, "failed to assign ticket")
		return
	}

	c.JSON(http.StatusOK, dto.ToTicketResponse(ticket))
}

func (h *AdminHandler) ListPendingRequests(c *gin.Context) {
	limit, offset := pagination(c)

	requests, err := h.architect.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err, "failed to list pending requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToAgentRequestResponses(requests))
}
