package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type InvitationHandler struct {
	guard      workspaceGuard
	invService service.InvitationService
}

func NewInvitationHandler(invService service.InvitationService, workspaces service.WorkspaceService) *InvitationHandler {
	return &InvitationHandler{
		guard:      workspaceGuard{workspaces: workspaces},
		invService: invService,
	}
}

// Create invites an email address into the workspace (admin+).
func (h *InvitationHandler) Create(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req dto.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: email is required")
		return
	}

	inv, inviteURL, err := h.invService.Create(ctx, acc.WorkspaceID, req.Email, req.Role, acc.User.ID)
	if err != nil {
		respondError(c, err, "failed to create invitation")
		return
	}

	slog.InfoContext(ctx, "invitation created", "invitation_id", inv.ID, "role", inv.Role)

	resp := dto.ToInvitationResponse(inv)
	resp.InviteURL = inviteURL
	c.JSON(http.StatusCreated, resp)
}

func (h *InvitationHandler) List(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	invitations, err := h.invService.List(c.Request.Context(), acc.WorkspaceID, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list invitations")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationResponses(invitations))
}

func (h *InvitationHandler) Revoke(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}
	invID, ok := parseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invService.Revoke(c.Request.Context(), acc.WorkspaceID, invID)
	if err != nil {
		respondError(c, err, "failed to revoke invitation")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationResponse(inv))
}

// Validate is public: the invite page calls it before the user signs in.
func (h *InvitationHandler) Validate(c *gin.Context) {
	ctx := c.Request.Context()

	token := c.Query("token")
	if token == "" {
		badRequest(c, "token is required")
		return
	}

	inv, err := h.invService.ValidateToken(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found", "code": "not_found"})
		case errors.Is(err, service.ErrInviteExpired):
			c.JSON(http.StatusGone, gin.H{"error": "invitation has expired", "code": "expired"})
		case errors.Is(err, service.ErrInviteAlreadyUsed):
			c.JSON(http.StatusGone, gin.H{"error": "invitation has already been used", "code": "already_used"})
		case errors.Is(err, service.ErrInviteRevoked):
			c.JSON(http.StatusGone, gin.H{"error": "invitation has been revoked", "code": "revoked"})
		default:
			slog.ErrorContext(ctx, "failed to validate invitation", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to validate invitation"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.InvitationPreview{
		Email:       inv.Email,
		Role:        inv.Role,
		WorkspaceID: inv.WorkspaceID,
		ExpiresAt:   inv.ExpiresAt,
	})
}

// Accept joins the signed-in user to the inviting workspace.
func (h *InvitationHandler) Accept(c *gin.Context) {
	if principalOf(c).Token != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "invitations must be accepted with a session", "code": "insufficient_scope"})
		return
	}

	var req dto.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: token is required")
		return
	}

	inv, err := h.invService.Accept(c.Request.Context(), req.Token, currentUser(c))
	if err != nil {
		respondError(c, err, "failed to accept invitation")
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationResponse(inv))
}
