package handler

import (
	"net/http"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type AccessTokenHandler struct {
	guard  workspaceGuard
	tokens service.AccessTokenService
}

func NewAccessTokenHandler(tokens service.AccessTokenService, workspaces service.WorkspaceService) *AccessTokenHandler {
	return &AccessTokenHandler{
		guard:  workspaceGuard{workspaces: workspaces},
		tokens: tokens,
	}
}

// Create returns the plaintext token exactly once.
func (h *AccessTokenHandler) Create(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	var req dto.CreateAccessTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: name and scopes are required")
		return
	}

	tok, plaintext, err := h.tokens.Create(c.Request.Context(), service.CreateAccessTokenParams{
		WorkspaceID:   acc.WorkspaceID,
		UserID:        acc.User.ID,
		Name:          req.Name,
		Scopes:        req.Scopes,
		ExpiresInDays: req.ExpiresInDays,
	})
	if err != nil {
		respondError(c, err, "failed to create access token")
		return
	}

	c.JSON(http.StatusCreated, dto.CreatedAccessTokenResponse{
		AccessTokenResponse: dto.ToAccessTokenResponse(tok),
		Token:               plaintext,
	})
}

func (h *AccessTokenHandler) List(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}

	tokens, err := h.tokens.List(c.Request.Context(), acc.WorkspaceID)
	if err != nil {
		respondError(c, err, "failed to list access tokens")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccessTokenResponses(tokens))
}

func (h *AccessTokenHandler) Revoke(c *gin.Context) {
	acc, ok := h.guard.authorize(c, model.WorkspaceRoleAdmin, model.ScopeAdmin)
	if !ok {
		return
	}
	tokenID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tok, err := h.tokens.Revoke(c.Request.Context(), acc.WorkspaceID, tokenID)
	if err != nil {
		respondError(c, err, "failed to revoke access token")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccessTokenResponse(tok))
}
