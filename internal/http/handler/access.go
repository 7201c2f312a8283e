package handler

import (
	"net/http"
	"strconv"

	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/http/middleware"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// access is the resolved caller for a workspace-scoped request.
type access struct {
	WorkspaceID int64
	User        *model.User
	Member      *model.WorkspaceMember
	Principal   *middleware.Principal
}

func (a *access) UserID() *int64 {
	return &a.User.ID
}

// workspaceGuard checks membership, role and token scope for :ws routes.
type workspaceGuard struct {
	workspaces service.WorkspaceService
}

// authorize writes the error response itself and returns false when the
// caller may not proceed. Tokens pinned to another workspace see 404, the
// same as non-members.
func (g workspaceGuard) authorize(c *gin.Context, minRole model.WorkspaceRole, scope model.TokenScope) (*access, bool) {
	principal := middleware.GetPrincipal(c.Request.Context())
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, false
	}

	wsID, ok := parseID(c, "ws")
	if !ok {
		return nil, false
	}

	if pinned, ok := principal.PinnedWorkspace(); ok && pinned != wsID {
		respondError(c, service.ErrWorkspaceNotFound, "")
		return nil, false
	}
	if !principal.Allows(scope) {
		c.JSON(http.StatusForbidden, gin.H{"error": "token lacks the " + string(scope) + " scope", "code": "insufficient_scope"})
		return nil, false
	}

	member, err := g.workspaces.RequireMember(c.Request.Context(), wsID, principal.User.ID, minRole)
	if err != nil {
		respondError(c, err, "failed to check workspace access")
		return nil, false
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{WorkspaceID: &wsID})
	c.Request = c.Request.WithContext(ctx)

	return &access{
		WorkspaceID: wsID,
		User:        principal.User,
		Member:      member,
		Principal:   principal,
	}, true
}

// parseID reads a snowflake path parameter, writing 400 when malformed.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name+" id")
		return 0, false
	}
	return id, true
}

// parseOptionalID parses a string id from a JSON body. nil and "" are absent.
func parseOptionalID(raw *string) (*int64, bool, error) {
	if raw == nil || *raw == "" {
		return nil, raw != nil, nil
	}
	id, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false, service.ErrInvalidInput
	}
	return &id, false, nil
}

func pagination(c *gin.Context) (limit, offset int32) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil && n > 0 {
			limit = int32(min(n, maxPageSize))
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil && n > 0 {
			offset = int32(n)
		}
	}
	return limit, offset
}

func currentUser(c *gin.Context) *model.User {
	return middleware.GetUser(c.Request.Context())
}

func principalOf(c *gin.Context) *middleware.Principal {
	return middleware.GetPrincipal(c.Request.Context())
}
