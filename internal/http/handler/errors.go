package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cerebrin.app/backend/internal/ladder"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err    error
	status int
	code   string
}

// Order matters: wrapped errors are matched against the first entry that
// fits, so ErrApplyFailed and ErrInvalidPayload precede the not-found and
// validation errors they may wrap.
var errorMappings = []errorMapping{
	{service.ErrApplyFailed, http.StatusUnprocessableEntity, "apply_failed"},
	{service.ErrInvalidPayload, http.StatusUnprocessableEntity, "invalid_payload"},

	{service.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{service.ErrInvalidName, http.StatusBadRequest, "invalid_name"},
	{service.ErrInvalidRole, http.StatusBadRequest, "invalid_role"},
	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{service.ErrInvalidKind, http.StatusBadRequest, "invalid_kind"},
	{service.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{service.ErrEmptyQuery, http.StatusBadRequest, "empty_query"},
	{service.ErrInvalidStage, http.StatusBadRequest, "invalid_stage"},
	{service.ErrInvalidAutonomy, http.StatusBadRequest, "invalid_autonomy"},
	{service.ErrInvalidMemoryKind, http.StatusBadRequest, "invalid_memory_kind"},
	{service.ErrInvalidTicketStatus, http.StatusBadRequest, "invalid_ticket_status"},
	{service.ErrInvalidPriority, http.StatusBadRequest, "invalid_priority"},
	{service.ErrInvalidScopes, http.StatusBadRequest, "invalid_scopes"},
	{service.ErrEmptyMessage, http.StatusBadRequest, "empty_message"},
	{ladder.ErrUnknownRule, http.StatusBadRequest, "unknown_rule"},
	{ladder.ErrInvalidLevel, http.StatusBadRequest, "invalid_level"},
	{ladder.ErrInvalidPermissions, http.StatusBadRequest, "invalid_permissions"},

	{service.ErrInvalidAccessToken, http.StatusUnauthorized, "invalid_token"},
	{service.ErrAccessTokenRevoked, http.StatusUnauthorized, "token_revoked"},
	{service.ErrInvalidStreamTicket, http.StatusUnauthorized, "invalid_stream_ticket"},
	{service.ErrSessionExpired, http.StatusUnauthorized, "session_expired"},

	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrActionDenied, http.StatusForbidden, "action_denied"},
	{service.ErrEmailMismatch, http.StatusForbidden, "email_mismatch"},

	{service.ErrWorkspaceNotFound, http.StatusNotFound, "workspace_not_found"},
	{service.ErrMemberNotFound, http.StatusNotFound, "member_not_found"},
	{service.ErrInviteNotFound, http.StatusNotFound, "invite_not_found"},
	{service.ErrDocumentNotFound, http.StatusNotFound, "document_not_found"},
	{service.ErrIdeaNotFound, http.StatusNotFound, "idea_not_found"},
	{service.ErrAgentNotFound, http.StatusNotFound, "agent_not_found"},
	{service.ErrRequestNotFound, http.StatusNotFound, "request_not_found"},
	{service.ErrMemoryNotFound, http.StatusNotFound, "memory_not_found"},
	{service.ErrTicketNotFound, http.StatusNotFound, "ticket_not_found"},
	{service.ErrNotificationNotFound, http.StatusNotFound, "notification_not_found"},
	{service.ErrTokenNotFound, http.StatusNotFound, "token_not_found"},
	{service.ErrUserNotFound, http.StatusNotFound, "user_not_found"},

	{service.ErrInvitePendingExists, http.StatusConflict, "invite_pending"},
	{service.ErrStageConflict, http.StatusConflict, "stage_conflict"},
	{service.ErrIdeaAlreadyPromoted, http.StatusConflict, "already_promoted"},
	{service.ErrRequestAlreadyDecided, http.StatusConflict, "already_decided"},
	{service.ErrTicketStatusConflict, http.StatusConflict, "status_conflict"},
	{service.ErrAgentInactive, http.StatusConflict, "agent_inactive"},
	{service.ErrLastOwner, http.StatusConflict, "last_owner"},
	{service.ErrCannotRemoveOwner, http.StatusConflict, "cannot_remove_owner"},
	{store.ErrConflict, http.StatusConflict, "conflict"},

	{service.ErrInviteExpired, http.StatusGone, "invite_expired"},
	{service.ErrInviteAlreadyUsed, http.StatusGone, "invite_used"},
	{service.ErrInviteRevoked, http.StatusGone, "invite_revoked"},
	{service.ErrRequestExpired, http.StatusGone, "request_expired"},

	{service.ErrInvalidTransition, http.StatusUnprocessableEntity, "invalid_transition"},
	{service.ErrIdeaArchived, http.StatusUnprocessableEntity, "idea_archived"},
	{service.ErrInvalidTicketMove, http.StatusUnprocessableEntity, "invalid_transition"},
	{service.ErrUnknownAction, http.StatusUnprocessableEntity, "unknown_action"},
	{service.ErrAssigneeNotInWorkspace, http.StatusUnprocessableEntity, "assignee_not_member"},

	{service.ErrLLMUnavailable, http.StatusServiceUnavailable, "llm_unavailable"},
	{service.ErrQueueUnavailable, http.StatusServiceUnavailable, "queue_unavailable"},
}

// lookupError returns the mapping for err, or a 500 mapping when err is
// not a known service error.
func lookupError(err error) errorMapping {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m
		}
	}
	return errorMapping{status: http.StatusInternalServerError, code: "internal"}
}

// detailed errors carry the offending field in their wrapped message.
var detailed = []error{
	service.ErrInvalidPayload,
	service.ErrApplyFailed,
	ladder.ErrUnknownRule,
	ladder.ErrInvalidPermissions,
}

// respondError writes the mapped error. Unmapped errors are logged and the
// client only sees fallback.
func respondError(c *gin.Context, err error, fallback string) {
	m := lookupError(err)
	if m.err == nil {
		slog.ErrorContext(c.Request.Context(), fallback, "error", err)
		c.JSON(m.status, gin.H{"error": fallback, "code": m.code})
		return
	}

	msg := m.err.Error()
	for _, d := range detailed {
		if errors.Is(err, d) {
			msg = err.Error()
			break
		}
	}
	c.JSON(m.status, gin.H{"error": msg, "code": m.code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": "invalid_request"})
}
