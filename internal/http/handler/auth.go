package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/http/middleware"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	stateCookieName  = "cerebrin_oauth_state"
	inviteCookieName = "cerebrin_invite"
	stateMaxAge      = 600
)

type AuthHandler struct {
	authService  service.AuthService
	userService  service.UserService
	dashboardURL string
	isProduction bool
	sessionTTL   time.Duration
}

func NewAuthHandler(
	authService service.AuthService,
	userService service.UserService,
	dashboardURL string,
	isProduction bool,
	sessionTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		userService:  userService,
		dashboardURL: dashboardURL,
		isProduction: isProduction,
		sessionTTL:   sessionTTL,
	}
}

// Login redirects to WorkOS AuthKit. An invite_token query parameter is
// carried through the round trip so the callback can resume acceptance.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to generate state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login"})
		return
	}

	authURL, err := h.authService.GetAuthorizationURL(state)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to get authorization URL", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login"})
		return
	}

	c.SetCookie(stateCookieName, state, stateMaxAge, "/", "", h.isProduction, true)
	if token := c.Query("invite_token"); token != "" {
		c.SetCookie(inviteCookieName, token, stateMaxAge, "/", "", h.isProduction, true)
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	state := c.Query("state")
	errorParam := c.Query("error")

	if errorParam != "" {
		slog.WarnContext(ctx, "OAuth error", "error", errorParam, "description", c.Query("error_description"))
		h.redirectWithError(c, errorParam)
		return
	}

	storedState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != storedState {
		slog.WarnContext(ctx, "state mismatch")
		h.redirectWithError(c, "invalid_state")
		return
	}
	h.clearCookie(c, stateCookieName)

	if code == "" {
		h.redirectWithError(c, "no_code")
		return
	}

	user, session, err := h.authService.HandleCallback(ctx, code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			slog.WarnContext(ctx, "invalid authorization code", "error", err)
			h.redirectWithError(c, "invalid_code")
			return
		}
		slog.ErrorContext(ctx, "failed to handle callback", "error", err)
		h.redirectWithError(c, "callback_failed")
		return
	}

	c.SetCookie(
		middleware.SessionCookieName,
		strconv.FormatInt(session.ID, 10),
		int(h.sessionTTL.Seconds()),
		"/",
		"",
		h.isProduction,
		true,
	)

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)

	if invite, err := c.Cookie(inviteCookieName); err == nil && invite != "" {
		h.clearCookie(c, inviteCookieName)
		c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"/invite?token="+url.QueryEscape(invite))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID, ok := middleware.SessionIDFrom(c); ok {
		if err := h.authService.Logout(ctx, sessionID); err != nil {
			slog.WarnContext(ctx, "failed to delete session", "error", err, "session_id", sessionID)
		}
	}

	middleware.ClearSessionCookie(c, h.isProduction)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the caller with every workspace they belong to. Token callers
// also see which workspace and scopes the token is limited to.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	principal := middleware.GetPrincipal(ctx)

	user, workspaces, err := h.userService.Me(ctx, principal.User.ID)
	if err != nil {
		respondError(c, err, "failed to load user")
		return
	}

	resp := dto.MeResponse{
		User:       dto.ToUserResponse(user),
		Workspaces: dto.ToWorkspaceWithRoleResponses(workspaces),
	}
	if principal.Token != nil {
		resp.TokenWorkspaceID = &principal.Token.WorkspaceID
		resp.TokenScopes = principal.Token.Scopes
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) redirectWithError(c *gin.Context, code string) {
	c.Redirect(http.StatusTemporaryRedirect, h.dashboardURL+"?auth_error="+url.QueryEscape(code))
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", h.isProduction, true)
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
