package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

type contextKey string

const (
	SessionCookieName = "cerebrin_session"
	SessionIDHeader   = "X-Session-ID"

	principalContextKey contextKey = "principal"
)

// Principal is the authenticated caller. Session principals act with the
// user's full membership; token principals are pinned to the token's
// workspace and limited to its scopes.
type Principal struct {
	User      *model.User
	SessionID int64
	Token     *model.AccessToken
}

// Allows reports whether the principal may use an endpoint needing scope.
// Sessions are unscoped. A write token may also read.
func (p *Principal) Allows(scope model.TokenScope) bool {
	if p.Token == nil {
		return true
	}
	if p.Token.HasScope(scope) {
		return true
	}
	return scope == model.ScopeRead && p.Token.HasScope(model.ScopeWrite)
}

// PinnedWorkspace returns the workspace a token principal is limited to.
func (p *Principal) PinnedWorkspace() (int64, bool) {
	if p.Token == nil {
		return 0, false
	}
	return p.Token.WorkspaceID, true
}

type Authenticator struct {
	auth   service.AuthService
	tokens service.AccessTokenService
	users  service.UserService
}

func NewAuthenticator(auth service.AuthService, tokens service.AccessTokenService, users service.UserService) *Authenticator {
	return &Authenticator{auth: auth, tokens: tokens, users: users}
}

// RequireAuth accepts the session cookie, the X-Session-ID header or an
// Authorization: Bearer cbr_ access token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		principal, err := a.resolve(c)
		if err != nil {
			switch {
			case errors.Is(err, errNoCredentials):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			case errors.Is(err, service.ErrSessionExpired), errors.Is(err, service.ErrUserNotFound):
				ClearSessionCookie(c, false)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			case errors.Is(err, service.ErrInvalidAccessToken), errors.Is(err, service.ErrAccessTokenRevoked):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			default:
				slog.ErrorContext(ctx, "failed to authenticate request", "error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			}
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuth sets the principal when valid credentials are present and
// otherwise lets the request through anonymously. Handlers behind it fall
// back to their own credential, such as a stream ticket.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := a.resolve(c)
		if err == nil {
			SetPrincipal(c, principal)
		} else if !errors.Is(err, errNoCredentials) {
			slog.DebugContext(c.Request.Context(), "ignoring invalid credentials", "error", err)
		}
		c.Next()
	}
}

var errNoCredentials = errors.New("no credentials")

func (a *Authenticator) resolve(c *gin.Context) (*Principal, error) {
	ctx := c.Request.Context()

	if bearer := bearerToken(c); bearer != "" {
		if a.tokens == nil {
			return nil, service.ErrInvalidAccessToken
		}
		token, err := a.tokens.Authenticate(ctx, bearer)
		if err != nil {
			return nil, err
		}
		user, err := a.users.Get(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				return nil, service.ErrInvalidAccessToken
			}
			return nil, err
		}
		return &Principal{User: user, Token: token}, nil
	}

	sessionID, ok := sessionIDFrom(c)
	if !ok {
		return nil, errNoCredentials
	}
	user, err := a.auth.ValidateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &Principal{User: user, SessionID: sessionID}, nil
}

// SetPrincipal stores p on both the gin and request contexts and tags the
// request's log context with the user id.
func SetPrincipal(c *gin.Context, p *Principal) {
	ctx := context.WithValue(c.Request.Context(), principalContextKey, p)
	ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: &p.User.ID})
	c.Request = c.Request.WithContext(ctx)
}

func GetPrincipal(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey).(*Principal)
	return p
}

func GetUser(ctx context.Context) *model.User {
	if p := GetPrincipal(ctx); p != nil {
		return p.User
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func sessionIDFrom(c *gin.Context) (int64, bool) {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		raw = c.GetHeader(SessionIDHeader)
	}
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SessionIDFrom exposes the cookie/header lookup to handlers that run
// outside RequireAuth, such as logout.
func SessionIDFrom(c *gin.Context) (int64, bool) {
	return sessionIDFrom(c)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
