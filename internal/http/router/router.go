package router

import (
	"time"

	"cerebrin.app/backend/internal/http/handler"
	"cerebrin.app/backend/internal/http/middleware"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterConfig struct {
	DashboardURL       string
	IsProduction       bool
	AdminAPIKey        string
	SessionTTL         time.Duration
	Metrics            bool
	NotificationPrefix string
	Redis              *redis.Client
	Health             map[string]handler.Pinger
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	health := handler.NewHealthHandler(cfg.Health)
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)

	if cfg.Metrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	authn := middleware.NewAuthenticator(services.Auth(), services.AccessTokens(), services.Users())
	requireAuth := authn.RequireAuth()

	authHandler := handler.NewAuthHandler(services.Auth(), services.Users(), cfg.DashboardURL, cfg.IsProduction, cfg.SessionTTL)
	AuthRouter(router.Group("/auth"), authHandler, requireAuth)

	invitationHandler := handler.NewInvitationHandler(services.Invitations(), services.Workspaces())
	notificationHandler := handler.NewNotificationHandler(services.Notifications(), services.StreamTickets(), cfg.Redis, cfg.NotificationPrefix)

	v1 := router.Group("/api/v1")
	{
		// The dashboard previews an invite before sign-in. EventSource
		// cannot set headers, so the stream also takes a ticket.
		v1.GET("/invitations/validate", invitationHandler.Validate)
		v1.GET("/notifications/stream", authn.OptionalAuth(), notificationHandler.Stream)

		authed := v1.Group("")
		authed.Use(requireAuth)

		authed.POST("/invitations/accept", invitationHandler.Accept)
		NotificationRouter(authed.Group("/notifications"), notificationHandler)

		WorkspaceRouter(authed.Group("/workspaces"), WorkspaceHandlers{
			Workspaces:    handler.NewWorkspaceHandler(services.Workspaces()),
			Invitations:   invitationHandler,
			Documents:     handler.NewDocumentHandler(services.Documents(), services.Workspaces()),
			Ideas:         handler.NewIdeaHandler(services.Ideas(), services.Workspaces()),
			Agents:        handler.NewAgentHandler(services.Agents(), services.Memory(), services.Chat(), services.Architect(), services.Workspaces()),
			AgentRequests: handler.NewAgentRequestHandler(services.Architect(), services.Workspaces()),
			Tickets:       handler.NewTicketHandler(services.Tickets(), services.Workspaces()),
			AccessTokens:  handler.NewAccessTokenHandler(services.AccessTokens(), services.Workspaces()),
		})
	}

	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdminAPIKey(cfg.AdminAPIKey))
	AdminRouter(admin, handler.NewAdminHandler(services.Admin(), services.Workspaces(), services.Tickets(), services.Architect()))
}
