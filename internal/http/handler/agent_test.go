package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/http/handler"
	"cerebrin.app/backend/internal/http/middleware"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
)

var _ = Describe("AgentHandler", func() {
	var (
		agents    *mockAgentService
		memory    *mockMemoryService
		chat      *mockChatService
		architect *mockArchitectService
		scout     *model.Agent
	)

	BeforeEach(func() {
		scout = &model.Agent{
			ID:            77,
			WorkspaceID:   10,
			Name:          "Scout",
			Slug:          "scout",
			AutonomyLevel: model.AutonomyAutopilot,
			Permissions:   json.RawMessage(`{"ideas":{"promote":"approval"},"tickets":{"*":"deny"}}`),
			IsActive:      true,
		}
		agents = &mockAgentService{agents: map[string]*model.Agent{"scout": scout, "77": scout}}
		memory = &mockMemoryService{}
		chat = &mockChatService{}
		architect = &mockArchitectService{}
	})

	route := func(p *middleware.Principal) *gin.Engine {
		workspaces := &mockWorkspaceService{roles: map[int64]model.WorkspaceRole{
			2: model.WorkspaceRoleMember,
			3: model.WorkspaceRoleAdmin,
		}}
		h := handler.NewAgentHandler(agents, memory, chat, architect, workspaces)

		r := gin.New()
		g := r.Group("/workspaces/:ws/agents/:agent", withPrincipal(p))
		g.GET("/permissions/effective", h.EffectivePermissions)
		g.POST("/chat", h.Chat)
		g.POST("/actions", h.Propose)
		g.POST("/mirror", h.Mirror)
		return r
	}

	Describe("EffectivePermissions", func() {
		It("evaluates every rule by slug", func() {
			w := doJSON(route(sessionPrincipal(2)), http.MethodGet, "/workspaces/10/agents/scout/permissions/effective", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			resp := decode(w)
			Expect(resp["agent_id"]).To(Equal("77"))
			decisions := resp["decisions"].(map[string]any)
			Expect(decisions).To(HaveKeyWithValue("ideas.promote", "approval"))
			Expect(decisions).To(HaveKeyWithValue("tickets.create", "deny"))
			Expect(decisions).To(HaveKey("documents.read"))
		})

		It("denies everything for an inactive agent", func() {
			scout.IsActive = false

			w := doJSON(route(sessionPrincipal(2)), http.MethodGet, "/workspaces/10/agents/77/permissions/effective", nil)

			Expect(w.Code).To(Equal(http.StatusOK))
			for _, d := range decode(w)["decisions"].(map[string]any) {
				Expect(d).To(Equal("deny"))
			}
		})

		It("returns 404 for an unknown agent", func() {
			w := doJSON(route(sessionPrincipal(2)), http.MethodGet, "/workspaces/10/agents/ghost/permissions/effective", nil)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("Chat", func() {
		It("passes the message and caller through", func() {
			chat.chatFn = func(_ context.Context, p service.ChatParams) (*service.ChatResult, error) {
				Expect(p.Agent.ID).To(Equal(int64(77)))
				Expect(*p.UserID).To(Equal(int64(2)))
				Expect(p.Message).To(Equal("draft a roadmap"))
				return &service.ChatResult{Reply: "On it."}, nil
			}

			w := doJSON(route(sessionPrincipal(2)), http.MethodPost, "/workspaces/10/agents/scout/chat", map[string]string{"message": "draft a roadmap"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)["reply"]).To(Equal("On it."))
		})

		It("requires the agents scope for tokens", func() {
			w := doJSON(route(tokenPrincipal(2, 10, model.ScopeWrite)), http.MethodPost, "/workspaces/10/agents/scout/chat", map[string]string{"message": "hi"})
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 503 when no model is configured", func() {
			chat.chatFn = func(context.Context, service.ChatParams) (*service.ChatResult, error) {
				return nil, service.ErrLLMUnavailable
			}

			w := doJSON(route(sessionPrincipal(2)), http.MethodPost, "/workspaces/10/agents/scout/chat", map[string]string{"message": "hi"})

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Describe("Propose", func() {
		It("returns 202 with the pending request when approval is needed", func() {
			architect.proposeFn = func(_ context.Context, p service.Proposal) (*service.Outcome, error) {
				Expect(p.Action).To(Equal(model.ActionIdeaPromote))
				return &service.Outcome{
					Decision: model.DecisionApproval,
					Request:  &model.AgentRequest{ID: 300, WorkspaceID: 10, AgentID: 77, Action: p.Action, Status: model.RequestStatusPending},
				}, nil
			}

			w := doJSON(route(sessionPrincipal(3)), http.MethodPost, "/workspaces/10/agents/scout/actions", map[string]any{
				"action":  "idea.promote",
				"payload": map[string]string{"idea_id": "5"},
			})

			Expect(w.Code).To(Equal(http.StatusAccepted))
			resp := decode(w)
			Expect(resp["decision"]).To(Equal("approval"))
			Expect(resp["request"].(map[string]any)["status"]).To(Equal("pending"))
		})

		It("returns 403 when the ladder denies the action", func() {
			architect.proposeFn = func(context.Context, service.Proposal) (*service.Outcome, error) {
				return nil, service.ErrActionDenied
			}

			w := doJSON(route(sessionPrincipal(3)), http.MethodPost, "/workspaces/10/agents/scout/actions", map[string]any{
				"action":  "ticket.create",
				"payload": map[string]string{"subject": "x"},
			})

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(decode(w)["code"]).To(Equal("action_denied"))
		})

		It("rejects members before reaching the architect", func() {
			called := false
			architect.proposeFn = func(context.Context, service.Proposal) (*service.Outcome, error) {
				called = true
				return &service.Outcome{Decision: model.DecisionAllow}, nil
			}

			w := doJSON(route(sessionPrincipal(2)), http.MethodPost, "/workspaces/10/agents/scout/actions", map[string]any{
				"action":  "document.delete",
				"payload": map[string]string{"document_id": "9"},
			})

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(called).To(BeFalse())
		})

		It("requires the admin scope for tokens", func() {
			w := doJSON(route(tokenPrincipal(3, 10, model.ScopeAgents)), http.MethodPost, "/workspaces/10/agents/scout/actions", map[string]any{
				"action":  "document.delete",
				"payload": map[string]string{"document_id": "9"},
			})

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("returns 422 when a referenced record is missing", func() {
			architect.proposeFn = func(context.Context, service.Proposal) (*service.Outcome, error) {
				return nil, fmt.Errorf("%w: %w", service.ErrInvalidPayload, service.ErrIdeaNotFound)
			}

			w := doJSON(route(sessionPrincipal(3)), http.MethodPost, "/workspaces/10/agents/scout/actions", map[string]any{
				"action":  "idea.promote",
				"payload": map[string]string{"idea_id": "404"},
			})

			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(decode(w)["code"]).To(Equal("invalid_payload"))
		})
	})

	It("queues a mirror pass", func() {
		w := doJSON(route(sessionPrincipal(2)), http.MethodPost, "/workspaces/10/agents/scout/mirror", nil)

		Expect(w.Code).To(Equal(http.StatusAccepted))
		Expect(memory.mirrorRequested).To(BeTrue())
	})
})
