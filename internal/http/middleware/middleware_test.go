package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/http/middleware"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
)

type stubAuth struct {
	service.AuthService
	users map[int64]*model.User
}

func (s *stubAuth) ValidateSession(_ context.Context, sessionID int64) (*model.User, error) {
	if u, ok := s.users[sessionID]; ok {
		return u, nil
	}
	return nil, service.ErrSessionExpired
}

type stubTokens struct {
	service.AccessTokenService
	tokens map[string]*model.AccessToken
}

func (s *stubTokens) Authenticate(_ context.Context, plaintext string) (*model.AccessToken, error) {
	if t, ok := s.tokens[plaintext]; ok {
		return t, nil
	}
	return nil, service.ErrInvalidAccessToken
}

type stubUsers struct {
	service.UserService
	users map[int64]*model.User
}

func (s *stubUsers) Get(_ context.Context, id int64) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, service.ErrUserNotFound
}

var _ = Describe("RequireAuth", func() {
	var (
		router *gin.Engine
		alice  *model.User
	)

	BeforeEach(func() {
		alice = &model.User{ID: 7, Name: "Alice", Email: "alice@example.com"}
		auth := middleware.NewAuthenticator(
			&stubAuth{users: map[int64]*model.User{100: alice}},
			&stubTokens{tokens: map[string]*model.AccessToken{
				"cbr_good": {ID: 1, WorkspaceID: 55, UserID: 7, Scopes: []model.TokenScope{model.ScopeWrite}},
			}},
			&stubUsers{users: map[int64]*model.User{7: alice}},
		)

		router = gin.New()
		router.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
			p := middleware.GetPrincipal(c.Request.Context())
			ws, pinned := p.PinnedWorkspace()
			c.JSON(http.StatusOK, gin.H{
				"user":       p.User.ID,
				"pinned":     pinned,
				"workspace":  ws,
				"can_read":   p.Allows(model.ScopeRead),
				"can_agents": p.Allows(model.ScopeAgents),
			})
		})
	})

	get := func(mutate func(*http.Request)) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		mutate(req)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w, body
	}

	It("accepts the session cookie", func() {
		w, body := get(func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "100"})
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(body["user"]).To(BeEquivalentTo(7))
		Expect(body["pinned"]).To(BeFalse())
		Expect(body["can_agents"]).To(BeTrue())
	})

	It("accepts the session header", func() {
		w, _ := get(func(r *http.Request) { r.Header.Set(middleware.SessionIDHeader, "100") })

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("pins bearer tokens to their workspace and scopes", func() {
		w, body := get(func(r *http.Request) { r.Header.Set("Authorization", "Bearer cbr_good") })

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(body["pinned"]).To(BeTrue())
		Expect(body["workspace"]).To(BeEquivalentTo(55))
		Expect(body["can_read"]).To(BeTrue())
		Expect(body["can_agents"]).To(BeFalse())
	})

	It("rejects an unknown bearer token", func() {
		w, _ := get(func(r *http.Request) { r.Header.Set("Authorization", "Bearer cbr_nope") })

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("clears the cookie for an expired session", func() {
		w, body := get(func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "999"})
		})

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(body["error"]).To(Equal("session expired"))
		Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring(middleware.SessionCookieName + "="))
	})

	It("rejects requests without credentials", func() {
		w, _ := get(func(*http.Request) {})

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("OptionalAuth", func() {
	var router *gin.Engine

	BeforeEach(func() {
		alice := &model.User{ID: 7, Name: "Alice", Email: "alice@example.com"}
		auth := middleware.NewAuthenticator(
			&stubAuth{users: map[int64]*model.User{100: alice}},
			&stubTokens{},
			&stubUsers{users: map[int64]*model.User{7: alice}},
		)

		router = gin.New()
		router.GET("/stream", auth.OptionalAuth(), func(c *gin.Context) {
			user := middleware.GetUser(c.Request.Context())
			if user == nil {
				c.JSON(http.StatusOK, gin.H{"anonymous": true})
				return
			}
			c.JSON(http.StatusOK, gin.H{"user": user.ID})
		})
	})

	serve := func(r *http.Request) map[string]any {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	It("sets the principal for a valid session", func() {
		req := httptest.NewRequest(http.MethodGet, "/stream", nil)
		req.Header.Set(middleware.SessionIDHeader, "100")

		Expect(serve(req)["user"]).To(BeEquivalentTo(7))
	})

	It("continues anonymously on missing or invalid credentials", func() {
		Expect(serve(httptest.NewRequest(http.MethodGet, "/stream", nil))["anonymous"]).To(BeTrue())

		req := httptest.NewRequest(http.MethodGet, "/stream", nil)
		req.Header.Set(middleware.SessionIDHeader, "999")
		Expect(serve(req)["anonymous"]).To(BeTrue())
	})
})

var _ = Describe("RequireAdminAPIKey", func() {
	newRouter := func(key string) *gin.Engine {
		r := gin.New()
		r.GET("/admin", middleware.RequireAdminAPIKey(key), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	DescribeTable("key checks",
		func(configured, header, bearer string, want int) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if header != "" {
				req.Header.Set(middleware.AdminAPIKeyHeader, header)
			}
			if bearer != "" {
				req.Header.Set("Authorization", "Bearer "+bearer)
			}
			w := httptest.NewRecorder()
			newRouter(configured).ServeHTTP(w, req)
			Expect(w.Code).To(Equal(want))
		},
		Entry("header match", "secret", "secret", "", http.StatusNoContent),
		Entry("bearer match", "secret", "", "secret", http.StatusNoContent),
		Entry("wrong key", "secret", "guess", "", http.StatusUnauthorized),
		Entry("missing key", "secret", "", "", http.StatusUnauthorized),
		Entry("console disabled", "", "secret", "", http.StatusServiceUnavailable),
	)
})

var _ = Describe("RequestID", func() {
	It("echoes a supplied id and generates one otherwise", func() {
		r := gin.New()
		r.Use(middleware.RequestID())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("abc-123"))

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(HaveLen(36))
	})
})

var _ = Describe("Recovery", func() {
	It("converts a panic into a 500", func() {
		r := gin.New()
		r.Use(middleware.Recovery())
		r.GET("/boom", func(*gin.Context) { panic("boom") })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
	})
})
