package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/http/handler"
	"cerebrin.app/backend/internal/model"
)

var _ = Describe("NotificationHandler", func() {
	var (
		router        *gin.Engine
		notifications *mockNotificationService
	)

	BeforeEach(func() {
		notifications = &mockNotificationService{}
		h := handler.NewNotificationHandler(notifications, &mockStreamTickets{userID: 2}, nil, "notifications")

		router = gin.New()
		router.GET("/notifications/stream", h.Stream)
		g := router.Group("/notifications", withPrincipal(sessionPrincipal(2)))
		g.GET("", h.List)
		g.POST("/stream-ticket", h.IssueStreamTicket)
	})

	It("lists unread notifications for the caller", func() {
		notifications.listFn = func(_ context.Context, userID int64, unreadOnly bool, _, _ int32) ([]model.Notification, error) {
			Expect(userID).To(Equal(int64(2)))
			Expect(unreadOnly).To(BeTrue())
			return []model.Notification{{ID: 8, UserID: 2, Kind: model.NotificationApprovalRequired, Title: "Review"}}, nil
		}

		w := doJSON(router, http.MethodGet, "/notifications?unread=true", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"id":"8"`))
	})

	It("issues a stream ticket", func() {
		w := doJSON(router, http.MethodPost, "/notifications/stream-ticket", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["ticket"]).To(Equal("ticket-for-user"))
	})

	It("refuses the stream without redis", func() {
		w := doJSON(router, http.MethodGet, "/notifications/stream?ticket=ticket-for-user", nil)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})

var _ = Describe("NotificationHandler stream auth", func() {
	It("rejects a bad ticket before touching redis", func() {
		h := handler.NewNotificationHandler(&mockNotificationService{}, &mockStreamTickets{userID: 2}, redisForTests(), "notifications")
		router := gin.New()
		router.GET("/notifications/stream", h.Stream)

		w := doJSON(router, http.MethodGet, "/notifications/stream?ticket=forged", nil)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(decode(w)["code"]).To(Equal("invalid_stream_ticket"))
	})

	It("rejects anonymous callers without a ticket", func() {
		h := handler.NewNotificationHandler(&mockNotificationService{}, &mockStreamTickets{userID: 2}, redisForTests(), "notifications")
		router := gin.New()
		router.GET("/notifications/stream", h.Stream)

		w := doJSON(router, http.MethodGet, "/notifications/stream", nil)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
	It("prefers the session principal over a ticket", func() {
		h := handler.NewNotificationHandler(&mockNotificationService{}, &mockStreamTickets{userID: 2}, redisForTests(), "notifications")
		router := gin.New()
		router.GET("/notifications/stream", withPrincipal(sessionPrincipal(2)), h.Stream)

		// A cancelled request ends the stream right after the ready ping.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := httptest.NewRequest(http.MethodGet, "/notifications/stream?ticket=forged", nil).WithContext(ctx)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("text/event-stream"))
		Expect(w.Body.String()).To(ContainSubstring("event: ping\ndata: ready"))
	})
})
