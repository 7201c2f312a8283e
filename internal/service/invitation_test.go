package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
)

var _ = Describe("InvitationService", func() {
	var (
		ctx           context.Context
		stores        *fakeStores
		tx            *fakeTxRunner
		notifications *mockNotificationService
		svc           service.InvitationService
		dashboardURL  string
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newFakeStores()
		tx = &fakeTxRunner{stores: stores}
		notifications = &mockNotificationService{}
		dashboardURL = "https://app.cerebrin.io"
		svc = service.NewInvitationService(tx, stores.invitations, notifications, dashboardURL)
	})

	Describe("Create", func() {
		BeforeEach(func() {
			stores.invitations.getPendingByEmailFn = func(context.Context, int64, string) (*model.Invitation, error) {
				return nil, store.ErrNotFound
			}
		})

		It("creates a pending member invitation with a generated token", func() {
			var captured *model.Invitation
			stores.invitations.createFn = func(_ context.Context, inv *model.Invitation) error {
				captured = inv
				return nil
			}

			inv, inviteURL, err := svc.Create(ctx, 10, "  Ada@Example.COM ", "", 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(inv).To(BeIdenticalTo(captured))
			Expect(inv.ID).NotTo(BeZero())
			Expect(inv.WorkspaceID).To(Equal(int64(10)))
			Expect(inv.Email).To(Equal("ada@example.com"))
			Expect(inv.Role).To(Equal(model.WorkspaceRoleMember))
			Expect(inv.Status).To(Equal(model.InvitationStatusPending))
			Expect(*inv.InvitedBy).To(Equal(int64(3)))
			Expect(inv.Token).NotTo(BeEmpty())
			Expect(inv.ExpiresAt).To(BeTemporally("~", time.Now().Add(7*24*time.Hour), time.Minute))
			Expect(inviteURL).To(HavePrefix(dashboardURL + "/invite?token="))
		})

		It("never invites an owner", func() {
			_, _, err := svc.Create(ctx, 10, "ada@example.com", model.WorkspaceRoleOwner, 3)
			Expect(err).To(MatchError(service.ErrInvalidRole))
		})

		It("rejects malformed emails", func() {
			_, _, err := svc.Create(ctx, 10, "not-an-email", model.WorkspaceRoleMember, 3)
			Expect(err).To(MatchError(service.ErrInvalidEmail))
		})

		It("refuses a second pending invitation for the same email", func() {
			stores.invitations.getPendingByEmailFn = func(context.Context, int64, string) (*model.Invitation, error) {
				return &model.Invitation{
					Status:    model.InvitationStatusPending,
					ExpiresAt: time.Now().Add(time.Hour),
				}, nil
			}

			inv, inviteURL, err := svc.Create(ctx, 10, "ada@example.com", model.WorkspaceRoleAdmin, 3)

			Expect(err).To(MatchError(service.ErrInvitePendingExists))
			Expect(inv).To(BeNil())
			Expect(inviteURL).To(BeEmpty())
		})
	})

	Describe("ValidateToken", func() {
		BeforeEach(func() {
			stores.invitations.getValidByTokenFn = func(context.Context, string) (*model.Invitation, error) {
				return nil, store.ErrNotFound
			}
		})

		DescribeTable("explains why a token is unusable",
			func(status model.InvitationStatus, expiresIn time.Duration, expected error) {
				stores.invitations.getByTokenFn = func(context.Context, string) (*model.Invitation, error) {
					return &model.Invitation{Status: status, ExpiresAt: time.Now().Add(expiresIn)}, nil
				}

				_, err := svc.ValidateToken(ctx, "tok")
				Expect(err).To(MatchError(expected))
			},
			Entry("accepted", model.InvitationStatusAccepted, time.Hour, service.ErrInviteAlreadyUsed),
			Entry("revoked", model.InvitationStatusRevoked, time.Hour, service.ErrInviteRevoked),
			Entry("expired status", model.InvitationStatusExpired, -time.Hour, service.ErrInviteExpired),
			Entry("pending but past expiry", model.InvitationStatusPending, -time.Hour, service.ErrInviteExpired),
		)

		It("reports unknown tokens as not found", func() {
			stores.invitations.getByTokenFn = func(context.Context, string) (*model.Invitation, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.ValidateToken(ctx, "missing")
			Expect(err).To(MatchError(service.ErrInviteNotFound))
		})
	})

	Describe("Accept", func() {
		var (
			inv  *model.Invitation
			user *model.User
		)

		BeforeEach(func() {
			inviter := int64(3)
			inv = &model.Invitation{
				ID:          99,
				WorkspaceID: 10,
				Email:       "ada@example.com",
				Role:        model.WorkspaceRoleAdmin,
				Status:      model.InvitationStatusPending,
				InvitedBy:   &inviter,
				ExpiresAt:   time.Now().Add(time.Hour),
			}
			user = &model.User{ID: 42, Email: "Ada@example.com", Name: "Ada"}
			stores.invitations.getValidByTokenFn = func(context.Context, string) (*model.Invitation, error) {
				return inv, nil
			}
			stores.invitations.acceptFn = func(_ context.Context, id, userID int64) (*model.Invitation, error) {
				accepted := *inv
				accepted.Status = model.InvitationStatusAccepted
				accepted.AcceptedBy = &userID
				return &accepted, nil
			}
		})

		It("adds the membership and notifies the inviter", func() {
			stores.members.getFn = func(context.Context, int64, int64) (*model.WorkspaceMember, error) {
				return nil, store.ErrNotFound
			}
			var addedRole model.WorkspaceRole
			stores.members.addFn = func(_ context.Context, _, _ int64, role model.WorkspaceRole) (*model.WorkspaceMember, error) {
				addedRole = role
				return &model.WorkspaceMember{Role: role}, nil
			}

			accepted, err := svc.Accept(ctx, "tok", user)

			Expect(err).NotTo(HaveOccurred())
			Expect(accepted.Status).To(Equal(model.InvitationStatusAccepted))
			Expect(addedRole).To(Equal(model.WorkspaceRoleAdmin))
			Expect(notifications.notified).To(HaveLen(1))
			Expect(notifications.notified[0].UserID).To(Equal(int64(3)))
			Expect(notifications.notified[0].Kind).To(Equal(model.NotificationInviteAccepted))
		})

		It("keeps a higher existing role", func() {
			stores.members.getFn = func(context.Context, int64, int64) (*model.WorkspaceMember, error) {
				return &model.WorkspaceMember{Role: model.WorkspaceRoleOwner}, nil
			}
			stores.members.addFn = func(context.Context, int64, int64, model.WorkspaceRole) (*model.WorkspaceMember, error) {
				Fail("membership must not be downgraded")
				return nil, nil
			}

			_, err := svc.Accept(ctx, "tok", user)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a different account's email", func() {
			user.Email = "eve@example.com"

			_, err := svc.Accept(ctx, "tok", user)
			Expect(err).To(MatchError(service.ErrEmailMismatch))
			Expect(tx.calls).To(BeZero())
		})

		It("maps a lost accept race to already used", func() {
			stores.invitations.acceptFn = func(context.Context, int64, int64) (*model.Invitation, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Accept(ctx, "tok", user)
			Expect(err).To(MatchError(service.ErrInviteAlreadyUsed))
			Expect(notifications.notified).To(BeEmpty())
		})
	})

	Describe("Revoke", func() {
		It("maps a missing invitation", func() {
			stores.invitations.revokeFn = func(context.Context, int64, int64) (*model.Invitation, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.Revoke(ctx, 10, 99)
			Expect(err).To(MatchError(service.ErrInviteNotFound))
		})
	})
})
