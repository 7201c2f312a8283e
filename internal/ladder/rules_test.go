package ladder_test

import (
	"github.com/tidwall/gjson"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/ladder"
	"cerebrin.app/backend/internal/model"
)

var _ = Describe("Validate", func() {
	It("accepts known rules", func() {
		Expect(ladder.Validate([]byte(`{"documents":{"create":"allow","*":"approval"},"ideas":{"promote":"deny"},"*":"deny"}`))).To(Succeed())
		Expect(ladder.Validate([]byte(`{}`))).To(Succeed())
	})

	It("rejects unknown resources and actions", func() {
		Expect(ladder.Validate([]byte(`{"repos":{"read":"allow"}}`))).To(MatchError(ladder.ErrUnknownRule))
		Expect(ladder.Validate([]byte(`{"documents":{"promote":"allow"}}`))).To(MatchError(ladder.ErrUnknownRule))
	})

	It("rejects invalid levels", func() {
		Expect(ladder.Validate([]byte(`{"documents":{"read":"yes"}}`))).To(MatchError(ladder.ErrInvalidLevel))
		Expect(ladder.Validate([]byte(`{"*":true}`))).To(MatchError(ladder.ErrInvalidLevel))
	})

	It("rejects non-object documents", func() {
		Expect(ladder.Validate([]byte(`[]`))).To(MatchError(ladder.ErrInvalidPermissions))
		Expect(ladder.Validate([]byte(`{"documents":"allow"}`))).To(MatchError(ladder.ErrInvalidPermissions))
	})
})

var _ = Describe("SetRule", func() {
	It("sets an action rule on empty permissions", func() {
		out, err := ladder.SetRule(nil, "documents.create", model.DecisionAllow)

		Expect(err).NotTo(HaveOccurred())
		Expect(gjson.GetBytes(out, "documents.create").String()).To(Equal("allow"))
	})

	It("sets wildcard rules as literal keys", func() {
		out, err := ladder.SetRule([]byte(`{"documents":{"create":"allow"}}`), "documents.*", model.DecisionApproval)
		Expect(err).NotTo(HaveOccurred())

		out, err = ladder.SetRule(out, "*", model.DecisionDeny)
		Expect(err).NotTo(HaveOccurred())

		Expect(ladder.Validate(out)).To(Succeed())
		decision, ok := ladder.Lookup(out, ladder.ResourceDocuments, ladder.ActionUpdate)
		Expect(ok).To(BeTrue())
		Expect(decision).To(Equal(model.DecisionApproval))
		decision, _ = ladder.Lookup(out, ladder.ResourceIdeas, ladder.ActionRead)
		Expect(decision).To(Equal(model.DecisionDeny))
		decision, _ = ladder.Lookup(out, ladder.ResourceDocuments, ladder.ActionCreate)
		Expect(decision).To(Equal(model.DecisionAllow))
	})

	It("rejects unknown paths and levels", func() {
		_, err := ladder.SetRule(nil, "documents.promote", model.DecisionAllow)
		Expect(err).To(MatchError(ladder.ErrUnknownRule))

		_, err = ladder.SetRule(nil, "documents", model.DecisionAllow)
		Expect(err).To(MatchError(ladder.ErrUnknownRule))

		_, err = ladder.SetRule(nil, "documents.read", model.Decision("sometimes"))
		Expect(err).To(MatchError(ladder.ErrInvalidLevel))
	})
})

var _ = Describe("Summary", func() {
	It("lists every effective decision", func() {
		agent := &model.Agent{AutonomyLevel: model.AutonomyObserver, Permissions: []byte(`{}`), IsActive: true}

		summary := ladder.Summary(agent)

		Expect(summary).To(ContainSubstring("documents.read: allow"))
		Expect(summary).To(ContainSubstring("ideas.promote: deny"))
		Expect(summary).To(ContainSubstring("tickets.transition: deny"))
	})
})
