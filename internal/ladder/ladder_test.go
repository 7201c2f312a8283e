package ladder_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/ladder"
	"cerebrin.app/backend/internal/model"
)

func agentWith(level model.AutonomyLevel, perms string) *model.Agent {
	return &model.Agent{
		ID:            1,
		AutonomyLevel: level,
		Permissions:   json.RawMessage(perms),
		IsActive:      true,
	}
}

var _ = Describe("Evaluate", func() {
	It("denies everything for an inactive agent", func() {
		agent := agentWith(model.AutonomyAutopilot, `{"*":"allow"}`)
		agent.IsActive = false

		Expect(ladder.Evaluate(agent, ladder.ResourceDocuments, ladder.ActionRead)).To(Equal(model.DecisionDeny))
	})

	It("denies a nil agent", func() {
		Expect(ladder.Evaluate(nil, ladder.ResourceDocuments, ladder.ActionRead)).To(Equal(model.DecisionDeny))
	})

	DescribeTable("defaults when no rule is configured",
		func(level model.AutonomyLevel, action ladder.Action, want model.Decision) {
			Expect(ladder.Evaluate(agentWith(level, `{}`), ladder.ResourceDocuments, action)).To(Equal(want))
		},
		Entry("observer reads", model.AutonomyObserver, ladder.ActionRead, model.DecisionAllow),
		Entry("observer writes", model.AutonomyObserver, ladder.ActionCreate, model.DecisionDeny),
		Entry("assistant writes", model.AutonomyAssistant, ladder.ActionCreate, model.DecisionApproval),
		Entry("copilot writes", model.AutonomyCopilot, ladder.ActionUpdate, model.DecisionApproval),
		Entry("copilot deletes", model.AutonomyCopilot, ladder.ActionDelete, model.DecisionApproval),
		Entry("autopilot writes", model.AutonomyAutopilot, ladder.ActionDelete, model.DecisionAllow),
	)

	DescribeTable("configured rules capped by autonomy",
		func(level model.AutonomyLevel, perms string, action ladder.Action, want model.Decision) {
			Expect(ladder.Evaluate(agentWith(level, perms), ladder.ResourceDocuments, action)).To(Equal(want))
		},
		Entry("observer cannot be granted writes", model.AutonomyObserver, `{"documents":{"create":"allow"}}`, ladder.ActionCreate, model.DecisionDeny),
		Entry("assistant allow is capped at approval", model.AutonomyAssistant, `{"documents":{"create":"allow"}}`, ladder.ActionCreate, model.DecisionApproval),
		Entry("copilot allow on create stands", model.AutonomyCopilot, `{"documents":{"create":"allow"}}`, ladder.ActionCreate, model.DecisionAllow),
		Entry("copilot allow on delete is capped", model.AutonomyCopilot, `{"documents":{"delete":"allow"}}`, ladder.ActionDelete, model.DecisionApproval),
		Entry("autopilot deny rule holds", model.AutonomyAutopilot, `{"documents":{"delete":"deny"}}`, ladder.ActionDelete, model.DecisionDeny),
		Entry("deny rule applies to reads", model.AutonomyAutopilot, `{"documents":{"read":"deny"}}`, ladder.ActionRead, model.DecisionDeny),
		Entry("reads are not capped for observers", model.AutonomyObserver, `{"documents":{"read":"allow"}}`, ladder.ActionRead, model.DecisionAllow),
	)

	It("prefers the exact rule over the wildcards", func() {
		agent := agentWith(model.AutonomyAutopilot, `{"documents":{"create":"allow","*":"approval"},"*":"deny"}`)

		Expect(ladder.Evaluate(agent, ladder.ResourceDocuments, ladder.ActionCreate)).To(Equal(model.DecisionAllow))
		Expect(ladder.Evaluate(agent, ladder.ResourceDocuments, ladder.ActionUpdate)).To(Equal(model.DecisionApproval))
		Expect(ladder.Evaluate(agent, ladder.ResourceIdeas, ladder.ActionCreate)).To(Equal(model.DecisionDeny))
	})

	It("skips unknown level strings and falls through", func() {
		agent := agentWith(model.AutonomyAutopilot, `{"documents":{"create":"maybe","*":"approval"}}`)

		Expect(ladder.Evaluate(agent, ladder.ResourceDocuments, ladder.ActionCreate)).To(Equal(model.DecisionApproval))
	})

	It("falls back to defaults on malformed JSON", func() {
		agent := agentWith(model.AutonomyAssistant, `{not json`)

		Expect(ladder.Evaluate(agent, ladder.ResourceTickets, ladder.ActionCreate)).To(Equal(model.DecisionApproval))
	})
})

var _ = Describe("ForActionKind", func() {
	It("maps every action kind", func() {
		kinds := []model.ActionKind{
			model.ActionDocumentCreate, model.ActionDocumentUpdate, model.ActionDocumentDelete,
			model.ActionIdeaCreate, model.ActionIdeaMove, model.ActionIdeaPromote,
			model.ActionTicketCreate, model.ActionTicketTransition, model.ActionMemoryWrite,
		}
		for _, k := range kinds {
			r, a, ok := ladder.ForActionKind(k)
			Expect(ok).To(BeTrue(), string(k))
			Expect(ladder.IsKnown(r, a)).To(BeTrue(), string(k))
		}
	})

	It("rejects unknown kinds", func() {
		_, _, ok := ladder.ForActionKind("repo.push")
		Expect(ok).To(BeFalse())
	})
})
