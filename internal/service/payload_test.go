package service_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
)

var _ = Describe("ParsePayload", func() {
	It("accepts ids as numbers or strings and re-encodes them as strings", func() {
		parsed, err := service.ParsePayload(model.ActionIdeaMove, json.RawMessage(`{"idea_id":"42","stage":"ready"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(Equal(service.IdeaMovePayload{IdeaID: 42, Stage: model.IdeaStageReady}))

		parsed, err = service.ParsePayload(model.ActionIdeaPromote, json.RawMessage(`{"idea_id":42}`))
		Expect(err).NotTo(HaveOccurred())

		encoded, err := json.Marshal(parsed)
		Expect(err).NotTo(HaveOccurred())
		Expect(encoded).To(MatchJSON(`{"idea_id":"42"}`))
	})

	It("fills defaults", func() {
		parsed, err := service.ParsePayload(model.ActionDocumentCreate, json.RawMessage(`{"title":"Roadmap"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.(service.DocumentCreatePayload).Kind).To(Equal(model.DocumentKindNote))

		parsed, err = service.ParsePayload(model.ActionTicketCreate, json.RawMessage(`{"subject":"Help"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.(service.TicketCreatePayload).Priority).To(Equal(model.TicketPriorityNormal))
	})

	DescribeTable("rejects malformed payloads",
		func(kind model.ActionKind, raw string) {
			_, err := service.ParsePayload(kind, json.RawMessage(raw))
			Expect(err).To(MatchError(service.ErrInvalidPayload))
		},
		Entry("unknown field", model.ActionDocumentCreate, `{"title":"x","owner":"me"}`),
		Entry("missing title", model.ActionDocumentCreate, `{"kind":"note"}`),
		Entry("bad document kind", model.ActionDocumentCreate, `{"kind":"poem","title":"x"}`),
		Entry("empty update", model.ActionDocumentUpdate, `{"document_id":"1"}`),
		Entry("missing document id", model.ActionDocumentDelete, `{}`),
		Entry("non-numeric id", model.ActionIdeaPromote, `{"idea_id":"abc"}`),
		Entry("move into promoted", model.ActionIdeaMove, `{"idea_id":"1","stage":"promoted"}`),
		Entry("bad ticket status", model.ActionTicketTransition, `{"ticket_id":"1","status":"done"}`),
		Entry("blank memory", model.ActionMemoryWrite, `{"content":"  "}`),
		Entry("not an object", model.ActionIdeaCreate, `[1,2]`),
	)

	It("rejects unknown action kinds", func() {
		_, err := service.ParsePayload(model.ActionKind("repo.delete"), nil)
		Expect(err).To(MatchError(service.ErrUnknownAction))
	})
})
