package search

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/model"
)

var _ = Describe("records", func() {
	It("flattens a document into the indexed shape", func() {
		updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		rec := NewRecord(&model.Document{
			ID:          42,
			WorkspaceID: 7,
			Kind:        model.DocumentKindSpec,
			Status:      model.DocumentStatusActive,
			Title:       "Launch plan",
			Content:     "Ship it",
			UpdatedAt:   updated,
		})

		Expect(rec).To(Equal(Record{
			ID:          "42",
			WorkspaceID: 7,
			Kind:        "spec",
			Status:      "active",
			Title:       "Launch plan",
			Content:     "Ship it",
			UpdatedAt:   updated.Unix(),
		}))
	})

	It("scopes searches to one workspace and hides archived documents", func() {
		Expect(FilterFor(7)).To(Equal("workspace_id:=7 && status:!=archived"))
	})

	It("reads ids back from hits", func() {
		id, ok := recordID(map[string]any{"id": "123"})
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(int64(123)))

		_, ok = recordID(map[string]any{"id": 123})
		Expect(ok).To(BeFalse())

		_, ok = recordID(map[string]any{"id": "abc"})
		Expect(ok).To(BeFalse())
	})
})
