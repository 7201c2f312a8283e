package llm_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/openai/openai-go"

	"cerebrin.app/backend/common/llm"
)

var _ = Describe("SanitizeName", func() {
	DescribeTable("sanitizes labels for schema and tool names",
		func(input, expected string) {
			Expect(llm.SanitizeName(input)).To(Equal(expected))
		},
		Entry("valid name unchanged", "resonance_score", "resonance_score"),
		Entry("dots replaced with underscore", "idea.score", "idea_score"),
		Entry("hyphens preserved", "agent-chat", "agent-chat"),
		Entry("spaces replaced", "mirror memory", "mirror_memory"),
		Entry("long name truncated to 64 chars", strings.Repeat("a", 100), strings.Repeat("a", 64)),
		Entry("empty string unchanged", "", ""),
	)
})

var _ = Describe("New", func() {
	It("requires an API key", func() {
		_, err := llm.New(llm.Config{Provider: llm.ProviderOpenAI})
		Expect(err).To(MatchError(ContainSubstring("API key")))
	})

	It("rejects unknown providers", func() {
		_, err := llm.New(llm.Config{Provider: "mistral", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported")))
	})

	It("uses provider defaults for the model", func() {
		c, err := llm.New(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(HavePrefix("claude"))

		c, err = llm.New(llm.Config{APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Model()).To(Equal("gpt-4o-mini"))
	})
})

var _ = Describe("GenerateSchema", func() {
	type reply struct {
		Score     int      `json:"score" jsonschema:"minimum=0,maximum=100"`
		Rationale string   `json:"rationale"`
		Signals   []string `json:"signals"`
	}

	It("inlines properties and forbids extras", func() {
		schema, ok := llm.GenerateSchema[reply]().(*jsonschema.Schema)
		Expect(ok).To(BeTrue())

		_, found := schema.Properties.Get("score")
		Expect(found).To(BeTrue())
		Expect(schema.Required).To(ConsistOf("score", "rationale", "signals"))
		Expect(schema.Ref).To(BeEmpty())
	})
})

var _ = Describe("IsRetryable", func() {
	ctx := context.Background()

	It("does not retry cancelled contexts", func() {
		Expect(llm.IsRetryable(ctx, fmt.Errorf("chat: %w", context.Canceled))).To(BeFalse())
	})

	It("retries rate limits and server errors", func() {
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: http.StatusTooManyRequests})).To(BeTrue())
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: http.StatusBadGateway})).To(BeTrue())
	})

	It("does not retry client errors", func() {
		Expect(llm.IsRetryable(ctx, &openai.Error{StatusCode: http.StatusBadRequest})).To(BeFalse())
	})

	It("retries network errors", func() {
		Expect(llm.IsRetryable(ctx, errors.New("connection reset"))).To(BeTrue())
		Expect(llm.IsRetryable(ctx, nil)).To(BeFalse())
	})
})
