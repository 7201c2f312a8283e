package otel

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"cerebrin.app/backend/core/config"
)

var _ = Describe("Setup", func() {
	It("does nothing without an endpoint", func() {
		telemetry, err := Setup(context.Background(), config.OTelConfig{ServiceName: "cerebrin-server"})

		Expect(err).NotTo(HaveOccurred())
		Expect(telemetry).To(BeNil())
		Expect(telemetry.Shutdown(context.Background())).To(Succeed())
	})
})

var _ = Describe("NewResource", func() {
	It("tags the process role and deployment environment", func() {
		res, err := NewResource(context.Background(), config.OTelConfig{
			ServiceName:    "cerebrin-worker",
			ServiceVersion: "1.4.0",
			Environment:    "staging",
			Process:        config.ServiceTypeWorker,
		})
		Expect(err).NotTo(HaveOccurred())

		attrs := res.Set()
		value := func(key attribute.Key) string {
			v, ok := attrs.Value(key)
			Expect(ok).To(BeTrue(), string(key))
			return v.AsString()
		}
		Expect(value(semconv.ServiceNameKey)).To(Equal("cerebrin-worker"))
		Expect(value(semconv.ServiceNamespaceKey)).To(Equal("cerebrin"))
		Expect(value(semconv.DeploymentEnvironmentKey)).To(Equal("staging"))
		Expect(value(ProcessKey)).To(Equal("worker"))
	})
})

var _ = Describe("Sampler", func() {
	traceID := trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36}

	decide := func(sampler sdktrace.Sampler, parent context.Context) sdktrace.SamplingDecision {
		return sampler.ShouldSample(sdktrace.SamplingParameters{
			ParentContext: parent,
			TraceID:       traceID,
			Name:          "task score_idea",
		}).Decision
	}

	sampledParent := func() context.Context {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     trace.SpanID{0, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
			TraceFlags: trace.FlagsSampled,
			Remote:     true,
		})
		return trace.ContextWithRemoteSpanContext(context.Background(), sc)
	}

	It("keeps every root trace at ratio 1", func() {
		Expect(decide(Sampler(1), context.Background())).To(Equal(sdktrace.RecordAndSample))
	})

	It("drops root traces at ratio 0 but follows a sampled parent", func() {
		Expect(decide(Sampler(0), context.Background())).To(Equal(sdktrace.Drop))
		Expect(decide(Sampler(0), sampledParent())).To(Equal(sdktrace.RecordAndSample))
	})
})

var _ = DescribeTable("parseHeaders",
	func(raw string, want map[string]string) {
		Expect(parseHeaders(raw)).To(Equal(want))
	},
	Entry("empty", "", map[string]string{}),
	Entry("pairs with spaces", "api-key = abc, x-team=core", map[string]string{"api-key": "abc", "x-team": "core"}),
	Entry("value containing equals", "authorization=Basic dXNlcjpwYXNz==", map[string]string{"authorization": "Basic dXNlcjpwYXNz=="}),
	Entry("pairs without a key", "=orphan,novalue,k=v", map[string]string{"k": "v"}),
)
