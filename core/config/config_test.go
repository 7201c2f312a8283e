package config_test

import (
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/core/config"
)

var _ = Describe("Load", func() {
	setEnv := func(key, value string) {
		prev, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	It("applies defaults for the worker without requiring auth settings", func() {
		setEnv("CEREBRIN_ENV", "staging")

		cfg, err := config.Load(config.ServiceTypeWorker)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Port).To(Equal("8080"))
		Expect(cfg.HITL.ApprovalTTL).To(Equal(72 * time.Hour))
		Expect(cfg.Pipeline.NotificationPrefix).To(Equal("notifications"))
		Expect(cfg.Pipeline.MaxDeliveries).To(Equal(int64(5)))
		Expect(cfg.OTel.ServiceName).To(Equal("cerebrin-worker"))
		Expect(cfg.OTel.Environment).To(Equal("staging"))
		Expect(cfg.OTel.Process).To(Equal(config.ServiceTypeWorker))
	})

	It("reads the trace sample ratio and ignores malformed values", func() {
		setEnv("OTEL_TRACES_SAMPLE_RATIO", "0.25")
		cfg, err := config.Load(config.ServiceTypeWorker)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OTel.SampleRatio).To(Equal(0.25))

		setEnv("OTEL_TRACES_SAMPLE_RATIO", "most")
		cfg, err = config.Load(config.ServiceTypeWorker)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.OTel.SampleRatio).To(Equal(1.0))
	})

	It("requires a stream ticket secret for the server outside development", func() {
		setEnv("CEREBRIN_ENV", "production")
		setEnv("STREAM_TICKET_SECRET", "")
		Expect(os.Unsetenv("STREAM_TICKET_SECRET")).To(Succeed())

		_, err := config.Load(config.ServiceTypeServer)

		Expect(err).To(MatchError(ContainSubstring("STREAM_TICKET_SECRET")))
	})

	It("requires WorkOS credentials for the server outside development", func() {
		setEnv("CEREBRIN_ENV", "production")
		setEnv("STREAM_TICKET_SECRET", "secret")
		setEnv("WORKOS_API_KEY", "")
		setEnv("WORKOS_CLIENT_ID", "")

		_, err := config.Load(config.ServiceTypeServer)

		Expect(err).To(MatchError(ContainSubstring("WORKOS_API_KEY")))
	})

	It("falls back to a development ticket secret", func() {
		setEnv("CEREBRIN_ENV", "development")
		Expect(os.Unsetenv("STREAM_TICKET_SECRET")).To(Succeed())

		cfg, err := config.Load(config.ServiceTypeServer)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Auth.StreamTicketSecret).NotTo(BeEmpty())
	})

	It("parses list and duration overrides", func() {
		setEnv("CEREBRIN_ENV", "staging")
		setEnv("CORS_ALLOWED_ORIGINS", "https://app.cerebrin.io, https://admin.cerebrin.io ,")
		setEnv("APPROVAL_TTL", "24h")

		cfg, err := config.Load(config.ServiceTypeWorker)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.CORS.AllowedOrigins).To(Equal([]string{"https://app.cerebrin.io", "https://admin.cerebrin.io"}))
		Expect(cfg.HITL.ApprovalTTL).To(Equal(24 * time.Hour))
	})

	It("reports which optional integrations are enabled", func() {
		Expect(config.SearchConfig{}.Enabled()).To(BeFalse())
		Expect(config.SearchConfig{TypesenseURL: "http://ts:8108", TypesenseAPIKey: "k"}.Enabled()).To(BeTrue())
		Expect(config.LLMConfig{Provider: "mistral", APIKey: "k"}.Enabled()).To(BeFalse())
		Expect(config.LLMConfig{Provider: "anthropic", APIKey: "k"}.Enabled()).To(BeTrue())
	})
})
