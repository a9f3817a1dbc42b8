package otel_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/otel"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/core/config"
)

var _ = Describe("Setup", func() {
	It("returns a disabled Telemetry without an endpoint", func() {
		t, err := otel.Setup(context.Background(), config.OTelConfig{ServiceName: "threat-news"})

		Expect(err).NotTo(HaveOccurred())
		Expect(t.Enabled()).To(BeFalse())
		Expect(t.Shutdown(context.Background())).To(Succeed())
	})

	It("tolerates a nil Telemetry", func() {
		var t *otel.Telemetry
		Expect(t.Enabled()).To(BeFalse())
		Expect(t.Shutdown(context.Background())).To(Succeed())
	})
})

var _ = Describe("Sampler", func() {
	DescribeTable("picks a sampler from the ratio",
		func(ratio float64, description string) {
			Expect(otel.Sampler(ratio).Description()).To(ContainSubstring(description))
		},
		Entry("full", 1.0, "AlwaysOnSampler"),
		Entry("above one", 2.0, "AlwaysOnSampler"),
		Entry("off", 0.0, "AlwaysOffSampler"),
		Entry("fraction", 0.25, "TraceIDRatioBased{0.25}"),
	)
})

var _ = Describe("DeploymentAttributes", func() {
	It("describes the storage backend, LLM provider and ingestion", func() {
		cfg := config.Config{
			Env:       "production",
			LLM:       config.LLMConfig{Provider: "anthropic", APIKey: "k"},
			Storage:   config.StorageConfig{Backend: config.StorageRedis},
			Ingestion: config.IngestionConfig{SimulatorURL: "http://sim:5050"},
		}

		attrs := otel.DeploymentAttributes(cfg)

		Expect(attrs).To(ContainElements(
			attribute.String("deployment.environment", "production"),
			otel.AttrStorageBackend.String("redis"),
			otel.AttrLLMProvider.String("anthropic"),
			otel.AttrIngestion.Bool(true),
		))
	})

	It("reports no LLM provider without a key", func() {
		attrs := otel.DeploymentAttributes(config.Config{LLM: config.LLMConfig{Provider: "openai"}})
		Expect(attrs).To(ContainElement(otel.AttrLLMProvider.String("none")))
	})
})

var _ = Describe("parseHeaders", func() {
	It("splits pairs, trims and URL-decodes values", func() {
		Expect(otel.ParseHeaders("Authorization=Basic%20abc, x-team = ops ,bad,=novalue")).To(Equal(map[string]string{
			"Authorization": "Basic abc",
			"x-team":        "ops",
		}))
	})

	It("returns an empty map for an empty string", func() {
		Expect(otel.ParseHeaders("")).To(BeEmpty())
	})
})
