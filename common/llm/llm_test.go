package llm_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/llm"
)

var _ = Describe("ExtractJSON", func() {
	DescribeTable("strips markdown fences",
		func(input, expected string) {
			Expect(llm.ExtractJSON(input)).To(Equal(expected))
		},
		Entry("bare object unchanged", `{"a":1}`, `{"a":1}`),
		Entry("json fence", "```json\n{\"a\":1}\n```", `{"a":1}`),
		Entry("plain fence", "```\n{\"a\":1}\n```", `{"a":1}`),
		Entry("surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`),
		Entry("multi-line body", "```json\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"),
		Entry("empty string", "", ""),
	)
})

var _ = Describe("New", func() {
	It("requires an API key", func() {
		_, err := llm.New(llm.Config{Provider: llm.ProviderOpenAI})
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown provider", func() {
		_, err := llm.New(llm.Config{Provider: "gemini", APIKey: "k"})
		Expect(err).To(MatchError(ContainSubstring("unsupported LLM provider")))
	})

	It("defaults to the OpenAI-compatible client and its free model", func() {
		client, err := llm.New(llm.Config{APIKey: "k"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Model()).To(Equal("mistralai/Mistral-7B-Instruct:free"))
	})

	It("keeps a configured model", func() {
		client, err := llm.New(llm.Config{Provider: llm.ProviderAnthropic, APIKey: "k", Model: "claude-x"})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Model()).To(Equal("claude-x"))
	})
})

var _ = Describe("IsRetryable", func() {
	ctx := context.Background()

	It("is false for nil", func() {
		Expect(llm.IsRetryable(ctx, nil)).To(BeFalse())
	})

	It("is false for cancellation and deadlines, even wrapped", func() {
		Expect(llm.IsRetryable(ctx, context.Canceled)).To(BeFalse())
		Expect(llm.IsRetryable(ctx, fmt.Errorf("openai chat: %w", context.DeadlineExceeded))).To(BeFalse())
	})

	It("is true for errors without an API response", func() {
		Expect(llm.IsRetryable(ctx, errors.New("connection reset by peer"))).To(BeTrue())
	})
})

var _ = Describe("GenerateSchema", func() {
	type sample struct {
		Name string `json:"name"`
	}

	It("reflects an inline schema", func() {
		Expect(llm.GenerateSchema[sample]()).NotTo(BeNil())
	})

	It("returns a pointer for Temp", func() {
		Expect(*llm.Temp(0.3)).To(Equal(0.3))
	})
})
