package triage_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/triage"
)

var _ = Describe("Rules", func() {
	Describe("ParseRules", func() {
		It("returns the defaults for an empty document", func() {
			rules, err := triage.ParseRules([]byte(""))
			Expect(err).NotTo(HaveOccurred())
			Expect(rules.Taxonomy.Categories()).To(Equal(triage.DefaultTaxonomy().Categories()))
			Expect(rules.Vocabulary.OtherCities).To(ContainElement("mumbai"))
		})

		It("overrides only the sections present", func() {
			rules, err := triage.ParseRules([]byte(`
other_cities:
  - Lagos
  - " Nairobi "
`))
			Expect(err).NotTo(HaveOccurred())
			Expect(rules.Vocabulary.OtherCities).To(Equal([]string{"lagos", "nairobi"}))
			Expect(rules.Vocabulary.EmergencyTerms).To(Equal(triage.DefaultVocabulary().EmergencyTerms))
			Expect(rules.Taxonomy.Categories()).To(HaveLen(8))
		})

		It("replaces the taxonomy when categories are given", func() {
			rules, err := triage.ParseRules([]byte(`
categories:
  - id: flood
    keywords: [Flash Flood, inundation]
    weight: 0.9
    priority: high
`))
			Expect(err).NotTo(HaveOccurred())
			cats := rules.Taxonomy.Categories()
			Expect(cats).To(HaveLen(1))
			Expect(cats[0]).To(Equal(triage.Category{
				ID:       "flood",
				Keywords: []string{"flash flood", "inundation"},
				Weight:   0.9,
				Priority: triage.PriorityHigh,
			}))
		})

		It("rejects an invalid category", func() {
			_, err := triage.ParseRules([]byte(`
categories:
  - id: flood
    keywords: [flood]
    weight: 2
`))
			Expect(err).To(MatchError(triage.ErrInvalidCategory))
		})

		It("rejects malformed YAML", func() {
			_, err := triage.ParseRules([]byte("categories: [unterminated"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadRules", func() {
		It("reads a rules file from disk", func() {
			path := filepath.Join(GinkgoT().TempDir(), "rules.yaml")
			Expect(os.WriteFile(path, []byte("global_terms: [planetwide]\n"), 0o600)).To(Succeed())

			rules, err := triage.LoadRules(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(rules.Vocabulary.GlobalTerms).To(Equal([]string{"planetwide"}))
		})

		It("fails for a missing file", func() {
			_, err := triage.LoadRules(filepath.Join(GinkgoT().TempDir(), "missing.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})
})
