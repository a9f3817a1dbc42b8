package triage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/triage"
)

var _ = Describe("ScopeFilter", func() {
	var (
		filter   *triage.ScopeFilter
		local    model.Article
		mumbai   model.Article
		generic  model.Article
		articles []model.Article
	)

	BeforeEach(func() {
		filter = triage.NewScopeFilter(triage.DefaultVocabulary().OtherCities)
		local = article("Gas leak in Bengaluru apartment", "Residents evacuated")
		mumbai = article("Building collapse in Mumbai", "Several trapped")
		generic = article("Earthquake felt across the region", "No damage reported")
		articles = []model.Article{mumbai, local, generic}
	})

	Describe("global scope", func() {
		It("returns the input unchanged in both modes", func() {
			Expect(filter.Filter(articles, "Bengaluru", triage.ScopeGlobal, true)).To(Equal(articles))
			Expect(filter.Filter(articles, "Bengaluru", triage.ScopeGlobal, false)).To(Equal(articles))
		})
	})

	Describe("missing location", func() {
		DescribeTable("returns the input unchanged",
			func(scope triage.Scope, strict bool) {
				Expect(filter.Filter(articles, "", scope, strict)).To(Equal(articles))
				Expect(filter.Filter(articles, "   ", scope, strict)).To(Equal(articles))
			},
			Entry("city strict", triage.ScopeCity, true),
			Entry("city relaxed", triage.ScopeCity, false),
			Entry("near_me strict", triage.ScopeNearMe, true),
			Entry("near_me relaxed", triage.ScopeNearMe, false),
		)
	})

	Describe("strict mode", func() {
		It("keeps only articles naming the location", func() {
			Expect(filter.Filter(articles, "Bengaluru", triage.ScopeCity, true)).To(Equal([]model.Article{local}))
		})

		It("drops an article that only mentions another city", func() {
			Expect(filter.Filter([]model.Article{mumbai}, "Bengaluru", triage.ScopeCity, true)).To(BeEmpty())
		})

		It("returns an empty result rather than falling back", func() {
			out := filter.Filter([]model.Article{generic}, "Bengaluru", triage.ScopeNearMe, true)
			Expect(out).To(BeEmpty())
		})
	})

	Describe("relaxed mode", func() {
		It("keeps location matches and location-agnostic articles in input order", func() {
			Expect(filter.Filter(articles, "Bengaluru", triage.ScopeCity, false)).To(Equal([]model.Article{local, generic}))
		})

		It("drops an article naming a different known city", func() {
			out := filter.Filter([]model.Article{mumbai, generic}, "Bengaluru", triage.ScopeCity, false)
			Expect(out).To(Equal([]model.Article{generic}))
		})

		It("does not treat the user's own city as another city", func() {
			out := filter.Filter([]model.Article{mumbai}, "mumbai", triage.ScopeCity, false)
			Expect(out).To(Equal([]model.Article{mumbai}))
		})

		It("falls back to the unfiltered input when nothing survives", func() {
			london := article("Blackout across London", "")
			input := []model.Article{mumbai, london}
			Expect(filter.Filter(input, "Bengaluru", triage.ScopeCity, false)).To(Equal(input))
		})
	})

	It("uses a configured city list without adding to it", func() {
		custom := triage.NewScopeFilter([]string{"Lagos"})
		out := custom.Filter([]model.Article{mumbai, article("Flood in Lagos", "")}, "Bengaluru", triage.ScopeCity, false)
		Expect(out).To(Equal([]model.Article{mumbai}))
	})
})

var _ = Describe("ParseScope", func() {
	DescribeTable("maps query values",
		func(in string, want triage.Scope, wantOK bool) {
			got, ok := triage.ParseScope(in)
			Expect(got).To(Equal(want))
			Expect(ok).To(Equal(wantOK))
		},
		Entry("near_me", "near_me", triage.ScopeNearMe, true),
		Entry("city", "city", triage.ScopeCity, true),
		Entry("global upper case", "GLOBAL", triage.ScopeGlobal, true),
		Entry("empty defaults to city", "", triage.ScopeCity, false),
		Entry("unknown defaults to city", "planet", triage.ScopeCity, false),
	)
})
