package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/service"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

func ids(threats []model.Threat) []string {
	out := make([]string, len(threats))
	for i, t := range threats {
		out[i] = t.ID
	}
	return out
}

var _ = Describe("ThreatService", func() {
	var (
		ctx    context.Context
		mem    *memThreatStore
		svc    service.ThreatService
		past   time.Time
		future time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		mem = &memThreatStore{}
		svc = service.NewThreatService(mem)
		past = time.Now().Add(-time.Hour)
		future = time.Now().Add(time.Hour)
	})

	Describe("ListActive", func() {
		It("hides expired threats and keeps order", func() {
			mem.threats = []model.Threat{
				{ID: "a", ExpiresAt: &future},
				{ID: "b", ExpiresAt: &past},
				{ID: "c"},
			}

			active, err := svc.ListActive(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(active)).To(Equal([]string{"a", "c"}))
		})
	})

	Describe("Latest", func() {
		It("returns the last stored threat even when expired", func() {
			mem.threats = []model.Threat{{ID: "a"}, {ID: "b", ExpiresAt: &past}}

			t, err := svc.Latest(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(t.ID).To(Equal("b"))
		})

		It("returns ErrNoThreats on an empty store", func() {
			_, err := svc.Latest(ctx)
			Expect(err).To(MatchError(service.ErrNoThreats))
		})
	})

	Describe("Create", func() {
		It("fills in defaults and sets the expiry", func() {
			before := time.Now().UTC()

			t, err := svc.Create(ctx, model.Threat{Name: "Gas leak"}, 30)

			Expect(err).NotTo(HaveOccurred())
			Expect(t.ID).To(HavePrefix("threat-"))
			Expect(t.Source).To(Equal(model.SourceAdmin))
			Expect(t.Timestamp).To(BeTemporally(">=", before))
			Expect(t.ExpiresAt).NotTo(BeNil())
			Expect(*t.ExpiresAt).To(BeTemporally("~", t.Timestamp.Add(30*time.Minute), time.Second))
			Expect(mem.threats).To(HaveLen(1))
		})

		It("keeps provided values and leaves permanent threats without expiry", func() {
			ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			t, err := svc.Create(ctx, model.Threat{ID: "x1", Timestamp: ts, Source: "ops"}, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(t.ID).To(Equal("x1"))
			Expect(t.Timestamp).To(Equal(ts))
			Expect(t.Source).To(Equal("ops"))
			Expect(t.ExpiresAt).To(BeNil())
		})

		It("surfaces duplicate IDs", func() {
			mem.threats = []model.Threat{{ID: "x1"}}
			_, err := svc.Create(ctx, model.Threat{ID: "x1"}, 0)
			Expect(err).To(MatchError(store.ErrDuplicateID))
		})
	})

	Describe("Delete", func() {
		It("removes a stored threat", func() {
			mem.threats = []model.Threat{{ID: "a"}, {ID: "b"}}
			Expect(svc.Delete(ctx, "a")).To(Succeed())
			Expect(ids(mem.threats)).To(Equal([]string{"b"}))
		})

		It("returns ErrNotFound for an unknown id", func() {
			Expect(svc.Delete(ctx, "missing")).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("Initialize", func() {
		It("drops expired and ephemeral threats and seeds the demo threat", func() {
			mem.threats = []model.Threat{
				{ID: "admin-old", Source: model.SourceAdmin, ExpiresAt: &past},
				{ID: "news-1", Source: model.SourceSimulationNews, ExpiresAt: &future},
				{ID: "admin-1", Source: model.SourceAdmin},
				{ID: "pinned", Source: model.SourceSimulationNews, Persistent: true},
			}

			res, err := svc.Initialize(ctx, true)

			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(Equal(service.CleanupResult{
				RemovedExpired:   1,
				RemovedEphemeral: 1,
				Seeded:           true,
				Remaining:        3,
			}))
			Expect(ids(mem.threats)).To(Equal([]string{"admin-1", "pinned", model.DemoThreatID}))
		})

		It("does not seed twice", func() {
			mem.threats = []model.Threat{model.DemoThreat(time.Now())}

			res, err := svc.Initialize(ctx, true)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Seeded).To(BeFalse())
			Expect(mem.threats).To(HaveLen(1))
		})

		It("skips seeding when disabled", func() {
			res, err := svc.Initialize(ctx, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Seeded).To(BeFalse())
			Expect(mem.threats).To(BeEmpty())
		})
	})

	Describe("demo scenarios", func() {
		BeforeEach(func() {
			mem.threats = []model.Threat{
				{ID: "admin-1", Source: model.SourceAdmin},
				{ID: "news-1", Source: model.SourceSimulationNews},
			}
		})

		It("SeedDemo keeps durable threats and adds three scenarios", func() {
			added, total, err := svc.SeedDemo(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(added).To(Equal(3))
			Expect(total).To(Equal(4))
			Expect(mem.threats[0].ID).To(Equal("admin-1"))
			for _, t := range mem.threats[1:] {
				Expect(t.Source).To(Equal(model.SourceDemo))
				Expect(t.ID).To(HavePrefix("demo_"))
			}
		})

		It("ClearEphemeral drops everything non-durable", func() {
			_, _, err := svc.SeedDemo(ctx)
			Expect(err).NotTo(HaveOccurred())

			removed, remaining, err := svc.ClearEphemeral(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(Equal(3))
			Expect(remaining).To(Equal(1))
			Expect(ids(mem.threats)).To(Equal([]string{"admin-1"}))
		})
	})
})
