package store_test

import (
	"context"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

var _ = Describe("Redis stores", func() {
	var (
		ctx    context.Context
		mr     *miniredis.Miniredis
		client *redis.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		mr = miniredis.RunT(GinkgoT())
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(client.Close)
	})

	Describe("RedisThreatStore", func() {
		var threats *store.RedisThreatStore

		BeforeEach(func() {
			threats = store.NewRedisThreatStore(client, "test")
		})

		It("lists nothing before the first append", func() {
			list, err := threats.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())
		})

		It("appends in order and tracks ids", func() {
			Expect(threats.Append(ctx, model.Threat{ID: "a", Name: "first"})).To(Succeed())
			Expect(threats.Append(ctx, model.Threat{ID: "b", Name: "second"})).To(Succeed())

			list, err := threats.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
			Expect(list[0].Name).To(Equal("first"))
			Expect(list[1].Name).To(Equal("second"))

			Expect(threats.Exists(ctx, "a")).To(BeTrue())
			Expect(threats.Exists(ctx, "zzz")).To(BeFalse())
			Expect(mr.Exists("test:threats")).To(BeTrue())
		})

		It("rejects a duplicate id", func() {
			Expect(threats.Append(ctx, model.Threat{ID: "a"})).To(Succeed())
			Expect(threats.Append(ctx, model.Threat{ID: "a"})).To(MatchError(store.ErrDuplicateID))

			list, _ := threats.List(ctx)
			Expect(list).To(HaveLen(1))
		})

		It("deletes by id", func() {
			Expect(threats.Append(ctx, model.Threat{ID: "a"})).To(Succeed())
			Expect(threats.Append(ctx, model.Threat{ID: "b"})).To(Succeed())

			Expect(threats.Delete(ctx, "a")).To(Succeed())
			Expect(threats.Delete(ctx, "a")).To(MatchError(store.ErrNotFound))

			list, _ := threats.List(ctx)
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal("b"))
			Expect(threats.Exists(ctx, "a")).To(BeFalse())
		})

		It("replaces the whole log", func() {
			Expect(threats.Append(ctx, model.Threat{ID: "a"})).To(Succeed())
			Expect(threats.Replace(ctx, []model.Threat{{ID: "x"}, {ID: "y"}})).To(Succeed())

			list, _ := threats.List(ctx)
			Expect(list).To(HaveLen(2))
			Expect(threats.Exists(ctx, "a")).To(BeFalse())
			Expect(threats.Exists(ctx, "y")).To(BeTrue())

			Expect(threats.Replace(ctx, nil)).To(Succeed())
			list, _ = threats.List(ctx)
			Expect(list).To(BeEmpty())
		})
	})

	Describe("RedisRecipientStore", func() {
		It("sets, reads and clears the recipient", func() {
			recipients := store.NewRedisRecipientStore(client, "test")

			Expect(recipients.Get(ctx)).To(BeEmpty())
			Expect(recipients.Set(ctx, "ops@example.com")).To(Succeed())
			Expect(recipients.Get(ctx)).To(Equal("ops@example.com"))
			Expect(recipients.Set(ctx, "")).To(Succeed())
			Expect(recipients.Get(ctx)).To(BeEmpty())
		})
	})

	It("reports connection failures", func() {
		unreachable := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
		DeferCleanup(unreachable.Close)
		threats := store.NewRedisThreatStore(unreachable, "test")
		_, err := threats.List(ctx)
		Expect(err).To(HaveOccurred())
	})
})
