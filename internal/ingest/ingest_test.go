package ingest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/ingest"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
)

type mockProcessor struct {
	mu        sync.Mutex
	processFn func(ctx context.Context, item model.NewsItem) (*model.Threat, error)
	items     []model.NewsItem
}

func (m *mockProcessor) Process(ctx context.Context, item model.NewsItem) (*model.Threat, error) {
	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()
	if m.processFn != nil {
		return m.processFn(ctx, item)
	}
	return &model.Threat{ID: item.ID}, nil
}

func (m *mockProcessor) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type mockFeed struct {
	nextFn func(ctx context.Context) (model.NewsItem, error)
}

func (m *mockFeed) Next(ctx context.Context) (model.NewsItem, error) {
	return m.nextFn(ctx)
}

var _ = Describe("SimulatorFeed", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("decodes the simulator item", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/fake-news-threat"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"n1","text":"Blast reported in Peenya","timestamp":"2025-01-01T10:00:00Z","sourceType":"news"}`))
		}))
		DeferCleanup(srv.Close)

		item, err := ingest.NewSimulatorFeed(srv.URL+"/", nil).Next(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(item).To(Equal(model.NewsItem{
			ID:         "n1",
			Text:       "Blast reported in Peenya",
			Timestamp:  "2025-01-01T10:00:00Z",
			SourceType: "news",
		}))
	})

	It("reports non-200 responses", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		DeferCleanup(srv.Close)

		_, err := ingest.NewSimulatorFeed(srv.URL, nil).Next(ctx)

		Expect(err).To(MatchError(ContainSubstring("status 500")))
	})

	It("reports an unreachable simulator", func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := ingest.NewSimulatorFeed(url, nil).Next(ctx)

		Expect(err).To(MatchError(ingest.ErrUnreachable))
	})
})

var _ = Describe("Poller", func() {
	var (
		ctx       context.Context
		processor *mockProcessor
	)

	BeforeEach(func() {
		ctx = context.Background()
		processor = &mockProcessor{}
	})

	Describe("PollOnce", func() {
		It("hands the fetched item to the processor", func() {
			feed := &mockFeed{nextFn: func(context.Context) (model.NewsItem, error) {
				return model.NewsItem{ID: "n1", Text: "t"}, nil
			}}

			Expect(ingest.NewPoller(feed, processor, time.Minute).PollOnce(ctx)).To(Succeed())
			Expect(processor.items).To(Equal([]model.NewsItem{{ID: "n1", Text: "t"}}))
		})

		It("returns feed errors without processing", func() {
			feed := &mockFeed{nextFn: func(context.Context) (model.NewsItem, error) {
				return model.NewsItem{}, ingest.ErrUnreachable
			}}

			err := ingest.NewPoller(feed, processor, time.Minute).PollOnce(ctx)

			Expect(err).To(MatchError(ingest.ErrUnreachable))
			Expect(processor.items).To(BeEmpty())
		})

		It("wraps processor errors with the item id", func() {
			feed := &mockFeed{nextFn: func(context.Context) (model.NewsItem, error) {
				return model.NewsItem{ID: "n9"}, nil
			}}
			processor.processFn = func(context.Context, model.NewsItem) (*model.Threat, error) {
				return nil, errors.New("extraction failed")
			}

			err := ingest.NewPoller(feed, processor, time.Minute).PollOnce(ctx)

			Expect(err).To(MatchError("processing news item n9: extraction failed"))
		})
	})

	Describe("Run", func() {
		It("polls on every tick until stopped, surviving errors and panics", func() {
			calls := 0
			var mu sync.Mutex
			feed := &mockFeed{nextFn: func(context.Context) (model.NewsItem, error) {
				mu.Lock()
				defer mu.Unlock()
				calls++
				switch calls {
				case 1:
					return model.NewsItem{}, errors.New("temporary")
				case 2:
					panic("bad item")
				}
				return model.NewsItem{ID: "n"}, nil
			}}

			poller := ingest.NewPoller(feed, processor, 5*time.Millisecond)
			go poller.Run(ctx)

			Eventually(processor.count).WithTimeout(time.Second).Should(BeNumerically(">=", 2))
			poller.Stop()
		})

		It("returns when the context is cancelled", func() {
			feed := &mockFeed{nextFn: func(context.Context) (model.NewsItem, error) {
				return model.NewsItem{ID: "n"}, nil
			}}
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})

			go func() {
				ingest.NewPoller(feed, processor, time.Hour).Run(runCtx)
				close(done)
			}()
			cancel()

			Eventually(done).Should(BeClosed())
		})
	})
})
