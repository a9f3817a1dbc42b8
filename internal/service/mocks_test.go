package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/common/llm"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/mail"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"
	"github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/store"
)

type mockLLM struct {
	chatFn     func(ctx context.Context, req llm.Request, result any) (*llm.Response, error)
	completeFn func(ctx context.Context, req llm.Request) (string, *llm.Response, error)
	requests   []llm.Request
}

func (m *mockLLM) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	m.requests = append(m.requests, req)
	if m.chatFn != nil {
		return m.chatFn(ctx, req, result)
	}
	return nil, errors.New("chat not stubbed")
}

func (m *mockLLM) Complete(ctx context.Context, req llm.Request) (string, *llm.Response, error) {
	m.requests = append(m.requests, req)
	if m.completeFn != nil {
		return m.completeFn(ctx, req)
	}
	return "", nil, errors.New("complete not stubbed")
}

func (m *mockLLM) Model() string { return "mock-model" }

// jsonReply decodes body into the caller's result the way a real client would.
func jsonReply(body string) func(context.Context, llm.Request, any) (*llm.Response, error) {
	return func(_ context.Context, _ llm.Request, result any) (*llm.Response, error) {
		if err := json.Unmarshal([]byte(body), result); err != nil {
			return nil, errors.Join(llm.ErrInvalidJSON, err)
		}
		return &llm.Response{}, nil
	}
}

type mockNewsClient struct {
	everythingFn func(ctx context.Context, query string) ([]model.Article, error)
	queries      []string
}

func (m *mockNewsClient) Everything(ctx context.Context, query string) ([]model.Article, error) {
	m.queries = append(m.queries, query)
	if m.everythingFn != nil {
		return m.everythingFn(ctx, query)
	}
	return nil, nil
}

type mockSender struct {
	disabled bool
	sendFn   func(ctx context.Context, msg mail.Message) error
	sent     []mail.Message
}

func (m *mockSender) Enabled() bool { return !m.disabled }

func (m *mockSender) Send(ctx context.Context, msg mail.Message) error {
	if m.disabled {
		return mail.ErrNotConfigured
	}
	if m.sendFn != nil {
		if err := m.sendFn(ctx, msg); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

// memThreatStore is an in-memory store.ThreatStore with the same duplicate and not-found
// semantics as the real backends.
type memThreatStore struct {
	mu      sync.Mutex
	threats []model.Threat
	listErr error
}

func (m *memThreatStore) List(context.Context) ([]model.Threat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.threats), nil
}

func (m *memThreatStore) Append(_ context.Context, t model.Threat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(t.ID) >= 0 {
		return store.ErrDuplicateID
	}
	m.threats = append(m.threats, t)
	return nil
}

func (m *memThreatStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return store.ErrNotFound
	}
	m.threats = slices.Delete(m.threats, i, i+1)
	return nil
}

func (m *memThreatStore) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(id) >= 0, nil
}

func (m *memThreatStore) Replace(_ context.Context, threats []model.Threat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threats = slices.Clone(threats)
	return nil
}

func (m *memThreatStore) indexOf(id string) int {
	return slices.IndexFunc(m.threats, func(t model.Threat) bool { return t.ID == id })
}

type memRecipientStore struct {
	email string
}

func (m *memRecipientStore) Get(context.Context) (string, error) { return m.email, nil }

func (m *memRecipientStore) Set(_ context.Context, email string) error {
	m.email = email
	return nil
}
