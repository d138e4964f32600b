package schedule

import (
	"context"
	"sync"

	"github.com/sig-0/pricecast/registry"
	"github.com/sig-0/pricecast/resolve"
)

type (
	resolveAllDelegate func(context.Context, []registry.Category) []resolve.Resolution
	publishDelegate    func(context.Context, string) error
)

type mockResolver struct {
	resolveAllFn resolveAllDelegate
}

func (m *mockResolver) ResolveAll(ctx context.Context, categories []registry.Category) []resolve.Resolution {
	if m.resolveAllFn != nil {
		return m.resolveAllFn(ctx, categories)
	}

	return nil
}

type mockPublisher struct {
	publishFn publishDelegate

	mux      sync.Mutex
	messages []string
}

func (m *mockPublisher) Publish(ctx context.Context, text string) error {
	m.mux.Lock()
	m.messages = append(m.messages, text)
	m.mux.Unlock()

	if m.publishFn != nil {
		return m.publishFn(ctx, text)
	}

	return nil
}

func (m *mockPublisher) published() []string {
	m.mux.Lock()
	defer m.mux.Unlock()

	return append([]string(nil), m.messages...)
}
