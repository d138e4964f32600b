package resolve

import (
	"context"
	"sync"

	"github.com/sig-0/pricecast/registry"
)

type fetchDelegate func(context.Context, registry.Source) ([]byte, error)

type mockFetcher struct {
	fetchFn fetchDelegate

	mux   sync.Mutex
	calls []string
}

func (m *mockFetcher) Fetch(ctx context.Context, src registry.Source) ([]byte, error) {
	m.mux.Lock()
	m.calls = append(m.calls, src.Name)
	m.mux.Unlock()

	if m.fetchFn != nil {
		return m.fetchFn(ctx, src)
	}

	return nil, nil
}

func (m *mockFetcher) called() []string {
	m.mux.Lock()
	defer m.mux.Unlock()

	return append([]string(nil), m.calls...)
}

// bodies returns a fetch delegate serving fixed bodies by source name
func bodies(m map[string]string) fetchDelegate {
	return func(_ context.Context, src registry.Source) ([]byte, error) {
		body, ok := m[src.Name]
		if !ok {
			return nil, errNotServed
		}

		return []byte(body), nil
	}
}
