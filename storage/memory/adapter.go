package memory

import (
	"context"
	"sync"

	"github.com/sig-0/pricecast/storage/types"
)

type Storage struct {
	latest *types.Snapshot

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{}
}

func (s *Storage) SaveSnapshot(_ context.Context, snap *types.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	elem := snap.Clone()
	elem.Timestamp = elem.Timestamp.UTC()

	s.mu.Lock()
	s.latest = elem
	s.mu.Unlock()

	return nil
}

func (s *Storage) LatestSnapshot(_ context.Context) (*types.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latest.Clone(), nil
}
