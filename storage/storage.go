package storage

import (
	"context"

	"github.com/sig-0/pricecast/storage/types"
)

// Storage is an abstraction over resolved price snapshots.
// Only the latest snapshot is retained
type Storage interface {
	// SaveSnapshot replaces the latest snapshot
	SaveSnapshot(context.Context, *types.Snapshot) error

	// LatestSnapshot fetches the latest snapshot, or nil if none was saved yet
	LatestSnapshot(context.Context) (*types.Snapshot, error)
}
