package mock

import (
	"context"

	"github.com/sig-0/pricecast/storage/types"
)

type (
	SaveSnapshotDelegate   func(context.Context, *types.Snapshot) error
	LatestSnapshotDelegate func(context.Context) (*types.Snapshot, error)
)

type Storage struct {
	SaveSnapshotFn   SaveSnapshotDelegate
	LatestSnapshotFn LatestSnapshotDelegate
}

func (m *Storage) SaveSnapshot(ctx context.Context, snap *types.Snapshot) error {
	if m.SaveSnapshotFn != nil {
		return m.SaveSnapshotFn(ctx, snap)
	}

	return nil
}

func (m *Storage) LatestSnapshot(ctx context.Context) (*types.Snapshot, error) {
	if m.LatestSnapshotFn != nil {
		return m.LatestSnapshotFn(ctx)
	}

	return nil, nil
}
