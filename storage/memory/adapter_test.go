package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/pricecast/storage/types"
)

func testSnapshot() *types.Snapshot {
	return &types.Snapshot{
		ID:        "cnv1q3rk0000000000a0",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Prices: map[string]types.PriceEntry{
			"usd": {
				Value:   decimal.NewFromInt(96_000),
				Name:    "دلار آمریکا",
				Unit:    "toman",
				Source:  "navasan",
				Display: "96,000",
			},
		},
		Unavailable: []string{"btc"},
	}
}

func TestStorage_LatestSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("empty storage", func(t *testing.T) {
		t.Parallel()

		snap, err := NewStorage().LatestSnapshot(context.Background())

		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("latest replaces previous", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		first := testSnapshot()
		require.NoError(t, s.SaveSnapshot(context.Background(), first))

		second := testSnapshot()
		second.ID = "cnv1q3rk0000000000b0"
		require.NoError(t, s.SaveSnapshot(context.Background(), second))

		latest, err := s.LatestSnapshot(context.Background())
		require.NoError(t, err)

		assert.Equal(t, second.ID, latest.ID)
	})

	t.Run("saved snapshot is isolated from the caller", func(t *testing.T) {
		t.Parallel()

		s := NewStorage()

		snap := testSnapshot()
		require.NoError(t, s.SaveSnapshot(context.Background(), snap))

		snap.Prices["eur"] = types.PriceEntry{Display: "105,000"}
		snap.Unavailable[0] = "eth"

		latest, err := s.LatestSnapshot(context.Background())
		require.NoError(t, err)

		assert.Len(t, latest.Prices, 1)
		assert.Equal(t, []string{"btc"}, latest.Unavailable)
	})
}

func TestStorage_SaveSnapshot_Invalid(t *testing.T) {
	t.Parallel()

	s := NewStorage()

	assert.ErrorIs(t, s.SaveSnapshot(context.Background(), nil), types.ErrInvalidSnapshot)
	assert.ErrorIs(t, s.SaveSnapshot(context.Background(), &types.Snapshot{ID: "x"}), types.ErrInvalidSnapshot)
}
