package file

import (
	"context"
	"os"
	"path/filepath"
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
				Group:   "currency",
				Unit:    "toman",
				Source:  "navasan",
				Display: "96,000",
			},
		},
		Unavailable: []string{"btc"},
	}
}

func TestNewStorage_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := NewStorage("")

	assert.ErrorIs(t, err, errEmptyPath)
}

func TestStorage_SaveSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directory", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "logs", "latest_prices.json")

		s, err := NewStorage(path)
		require.NoError(t, err)

		require.NoError(t, s.SaveSnapshot(context.Background(), testSnapshot()))

		content, err := os.ReadFile(path)
		require.NoError(t, err)

		// Persian text is written as-is, and the document is indented
		assert.Contains(t, string(content), "دلار آمریکا")
		assert.Contains(t, string(content), "\n  \"prices\"")
	})

	t.Run("no temporary files remain", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()

		s, err := NewStorage(filepath.Join(dir, "latest.json"))
		require.NoError(t, err)

		require.NoError(t, s.SaveSnapshot(context.Background(), testSnapshot()))
		require.NoError(t, s.SaveSnapshot(context.Background(), testSnapshot()))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)

		require.Len(t, entries, 1)
		assert.Equal(t, "latest.json", entries[0].Name())
	})

	t.Run("invalid snapshot", func(t *testing.T) {
		t.Parallel()

		s, err := NewStorage(filepath.Join(t.TempDir(), "latest.json"))
		require.NoError(t, err)

		assert.ErrorIs(t, s.SaveSnapshot(context.Background(), nil), types.ErrInvalidSnapshot)
	})
}

func TestStorage_LatestSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		s, err := NewStorage(filepath.Join(t.TempDir(), "latest.json"))
		require.NoError(t, err)

		snap, err := s.LatestSnapshot(context.Background())

		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	t.Run("reads a previous run", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "latest.json")

		previous, err := NewStorage(path)
		require.NoError(t, err)
		require.NoError(t, previous.SaveSnapshot(context.Background(), testSnapshot()))

		s, err := NewStorage(path)
		require.NoError(t, err)

		snap, err := s.LatestSnapshot(context.Background())
		require.NoError(t, err)
		require.NotNil(t, snap)

		expected := testSnapshot()

		assert.Equal(t, expected.ID, snap.ID)
		assert.True(t, expected.Timestamp.Equal(snap.Timestamp))
		assert.Equal(t, []string{"btc"}, snap.Unavailable)

		require.Contains(t, snap.Prices, "usd")
		assert.True(t, decimal.NewFromInt(96_000).Equal(snap.Prices["usd"].Value))
		assert.Equal(t, "96,000", snap.Prices["usd"].Display)
	})

	t.Run("corrupt file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "latest.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		s, err := NewStorage(path)
		require.NoError(t, err)

		_, err = s.LatestSnapshot(context.Background())
		assert.Error(t, err)
	})
}
