package price

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/pricecast/registry"
)

func usdCategory() registry.Category {
	return registry.Category{
		ID:        "usd",
		Unit:      registry.UnitToman,
		MinorUnit: registry.UnitRial,
		Divisor:   10,
		Min:       decimal.NewFromInt(50_000),
		Max:       decimal.NewFromInt(200_000),
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain integer", "95060", "95060"},
		{"thousands separators", "96,000", "96000"},
		{"surrounding space", "  1,234,567 \n", "1234567"},
		{"persian digits", "۹۶,۰۰۰", "96000"},
		{"arabic separator", "۹۶٬۰۰۰", "96000"},
		{"arabic-indic digits", "٩٦٠٠٠", "96000"},
		{"decimal", "67,123.45", "67123.45"},
		{"arabic decimal separator", "۱۲۳٫۵", "123.5"},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			v, err := Parse(testCase.input)
			require.NoError(t, err)

			assert.Equal(t, testCase.expected, v.String())
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"", " ", "n/a", "12a", "-500", "1.2.3", ",,,", "$100"} {
			_, err := Parse(input)

			assert.ErrorIs(t, err, ErrNotNumeric, input)
		}
	})
}

func TestPlausible(t *testing.T) {
	t.Parallel()

	c := usdCategory()

	t.Run("inclusive bounds", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Plausible("50,000", c))
		assert.True(t, Plausible("200,000", c))
	})

	t.Run("one unit outside", func(t *testing.T) {
		t.Parallel()

		assert.False(t, Plausible("49,999", c))
		assert.False(t, Plausible("200,001", c))
	})

	t.Run("inside", func(t *testing.T) {
		t.Parallel()

		assert.True(t, Plausible("96,000", c))
	})

	t.Run("unparseable", func(t *testing.T) {
		t.Parallel()

		assert.False(t, Plausible("views: 96k", c))
	})

	t.Run("matches parse and range", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"0", "1", "49999", "50000", "123456", "200000", "200001", "950600"} {
			v, err := Parse(input)
			require.NoError(t, err)

			expected := v.GreaterThanOrEqual(c.Min) && v.LessThanOrEqual(c.Max)

			assert.Equal(t, expected, Plausible(input, c), input)
		}
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	c := usdCategory()

	t.Run("minor unit divided", func(t *testing.T) {
		t.Parallel()

		v, err := Normalize(decimal.NewFromInt(950_600), registry.UnitRial, c)
		require.NoError(t, err)

		assert.True(t, v.Equal(decimal.NewFromInt(95_060)), v.String())
	})

	t.Run("integer division truncates", func(t *testing.T) {
		t.Parallel()

		v, err := Normalize(decimal.NewFromInt(950_609), registry.UnitRial, c)
		require.NoError(t, err)

		assert.True(t, v.Equal(decimal.NewFromInt(95_060)), v.String())
	})

	t.Run("canonical unit unchanged", func(t *testing.T) {
		t.Parallel()

		v, err := Normalize(decimal.NewFromInt(95_060), registry.UnitToman, c)
		require.NoError(t, err)

		assert.True(t, v.Equal(decimal.NewFromInt(95_060)), v.String())
	})

	t.Run("coin scale", func(t *testing.T) {
		t.Parallel()

		coin := usdCategory()
		coin.Min = decimal.NewFromInt(30_000_000)
		coin.Max = decimal.NewFromInt(80_000_000)

		v, err := Normalize(decimal.NewFromInt(470_000_000), registry.UnitRial, coin)
		require.NoError(t, err)

		assert.True(t, v.Equal(decimal.NewFromInt(47_000_000)), v.String())
		assert.True(t, InRange(v, coin))
	})

	t.Run("precision kept for usd", func(t *testing.T) {
		t.Parallel()

		btc := registry.Category{
			ID:        "btc",
			Unit:      registry.UnitUSD,
			Divisor:   1,
			Precision: 2,
		}

		v, err := Normalize(decimal.RequireFromString("67123.456"), registry.UnitUSD, btc)
		require.NoError(t, err)

		assert.Equal(t, "67123.45", v.String())
	})

	t.Run("unit mismatch", func(t *testing.T) {
		t.Parallel()

		_, err := Normalize(decimal.NewFromInt(1), registry.UnitUSD, c)

		assert.ErrorIs(t, err, ErrUnitMismatch)
	})
}

func TestFormat(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		value     decimal.Decimal
		name      string
		expected  string
		precision int32
	}{
		{decimal.NewFromInt(7), "single digit", "7", 0},
		{decimal.NewFromInt(960), "three digits", "960", 0},
		{decimal.NewFromInt(96_000), "thousands", "96,000", 0},
		{decimal.NewFromInt(47_000_000), "millions", "47,000,000", 0},
		{decimal.RequireFromString("67123.4"), "padded decimals", "67,123.40", 2},
		{decimal.RequireFromString("999.999"), "rounded decimals", "1,000.00", 2},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, Format(testCase.value, testCase.precision))
		})
	}
}
