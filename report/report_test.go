package report

import (
	"strings"
	"testing"
	"time"

	"github.com/go-universal/jalaali"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/pricecast/price"
	"github.com/sig-0/pricecast/registry"
	"github.com/sig-0/pricecast/resolve"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func resolved(c registry.Category, display string) resolve.Resolution {
	return resolve.Resolution{
		Category: c,
		Price: &price.ResolvedPrice{
			Value:    decimal.RequireFromString(strings.ReplaceAll(display, ",", "")),
			Category: c.ID,
			Display:  display,
			Unit:     c.Unit,
		},
	}
}

func decimalPtr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)

	return &v
}

func unavailable(c registry.Category) resolve.Resolution {
	return resolve.Resolution{
		Category: c,
		Err:      resolve.ErrCategoryUnavailable,
	}
}

var (
	usd = registry.Category{
		ID:    "usd",
		Name:  "دلار آمریکا",
		Emoji: "💵",
		Group: registry.GroupCurrency,
		Unit:  registry.UnitToman,
	}

	coin = registry.Category{
		ID:    "emami",
		Name:  "سکه امامی",
		Emoji: "🪙",
		Group: registry.GroupCoin,
		Unit:  registry.UnitToman,
	}

	btc = registry.Category{
		ID:    "btc",
		Name:  "بیت‌کوین",
		Group: registry.GroupCrypto,
		Unit:  registry.UnitUSD,
	}
)

func TestComposer_Compose(t *testing.T) {
	t.Parallel()

	t.Run("full report", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(Options{Interval: 30 * time.Minute})

		msg := c.Compose(
			[]resolve.Resolution{
				// Registry order does not dictate section order
				resolved(btc, "67,123.40"),
				resolved(usd, "96,000"),
				resolved(coin, "47,000,000"),
			},
			Meta{At: testTime, ConsecutiveFailures: 0},
		)

		stamp := jalaali.New(testTime.In(jalaali.TehranTz())).Format(timestampFormat)

		expected := "📊 گزارش قیمت‌ها\n" +
			"🕐 زمان آپدیت: " + stamp + "\n" +
			"\n💰 ارزهای خارجی:\n" +
			"• 💵 دلار آمریکا: 96,000 تومان\n" +
			"\n🥇 بازار طلا:\n" +
			"• 🪙 سکه امامی: 47,000,000 تومان\n" +
			"\n₿ ارزهای دیجیتال:\n" +
			"• بیت‌کوین: 67,123.40 دلار\n" +
			"\n🔄 آپدیت بعدی: 30 دقیقه دیگر\n" +
			"✅ وضعیت: آنلاین | خطاهای متوالی: 0"

		assert.Equal(t, expected, msg)
	})

	t.Run("unavailable categories use the placeholder", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(Options{})

		msg := c.Compose(
			[]resolve.Resolution{
				unavailable(usd),
				resolved(coin, "47,000,000"),
			},
			Meta{At: testTime},
		)

		assert.Contains(t, msg, "• 💵 دلار آمریکا: نامشخص\n")
		assert.Contains(t, msg, "• 🪙 سکه امامی: 47,000,000 تومان\n")
		assert.NotContains(t, msg, "ارزهای دیجیتال")
	})

	t.Run("custom placeholder", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(Options{Placeholder: "ناموجود"})

		msg := c.Compose([]resolve.Resolution{unavailable(usd)}, Meta{At: testTime})

		assert.Contains(t, msg, "دلار آمریکا: ناموجود")
	})

	t.Run("every category unavailable", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(Options{})

		msg := c.Compose(
			[]resolve.Resolution{unavailable(usd), unavailable(coin), unavailable(btc)},
			Meta{At: testTime, ConsecutiveFailures: 3},
		)

		assert.Equal(t, 3, strings.Count(msg, DefaultPlaceholder))
		assert.Contains(t, msg, "خطاهای متوالی: 3")
	})

	t.Run("persian digits", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(Options{Digits: DigitsPersian, Interval: 15 * time.Minute})

		msg := c.Compose([]resolve.Resolution{resolved(usd, "96,000")}, Meta{At: testTime})

		assert.Contains(t, msg, "• 💵 دلار آمریکا: ۹۶,۰۰۰ تومان")
		assert.Contains(t, msg, "۱۵ دقیقه دیگر")
		assert.NotContains(t, msg, "96")
	})

	t.Run("hashtags", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(Options{Hashtags: []string{"#دلار", "سکه", " ", "قیمت لحظه‌ای"}})

		msg := c.Compose([]resolve.Resolution{resolved(usd, "96,000")}, Meta{At: testTime})

		assert.True(t, strings.HasSuffix(msg, "\n\n#دلار #سکه #قیمت_لحظه‌ای"))
	})

	t.Run("24h change", func(t *testing.T) {
		t.Parallel()

		up := resolved(btc, "67,123.40")
		up.Price.Change = decimalPtr("2.3111")

		down := resolved(registry.Category{ID: "eth", Name: "اتریوم", Group: registry.GroupCrypto, Unit: registry.UnitUSD}, "3,210.00")
		down.Price.Change = decimalPtr("-0.5")

		msg := NewComposer(Options{}).Compose([]resolve.Resolution{up, down}, Meta{At: testTime})

		assert.Contains(t, msg, "• بیت‌کوین: 67,123.40 دلار (+2.31%)\n")
		assert.Contains(t, msg, "• اتریوم: 3,210.00 دلار (-0.50%)\n")
	})

	t.Run("category without a name", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(Options{})

		msg := c.Compose(
			[]resolve.Resolution{resolved(registry.Category{ID: "aed", Group: registry.GroupCurrency, Unit: registry.UnitToman}, "26,100")},
			Meta{At: testTime},
		)

		assert.Contains(t, msg, "• aed: 26,100 تومان")
	})
}

func TestComposer_Status(t *testing.T) {
	t.Parallel()

	c := NewComposer(Options{Interval: 30 * time.Minute})

	started := c.Started(testTime)
	assert.Contains(t, started, "شروع شد")
	assert.Contains(t, started, "هر 30 دقیقه")

	degraded := c.Degraded(testTime, 5)
	assert.Contains(t, degraded, "🔴")
	assert.Contains(t, degraded, "تعداد خطا: 5")

	recovered := c.Recovered(testTime)
	assert.Contains(t, recovered, "بازگشت به حالت عادی")

	ping := c.Ping(testTime)
	assert.Contains(t, ping, "پیام آزمایشی")
}

func TestNewComposer_Defaults(t *testing.T) {
	t.Parallel()

	c := NewComposer(Options{Digits: "xx"})

	require.NotNil(t, c)

	assert.Equal(t, DigitsLatin, c.opts.Digits)
	assert.Equal(t, DefaultPlaceholder, c.opts.Placeholder)
	assert.Equal(t, DefaultInterval, c.opts.Interval)
	assert.NotNil(t, c.opts.Location)
}

func TestIntervalText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "30 دقیقه دیگر", intervalText(30*time.Minute))
	assert.Equal(t, "90 ثانیه دیگر", intervalText(90*time.Second))
}

func TestToPersianDigits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "۱۴۰۴/۱۰/۰۹ - ۱۶:۴۰", ToPersianDigits("1404/10/09 - 16:40"))
	assert.Equal(t, "no digits", ToPersianDigits("no digits"))
}
