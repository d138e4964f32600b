// Package report renders resolved prices into channel messages
package report

import (
	"fmt"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/go-universal/jalaali"
	"github.com/shopspring/decimal"

	"github.com/sig-0/pricecast/registry"
	"github.com/sig-0/pricecast/resolve"
)

const (
	DigitsLatin   = "en"
	DigitsPersian = "fa"

	// DefaultPlaceholder is shown in place of an unavailable price
	DefaultPlaceholder = "نامشخص"

	DefaultInterval = 30 * time.Minute

	timestampFormat = "2006/01/02 - 15:04"
)

// section is a titled block of the report, holding one or more groups
type section struct {
	title  string
	groups []registry.Group
}

// sections are rendered in this order, regardless of registry order
var sections = []section{
	{title: "💰 ارزهای خارجی", groups: []registry.Group{registry.GroupCurrency}},
	{title: "🥇 بازار طلا", groups: []registry.Group{registry.GroupGold, registry.GroupCoin}},
	{title: "₿ ارزهای دیجیتال", groups: []registry.Group{registry.GroupStablecoin, registry.GroupCrypto}},
}

var unitLabels = map[registry.Unit]string{
	registry.UnitToman: "تومان",
	registry.UnitRial:  "ریال",
	registry.UnitUSD:   "دلار",
}

// Options configure the message composer
type Options struct {
	// Location is the timezone of rendered timestamps. Defaults to Tehran
	Location *time.Location

	// Digits is either "en" or "fa"
	Digits string

	Placeholder string
	Hashtags    []string
	Interval    time.Duration
}

// Meta is the cycle information rendered alongside the prices
type Meta struct {
	At                  time.Time
	ConsecutiveFailures int
}

// Composer builds the report and status messages
type Composer struct {
	opts Options
}

// NewComposer creates a new message composer, filling in option defaults
func NewComposer(opts Options) *Composer {
	if opts.Location == nil {
		opts.Location = jalaali.TehranTz()
	}

	if opts.Digits != DigitsPersian {
		opts.Digits = DigitsLatin
	}

	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	return &Composer{opts: opts}
}

// Compose renders the price report. Every category is listed,
// unavailable ones carry the placeholder
func (c *Composer) Compose(resolutions []resolve.Resolution, meta Meta) string {
	var b strings.Builder

	b.WriteString("📊 گزارش قیمت‌ها\n")
	fmt.Fprintf(&b, "🕐 زمان آپدیت: %s\n", c.timestamp(meta.At))

	for _, s := range sections {
		lines := c.sectionLines(s, resolutions)
		if len(lines) == 0 {
			continue
		}

		b.WriteString("\n")
		b.WriteString(s.title)
		b.WriteString(":\n")

		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "🔄 آپدیت بعدی: %s\n", intervalText(c.opts.Interval))
	fmt.Fprintf(&b, "✅ وضعیت: آنلاین | خطاهای متوالی: %d", meta.ConsecutiveFailures)

	if len(c.opts.Hashtags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(hashtags(c.opts.Hashtags))
	}

	return c.digits(b.String())
}

func (c *Composer) sectionLines(s section, resolutions []resolve.Resolution) []string {
	var lines []string

	for _, res := range resolutions {
		if !inGroups(res.Category.Group, s.groups) {
			continue
		}

		lines = append(lines, c.line(res))
	}

	return lines
}

// line renders a single category, ex. "• 💵 دلار آمریکا: 96,000 تومان"
func (c *Composer) line(res resolve.Resolution) string {
	var b strings.Builder

	b.WriteString("• ")

	if res.Category.Emoji != "" {
		b.WriteString(res.Category.Emoji)
		b.WriteString(" ")
	}

	name := res.Category.Name
	if name == "" {
		name = res.Category.ID
	}

	b.WriteString(name)
	b.WriteString(": ")

	if !res.Available() {
		b.WriteString(c.opts.Placeholder)

		return b.String()
	}

	b.WriteString(res.Price.Display)

	if label, ok := unitLabels[res.Price.Unit]; ok {
		b.WriteString(" ")
		b.WriteString(label)
	}

	if res.Price.Change != nil {
		b.WriteString(" ")
		b.WriteString(changeText(*res.Price.Change))
	}

	return b.String()
}

// changeText renders a signed 24h change, ex. "(+2.31%)"
func changeText(change decimal.Decimal) string {
	sign := ""
	if !change.IsNegative() {
		sign = "+"
	}

	return "(" + sign + change.StringFixed(2) + "%)"
}

func (c *Composer) timestamp(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}

	return jalaali.New(at.In(c.opts.Location)).Format(timestampFormat)
}

func (c *Composer) digits(s string) string {
	if c.opts.Digits == DigitsPersian {
		return ToPersianDigits(s)
	}

	return s
}

func inGroups(g registry.Group, groups []registry.Group) bool {
	for _, candidate := range groups {
		if g == candidate {
			return true
		}
	}

	return false
}

func hashtags(tags []string) string {
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
		if tag == "" {
			continue
		}

		out = append(out, "#"+strings.ReplaceAll(tag, " ", "_"))
	}

	return strings.Join(out, " ")
}

// intervalText renders the update interval, ex. "30 دقیقه دیگر"
func intervalText(d time.Duration) string {
	return intervalPhrase(d) + " دیگر"
}

var persianDigits = strings.NewReplacer(
	"0", "۰",
	"1", "۱",
	"2", "۲",
	"3", "۳",
	"4", "۴",
	"5", "۵",
	"6", "۶",
	"7", "۷",
	"8", "۸",
	"9", "۹",
)

// ToPersianDigits replaces ASCII digits with their Persian forms
func ToPersianDigits(s string) string {
	return persianDigits.Replace(s)
}
