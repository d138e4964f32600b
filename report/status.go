package report

import (
	"fmt"
	"time"
)

// Started is sent once when the service starts, if enabled
func (c *Composer) Started(at time.Time) string {
	return c.digits(fmt.Sprintf(
		"🟢 ربات قیمت شروع شد\n🕐 زمان: %s\n⏰ بازه آپدیت: هر %s",
		c.timestamp(at),
		intervalPhrase(c.opts.Interval),
	))
}

// Degraded is sent when the consecutive failure limit is reached
func (c *Composer) Degraded(at time.Time, failures int) string {
	return c.digits(fmt.Sprintf(
		"🔴 خطای متوالی در دریافت قیمت‌ها\n🕐 زمان: %s\n⚠️ تعداد خطا: %d",
		c.timestamp(at),
		failures,
	))
}

// Recovered is sent on the first successful cycle after a degraded alert
func (c *Composer) Recovered(at time.Time) string {
	return c.digits(fmt.Sprintf(
		"🟡 بازگشت به حالت عادی\n🕐 زمان: %s\n✅ دریافت قیمت‌ها با موفقیت انجام شد",
		c.timestamp(at),
	))
}

// Ping is a connectivity test message for the channel
func (c *Composer) Ping(at time.Time) string {
	return c.digits(fmt.Sprintf(
		"✅ پیام آزمایشی ربات قیمت\n🕐 زمان: %s",
		c.timestamp(at),
	))
}

func intervalPhrase(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		return fmt.Sprintf("%d دقیقه", int(d/time.Minute))
	}

	return fmt.Sprintf("%d ثانیه", int(d.Round(time.Second)/time.Second))
}
