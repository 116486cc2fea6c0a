package lock

import (
	"time"

	"github.com/mikatholic/dragonflight/internal/catalog"
)

// NextResetTime computes the next reset instant for a dungeon with
// the given reset interval, relative to now, using the configured
// daily reset hour and (for weekly resets) weekday (§4.2).
//
// Daily: today at hourOfDay if now's hour is before hourOfDay, else
// tomorrow at hourOfDay.
//
// Weekly: the next occurrence of dayOfWeek at hourOfDay strictly
// after now; if today is the reset day and now's hour is at or past
// hourOfDay, rolls forward seven days.
//
// Other/none: now, truncated to the hour (unused by bound dungeons).
//
// Minutes and seconds are always zeroed. The result is computed in
// now's location; DST transitions may yield a reset 23 or 25 hours
// away — this is accepted, not special-cased (§9).
func NextResetTime(now time.Time, interval catalog.ResetInterval, hourOfDay, dayOfWeek int) time.Time {
	loc := now.Location()

	switch interval {
	case catalog.ResetDaily:
		reset := time.Date(now.Year(), now.Month(), now.Day(), hourOfDay, 0, 0, 0, loc)
		if now.Hour() < hourOfDay {
			return reset
		}
		return reset.AddDate(0, 0, 1)

	case catalog.ResetWeekly:
		daysUntil := (time.Weekday(dayOfWeek) - now.Weekday() + 7) % 7
		reset := time.Date(now.Year(), now.Month(), now.Day(), hourOfDay, 0, 0, 0, loc).AddDate(0, 0, int(daysUntil))
		if daysUntil == 0 && now.Hour() >= hourOfDay {
			reset = reset.AddDate(0, 0, 7)
		}
		return reset

	default:
		return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, loc)
	}
}
