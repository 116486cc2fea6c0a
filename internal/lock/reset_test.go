package lock

import (
	"testing"
	"time"

	"github.com/mikatholic/dragonflight/internal/catalog"
)

func TestNextResetTime_Daily(t *testing.T) {
	now := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC) // before hour
	got := NextResetTime(now, catalog.ResetDaily, 9, 2)
	want := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextResetTime() = %v; want %v", got, want)
	}

	now = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC) // after hour
	got = NextResetTime(now, catalog.ResetDaily, 9, 2)
	want = time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextResetTime() = %v; want %v", got, want)
	}
}

func TestNextResetTime_Weekly(t *testing.T) {
	// Monday 12:00, reset Tuesday 09:00.
	now := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC) // Monday
	got := NextResetTime(now, catalog.ResetWeekly, 9, int(time.Tuesday))
	want := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextResetTime() = %v; want %v", got, want)
	}
}

func TestNextResetTime_WeeklyRollsForwardSevenDays(t *testing.T) {
	// Reset day itself, but already past the reset hour.
	now := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC) // Tuesday, past 09:00
	got := NextResetTime(now, catalog.ResetWeekly, 9, int(time.Tuesday))
	want := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextResetTime() = %v; want %v", got, want)
	}
}

func TestNextResetTime_None(t *testing.T) {
	now := time.Date(2026, time.March, 2, 12, 34, 56, 0, time.UTC)
	got := NextResetTime(now, catalog.ResetNone, 9, 2)
	want := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NextResetTime() = %v; want %v", got, want)
	}
}
