package worldclock

import (
	"testing"
	"time"
)

func TestFixedClock_Now(t *testing.T) {
	at := time.Date(2026, time.August, 3, 12, 0, 0, 0, time.UTC)
	c := FixedClock{At: at}
	if got := c.Now(); !got.Equal(at) {
		t.Errorf("Now() = %v; want %v", got, at)
	}
}

func TestSystemClock_Now(t *testing.T) {
	before := time.Now()
	got := SystemClock{}.Now()
	after := time.Now()
	if got.Before(before) || got.After(after.Add(time.Second)) {
		t.Errorf("Now() = %v; want between %v and %v", got, before, after)
	}
}
