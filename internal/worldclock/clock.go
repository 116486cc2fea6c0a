// Package worldclock provides the "now" collaborator consumed by the
// instance lock manager. The manager never calls time.Now() itself —
// it asks an injected Clock, so reset-time arithmetic stays
// deterministic under test.
package worldclock

import "time"

// Clock supplies the current wall-clock instant in the host's local
// zone.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, backed by time.Now.
type SystemClock struct{}

// Now returns time.Now() in the local zone.
func (SystemClock) Now() time.Time { return time.Now().Local() }

// FixedClock is a test double that always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (f FixedClock) Now() time.Time { return f.At }
