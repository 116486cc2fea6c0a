package catalog

import "time"

// LockEntries is the resolved (map, difficulty) pair the lock manager
// operates on — what spec.md's operations pass around as "entries".
type LockEntries struct {
	Map        *MapEntry
	Difficulty *MapDifficultyEntry
}

// MapID returns the resolved map's identifier.
func (e LockEntries) MapID() int32 { return e.Map.ID }

// LockID returns the lock-group this difficulty belongs to.
func (e LockEntries) LockID() int32 { return e.Difficulty.LockID }

// DifficultyID returns the resolved difficulty's identifier.
func (e LockEntries) DifficultyID() int32 { return e.Difficulty.DifficultyID }

// HasResetSchedule reports whether the dungeon participates in the
// lock system at all.
func (e LockEntries) HasResetSchedule() bool {
	return e.Difficulty.Reset != ResetNone
}

// IsInstanceIdBound reports whether all players bound to the same
// saved copy share one progress record (§4.1).
func (e LockEntries) IsInstanceIdBound() bool {
	return !e.Difficulty.FlexLocking && !e.Difficulty.EncounterLocked
}

// IsFlexLocking reports whether per-boss masks, not instance identity,
// govern admission.
func (e LockEntries) IsFlexLocking() bool { return e.Difficulty.FlexLocking }

// IsUsingEncounterLocks reports whether progress is locked per
// encounter rather than at the zone boundary.
func (e LockEntries) IsUsingEncounterLocks() bool { return e.Difficulty.EncounterLocked }

// ResetInterval returns the configured reset cadence.
func (e LockEntries) ResetInterval() ResetInterval { return e.Difficulty.Reset }

// RaidDuration returns the extension length for this difficulty.
func (e LockEntries) RaidDuration() time.Duration {
	return time.Duration(e.Difficulty.RaidDuration) * time.Second
}
