package lock

import "github.com/mikatholic/dragonflight/internal/catalog"

// Candidate describes the instance a player is attempting to enter,
// as seen by canJoin (§4.6).
type Candidate struct {
	InstanceID              int32
	CompletedEncountersMask uint64
}

// canJoin evaluates whether a player holding binding b (nil if none)
// may enter candidate under entries' locking discipline. Returns
// AbortNone to allow.
func canJoin(entries catalog.LockEntries, b *Binding, candidate Candidate) AbortCode {
	if !entries.HasResetSchedule() {
		return AbortNone
	}
	if b == nil {
		return AbortNone
	}

	switch {
	case entries.IsFlexLocking():
		if b.CompletedEncountersMask&^candidate.CompletedEncountersMask != 0 {
			return AbortAlreadyCompletedEncounter
		}
		return AbortNone

	case entries.IsUsingEncounterLocks():
		return AbortNone

	default: // instance-bound
		if b.InstanceID != 0 && b.InstanceID != candidate.InstanceID {
			return AbortLockedToDifferentInstance
		}
		return AbortNone
	}
}
