// Package lock implements the instance lock manager: the subsystem
// that tracks which players are bound to which saved copies of
// reset-scheduled dungeons and raids, and whether a player may enter
// an instance in progress.
//
// The manager is single-threaded-cooperative with respect to its own
// state (callers serialize mutation through the world's main tick);
// the mutex here exists for defensive safety and for read-heavy
// lookups from multiple goroutines, matching the teacher's
// instance.Manager and raid.GrandBossManager.
package lock

import "time"

// LockKey identifies a player's binding slot. Per §3 "Lock-group
// identity", this is (mapId, lockId), not (mapId, difficultyId):
// multiple difficulties can share one lock group.
type LockKey struct {
	MapID  int32
	LockID int32
}

// Binding is a player's durable association with one saved copy of a
// reset-scheduled dungeon (§3).
type Binding struct {
	MapID        int32
	DifficultyID int32
	LockID       int32

	// InstanceID is the numeric handle of the saved copy. Zero while
	// the binding is temporary and no instance has yet materialized.
	InstanceID int32

	ExpiryTime time.Time
	Extended   bool

	Data                    string
	CompletedEncountersMask uint64
	EntranceWorldSafeLocID  int32

	// shared is the owning handle to the joint progress record, held
	// only by instance-bound dungeons' bindings. Nil otherwise.
	shared *sharedHandle
}

// Key returns the binding's store key.
func (b *Binding) Key() LockKey {
	return LockKey{MapID: b.MapID, LockID: b.LockID}
}

// IsExpired reports whether the binding's raw expiry has passed,
// ignoring extension (§4.5.5).
func (b *Binding) IsExpired(now time.Time) bool {
	return b.ExpiryTime.Before(now)
}

// EffectiveExpiryTime computes the binding's effective expiry per
// invariant I3 / §4.5.5: the raw expiry when not extended; when
// extended, the next reset if already expired, else the raw expiry
// plus the difficulty's raid duration.
func (b *Binding) EffectiveExpiryTime(now time.Time, nextReset time.Time, raidDuration time.Duration) time.Time {
	if !b.Extended {
		return b.ExpiryTime
	}
	if b.IsExpired(now) {
		return nextReset
	}
	return b.ExpiryTime.Add(raidDuration)
}

// SharedInstance is the joint progress record for an instance-bound
// dungeon: it exists while at least one permanent binding references
// it (§3).
type SharedInstance struct {
	InstanceID              int32
	Data                    string
	CompletedEncountersMask uint64
	EntranceWorldSafeLocID  int32
}

// EncounterCompletion names the boss just killed, by bit index into
// the completed-encounters bitmask.
type EncounterCompletion struct {
	Bit uint
}

// UpdateEvent carries the payload of an encounter-completion update
// (§4.5.2) or a shared-instance update (§4.5.3).
type UpdateEvent struct {
	InstanceID                      int32
	NewData                         string
	CompletedEncounter              *EncounterCompletion
	InstanceCompletedEncountersMask uint64
}
