package lock

import "context"

// Tx is the subset of a SQL transaction the manager needs to emit
// statements onto. The caller supplies it and owns commit/rollback
// (§4.7, §5) — the manager never calls either.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// BindingRow is the wire shape of one character_instance_lock row
// (§6).
type BindingRow struct {
	GUID                    int64
	MapID                   int32
	LockID                  int32
	InstanceID              int32
	DifficultyID            int32
	Data                    string
	CompletedEncountersMask uint64
	EntranceWorldSafeLocID  int32
	ExpiryTime              int64 // unix seconds
	Extended                bool
}

// SharedInstanceRow is the wire shape of one instance2 row (§6).
type SharedInstanceRow struct {
	InstanceID              int32
	Data                    string
	CompletedEncountersMask uint64
	EntranceWorldSafeLocID  int32
}

// Repository is the persistence engine the manager is loaded from
// and, outside of transactional updates, fires single statements at
// (§6 "Toggle extension", "Delete shared record").
type Repository interface {
	LoadAllSharedInstances(ctx context.Context) ([]SharedInstanceRow, error)
	LoadAllBindings(ctx context.Context) ([]BindingRow, error)

	// DeleteOrphanedBinding self-heals a per-player row whose shared
	// record is missing at load (§6 Load, §7 class 2).
	DeleteOrphanedBinding(ctx context.Context, guid int64, mapID, lockID int32) error

	// SetExtended is the fire-and-forget toggle statement (§6).
	SetExtended(ctx context.Context, guid int64, mapID, lockID int32, extended bool) error

	// DeleteSharedInstance fires from the registry's deletion hook
	// when the manager is not unloading (§4.3, §6 "Delete shared
	// record").
	DeleteSharedInstance(ctx context.Context, instanceID int32) error
}

func (r *BindingRow) toBinding() *Binding {
	return &Binding{
		MapID:                   r.MapID,
		DifficultyID:            r.DifficultyID,
		LockID:                  r.LockID,
		InstanceID:              r.InstanceID,
		Data:                    r.Data,
		CompletedEncountersMask: r.CompletedEncountersMask,
		EntranceWorldSafeLocID:  r.EntranceWorldSafeLocID,
	}
}

func (r *SharedInstanceRow) toSharedInstance() *SharedInstance {
	return &SharedInstance{
		InstanceID:              r.InstanceID,
		Data:                    r.Data,
		CompletedEncountersMask: r.CompletedEncountersMask,
		EntranceWorldSafeLocID:  r.EntranceWorldSafeLocID,
	}
}
