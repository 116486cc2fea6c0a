package lock

// sharedHandle is an owning reference to a registered SharedInstance.
// Every Binding that is instance-bound to the same instanceId holds
// one; the record is erased the moment the last handle detaches
// (§3, §4.3, §9 — refcounting, not weak.Pointer; see DESIGN.md).
type sharedHandle struct {
	instanceID int32
}

// registryEntry pairs a SharedInstance with its refcount.
type registryEntry struct {
	record *SharedInstance
	refs   int
}

// sharedRegistry tracks live SharedInstance records keyed by
// instanceId. It is not safe for concurrent use on its own; callers
// hold Manager's mutex.
type sharedRegistry struct {
	entries map[int32]*registryEntry
}

func newSharedRegistry() *sharedRegistry {
	return &sharedRegistry{entries: make(map[int32]*registryEntry)}
}

// register inserts or replaces the record for instanceID with a zero
// refcount. Used when a shared record is first materialized or
// loaded from storage, before any binding attaches to it.
func (r *sharedRegistry) register(instanceID int32, record *SharedInstance) {
	r.entries[instanceID] = &registryEntry{record: record}
}

// lookup returns the live record for instanceID, or nil if none is
// registered.
func (r *sharedRegistry) lookup(instanceID int32) *SharedInstance {
	e, ok := r.entries[instanceID]
	if !ok {
		return nil
	}
	return e.record
}

// attach takes an owning reference on instanceID's record, which
// must already be registered. Panics otherwise — a binding can never
// legitimately attach to a record nobody created (§9).
func (r *sharedRegistry) attach(instanceID int32) *sharedHandle {
	e, ok := r.entries[instanceID]
	assertf(ok, "lock: attach to unregistered shared instance %d", instanceID)
	e.refs++
	return &sharedHandle{instanceID: instanceID}
}

// detach releases one owning reference. When the refcount reaches
// zero the entry is erased from the registry synchronously, before
// onDelete is invoked — so a concurrent lookup can never observe a
// record whose deletion is in flight (§5 reentrancy safety). onDelete
// is skipped while unloading is true, per P4: teardown never emits a
// shared-delete statement.
func (r *sharedRegistry) detach(h *sharedHandle, unloading bool, onDelete func(instanceID int32)) {
	if h == nil {
		return
	}
	e, ok := r.entries[h.instanceID]
	assertf(ok, "lock: detach of unregistered shared instance %d", h.instanceID)
	e.refs--
	if e.refs > 0 {
		return
	}
	delete(r.entries, h.instanceID)
	if !unloading && onDelete != nil {
		onDelete(h.instanceID)
	}
}

// clear wipes the registry with no hook invocations. Used only by
// Manager.Unload, so that teardown does not look like deletion: no
// shared-delete statement is emitted for the records it drops.
func (r *sharedRegistry) clear() {
	r.entries = make(map[int32]*registryEntry)
}
