package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mikatholic/dragonflight/internal/catalog"
	"github.com/mikatholic/dragonflight/internal/worldclock"
)

// Manager is the instance lock manager: it owns every player's
// bindings and every instance-bound dungeon's shared progress record,
// and answers admission queries against them.
//
// Callers are expected to serialize mutation through a single
// goroutine (the world's main tick, §5); the mutex below exists for
// defensive safety and for reads from other goroutines, matching the
// teacher's instance.Manager and raid.GrandBossManager.
type Manager struct {
	mu sync.RWMutex

	catalog *catalog.Catalog
	clock   worldclock.Clock
	repo    Repository

	resetHour int
	resetDay  int

	store     *bindingStore
	registry  *sharedRegistry
	unloading bool

	// allocator reserves instanceIds seen at load so the map registry
	// never reissues one still referenced by a binding. Optional.
	allocator *catalog.IDAllocator

	log *slog.Logger
}

// NewManager constructs a Manager. resetHour/resetDay feed the reset
// scheduler (§4.2, §6 "Configuration"); allocator may be nil if the
// caller does not need instanceId reservation at load.
func NewManager(cat *catalog.Catalog, clock worldclock.Clock, repo Repository, resetHour, resetDay int, allocator *catalog.IDAllocator, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		catalog:   cat,
		clock:     clock,
		repo:      repo,
		resetHour: resetHour,
		resetDay:  resetDay,
		store:     newBindingStore(),
		registry:  newSharedRegistry(),
		allocator: allocator,
		log:       log,
	}
}

func (m *Manager) nextReset(entries catalog.LockEntries) time.Time {
	return NextResetTime(m.clock.Now(), entries.ResetInterval(), m.resetHour, m.resetDay)
}

// onSharedDelete is the registry's deletion hook (§4.3): erase
// already happened synchronously in sharedRegistry.detach before this
// runs, so it only has to talk to the persistence engine.
func (m *Manager) onSharedDelete(instanceID int32) {
	ctx := context.Background()
	if err := m.repo.DeleteSharedInstance(ctx, instanceID); err != nil {
		m.log.Error("deleting orphaned shared instance", "instance_id", instanceID, "error", err)
	}
}

// CreateForNewInstance builds the temporary binding for a freshly
// materialized instance (§4.5.1). Returns nil if the dungeon has no
// reset schedule — no binding is needed.
func (m *Manager) CreateForNewInstance(guid int64, mapID, difficultyID, instanceID int32) *Binding {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.catalog.Resolve(mapID, difficultyID)
	if !entries.HasResetSchedule() {
		return nil
	}

	b := &Binding{
		MapID:        mapID,
		DifficultyID: difficultyID,
		LockID:       entries.LockID(),
		ExpiryTime:   m.nextReset(entries),
	}

	if entries.IsInstanceIdBound() {
		m.registry.register(instanceID, &SharedInstance{})
		b.shared = m.registry.attach(instanceID)
	}

	m.store.setTemporary(guid, b)
	return b
}

// UpdateForPlayer applies an encounter-completion or promotion event
// (§4.5.2) and emits the resulting binding row onto tx.
func (m *Manager) UpdateForPlayer(ctx context.Context, tx Tx, guid int64, mapID, difficultyID int32, event UpdateEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.catalog.Resolve(mapID, difficultyID)
	now := m.clock.Now()
	key := LockKey{MapID: mapID, LockID: entries.LockID()}

	// Step A — locate or promote.
	b := m.store.findActive(guid, key, now, true, true)
	if b == nil {
		if promoted := m.store.takeTemporary(guid, key); promoted != nil {
			b = promoted
			m.store.setPermanent(guid, b)
		}
	}
	if b == nil {
		b = &Binding{
			MapID:        mapID,
			DifficultyID: difficultyID,
			LockID:       entries.LockID(),
			ExpiryTime:   m.nextReset(entries),
		}
		if entries.IsInstanceIdBound() {
			shared := m.registry.lookup(event.InstanceID)
			assertf(shared != nil, "lock: update for unregistered shared instance %d", event.InstanceID)
			b.shared = m.registry.attach(event.InstanceID)
		}
		m.store.setPermanent(guid, b)
	} else if entries.IsInstanceIdBound() {
		assertf(b.InstanceID == 0 || b.InstanceID == event.InstanceID,
			"lock: binding for guid %d key %+v bound to instance %d, update targets %d", guid, key, b.InstanceID, event.InstanceID)
		if b.shared == nil {
			shared := m.registry.lookup(event.InstanceID)
			assertf(shared != nil, "lock: update for unregistered shared instance %d", event.InstanceID)
			b.shared = m.registry.attach(event.InstanceID)
		} else {
			assertf(b.shared.instanceID == event.InstanceID,
				"lock: binding's shared reference (%d) does not match update target %d", b.shared.instanceID, event.InstanceID)
		}
	}

	// Step B — apply.
	b.InstanceID = event.InstanceID
	if b.shared != nil {
		if shared := m.registry.lookup(b.shared.instanceID); shared != nil {
			shared.InstanceID = event.InstanceID
		}
	}
	b.Data = event.NewData
	if event.CompletedEncounter != nil {
		b.CompletedEncountersMask |= 1 << event.CompletedEncounter.Bit
	}
	if !entries.IsUsingEncounterLocks() {
		b.CompletedEncountersMask |= event.InstanceCompletedEncountersMask
	}
	if b.ExpiryTime.Before(now) {
		assertf(b.Extended, "lock: expired, non-extended binding for guid %d key %+v reached update", guid, key)
		b.ExpiryTime = m.nextReset(entries)
		b.Extended = false
	}

	// Step C — persist.
	return m.persistBinding(ctx, tx, guid, b)
}

// UpdateSharedInstanceLock mutates the shared progress record
// directly (§4.5.3), for updates that do not also touch a specific
// player's binding row (e.g. an instance-wide trigger).
func (m *Manager) UpdateSharedInstanceLock(ctx context.Context, tx Tx, event UpdateEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	shared := m.registry.lookup(event.InstanceID)
	assertf(shared != nil, "lock: shared update for unregistered instance %d", event.InstanceID)

	shared.InstanceID = event.InstanceID
	shared.Data = event.NewData
	if event.CompletedEncounter != nil {
		shared.CompletedEncountersMask |= 1 << event.CompletedEncounter.Bit
	}

	return m.persistShared(ctx, tx, shared)
}

// SetExtended toggles whether a player's binding survives one
// additional reset past its expiry (§4.5.4). A no-op if the player
// has no active permanent binding.
func (m *Manager) SetExtended(ctx context.Context, guid int64, mapID, difficultyID int32, extend bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.catalog.Resolve(mapID, difficultyID)
	key := LockKey{MapID: mapID, LockID: entries.LockID()}
	now := m.clock.Now()

	b := m.store.findActive(guid, key, now, true, false)
	if b == nil {
		return nil
	}
	b.Extended = extend
	return m.repo.SetExtended(ctx, guid, key.MapID, key.LockID, extend)
}

// CanJoin evaluates admission for a zone transfer (§4.6).
func (m *Manager) CanJoin(guid int64, mapID, difficultyID int32, candidate Candidate) AbortCode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.catalog.Resolve(mapID, difficultyID)
	key := LockKey{MapID: mapID, LockID: entries.LockID()}
	now := m.clock.Now()

	b := m.store.findActive(guid, key, now, false, true)
	return canJoin(entries, b, candidate)
}

// ReleaseBinding drops a player's permanent binding outright, or the
// temporary binding under the same key if there is no permanent one —
// used on character deletion or a GM-issued lock reset, neither of
// which the reset scheduler itself ever does. If the binding was the
// last owner of a shared instance record, the registry's deletion hook
// fires (§4.3).
func (m *Manager) ReleaseBinding(mapID, lockID int32, guid int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := LockKey{MapID: mapID, LockID: lockID}
	if b := m.store.getPermanent(guid, key); b != nil {
		m.store.deletePermanent(guid, key)
		m.registry.detach(b.shared, m.unloading, m.onSharedDelete)
		return
	}
	if b := m.store.takeTemporary(guid, key); b != nil {
		m.registry.detach(b.shared, m.unloading, m.onSharedDelete)
	}
}

// Load hydrates the registry and binding store from the persistence
// engine (§6 Load). Shared records load first so per-player rows can
// resolve their back-reference.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sharedRows, err := m.repo.LoadAllSharedInstances(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSharedInstanceLoad, err)
	}
	for _, row := range sharedRows {
		m.registry.register(row.InstanceID, row.toSharedInstance())
		m.reserveInstanceID(row.InstanceID)
	}

	bindingRows, err := m.repo.LoadAllBindings(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBindingLoad, err)
	}
	for _, row := range bindingRows {
		b := row.toBinding()
		b.ExpiryTime = time.Unix(row.ExpiryTime, 0)
		b.Extended = row.Extended

		entries, ok := m.catalog.TryResolve(row.MapID, row.DifficultyID)
		if ok && entries.IsInstanceIdBound() {
			shared := m.registry.lookup(row.InstanceID)
			if shared == nil {
				m.log.Error("orphaned instance lock: shared record missing, deleting",
					"guid", row.GUID, "map_id", row.MapID, "lock_id", row.LockID, "instance_id", row.InstanceID)
				if err := m.repo.DeleteOrphanedBinding(ctx, row.GUID, row.MapID, row.LockID); err != nil {
					m.log.Error("deleting orphaned instance lock", "error", err)
				}
				continue
			}
			b.shared = m.registry.attach(row.InstanceID)
		}

		m.reserveInstanceID(row.InstanceID)
		m.store.setPermanent(row.GUID, b)
	}

	return nil
}

func (m *Manager) reserveInstanceID(id int32) {
	if m.allocator != nil && id > 0 {
		m.allocator.Reserve(id)
	}
}

// Unload tears the manager down (§5 "Unload"). unloading is set first,
// so any later detach skips the registry's deletion hook; clearing the
// stores and the registry drops every handle without calling detach,
// so teardown emits no persistence statements.
func (m *Manager) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unloading = true
	m.store.clearTemporary()
	m.store.clearPermanent()
	m.registry.clear()
}

func (m *Manager) persistBinding(ctx context.Context, tx Tx, guid int64, b *Binding) error {
	if err := tx.Exec(ctx,
		`DELETE FROM character_instance_lock WHERE guid = $1 AND map_id = $2 AND lock_id = $3`,
		guid, b.MapID, b.LockID,
	); err != nil {
		return fmt.Errorf("deleting character_instance_lock row: %w", err)
	}

	extended := 0
	if b.Extended {
		extended = 1
	}
	if err := tx.Exec(ctx,
		`INSERT INTO character_instance_lock
		   (guid, map_id, lock_id, instance_id, difficulty, data,
		    completed_encounters_mask, entrance_world_safe_loc_id, expiry_time, extended)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		guid, b.MapID, b.LockID, b.InstanceID, b.DifficultyID, b.Data,
		b.CompletedEncountersMask, b.EntranceWorldSafeLocID, b.ExpiryTime.Unix(), extended,
	); err != nil {
		return fmt.Errorf("inserting character_instance_lock row: %w", err)
	}
	return nil
}

func (m *Manager) persistShared(ctx context.Context, tx Tx, s *SharedInstance) error {
	if err := tx.Exec(ctx, `DELETE FROM instance2 WHERE instance_id = $1`, s.InstanceID); err != nil {
		return fmt.Errorf("deleting instance2 row: %w", err)
	}
	if err := tx.Exec(ctx,
		`INSERT INTO instance2 (instance_id, data, completed_encounters_mask, entrance_world_safe_loc_id)
		 VALUES ($1, $2, $3, $4)`,
		s.InstanceID, s.Data, s.CompletedEncountersMask, s.EntranceWorldSafeLocID,
	); err != nil {
		return fmt.Errorf("inserting instance2 row: %w", err)
	}
	return nil
}
