// Package catalog resolves (mapId, difficulty) pairs to the static
// descriptors the instance lock manager needs: lock-group identity,
// reset interval, and locking discipline. It is the Go-literal
// reference-data table the manager treats as read-only, reloaded at
// startup, never written by the lock manager itself.
package catalog

import (
	"fmt"
	"sync"
)

// ResetInterval classifies how often a dungeon's bindings expire.
type ResetInterval int

const (
	// ResetNone marks a dungeon that never expires bindings — it does
	// not participate in the lock system at all.
	ResetNone ResetInterval = iota
	ResetDaily
	ResetWeekly
)

// MapEntry is the top-level descriptor for a map (dungeon/raid zone).
type MapEntry struct {
	ID   int32
	Name string
}

// MapDifficultyEntry describes one difficulty variant of a map: its
// lock-group membership, reset cadence, and locking discipline.
type MapDifficultyEntry struct {
	MapID        int32
	DifficultyID int32

	// LockID identifies the lock-group this difficulty shares a
	// binding slot with. Multiple difficulties of the same map (or of
	// different maps) may carry the same LockID.
	LockID int32

	Reset        ResetInterval
	RaidDuration int64 // extension length, in seconds

	// FlexLocking and EncounterLocked select the admission discipline
	// in §4.6. At most one should be true; neither set means
	// instance-bound (the default).
	FlexLocking     bool
	EncounterLocked bool
}

type dungeonKey struct {
	mapID        int32
	difficultyID int32
}

// Catalog holds the registered maps and difficulty descriptors.
// Safe for concurrent reads after loading.
type Catalog struct {
	mu            sync.RWMutex
	maps          map[int32]*MapEntry
	difficulties  map[dungeonKey]*MapDifficultyEntry
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		maps:         make(map[int32]*MapEntry, 32),
		difficulties: make(map[dungeonKey]*MapDifficultyEntry, 64),
	}
}

// Register adds a map and its difficulty variants. Returns an error
// if any descriptor is malformed — this is ordinary startup-data
// validation, not the programmer-error class Resolve guards against.
func (c *Catalog) Register(m *MapEntry, diffs ...*MapDifficultyEntry) error {
	if m.ID <= 0 {
		return fmt.Errorf("catalog: invalid map id %d", m.ID)
	}
	if m.Name == "" {
		return fmt.Errorf("catalog: map %d has empty name", m.ID)
	}
	for _, d := range diffs {
		if d.MapID != m.ID {
			return fmt.Errorf("catalog: difficulty %d belongs to map %d, not %d", d.DifficultyID, d.MapID, m.ID)
		}
		if d.LockID <= 0 {
			return fmt.Errorf("catalog: map %d difficulty %d has invalid lock id %d", m.ID, d.DifficultyID, d.LockID)
		}
		if d.FlexLocking && d.EncounterLocked {
			return fmt.Errorf("catalog: map %d difficulty %d cannot be both flex-locking and encounter-locked", m.ID, d.DifficultyID)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.maps[m.ID] = m
	for _, d := range diffs {
		c.difficulties[dungeonKey{mapID: d.MapID, difficultyID: d.DifficultyID}] = d
	}
	return nil
}

// TryResolve is the tolerant counterpart to Resolve, used on the
// load path where a persisted row may reference a dungeon that has
// since been removed from the catalog. Returns ok=false instead of
// panicking.
func (c *Catalog) TryResolve(mapID, difficultyID int32) (entries LockEntries, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.maps[mapID]
	if !ok {
		return LockEntries{}, false
	}
	d, ok := c.difficulties[dungeonKey{mapID, difficultyID}]
	if !ok {
		return LockEntries{}, false
	}
	return LockEntries{Map: m, Difficulty: d}, true
}

// Resolve returns the (MapEntry, MapDifficultyEntry) pair for
// (mapID, difficultyID). Per §4.1/§7, a missing pair is a programmer
// error — the caller is expected to have validated the pair exists
// (e.g. against the same data the client used to request a zone
// transfer) — so Resolve panics rather than returning an error.
func (c *Catalog) Resolve(mapID, difficultyID int32) LockEntries {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mapEntry, ok := c.maps[mapID]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown map %d", mapID))
	}
	diff, ok := c.difficulties[dungeonKey{mapID: mapID, difficultyID: difficultyID}]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown difficulty %d for map %d", difficultyID, mapID))
	}
	return LockEntries{Map: mapEntry, Difficulty: diff}
}
