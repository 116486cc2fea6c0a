package lock

import "time"

// bindingStore holds two disjoint mappings keyed by player guid, then
// by LockKey: permanent bindings and temporary bindings (§4.4, §9
// "two-tier store"). A player never has both a permanent and a
// temporary binding under the same key (invariant I1).
type bindingStore struct {
	permanent map[int64]map[LockKey]*Binding
	temporary map[int64]map[LockKey]*Binding
}

func newBindingStore() *bindingStore {
	return &bindingStore{
		permanent: make(map[int64]map[LockKey]*Binding),
		temporary: make(map[int64]map[LockKey]*Binding),
	}
}

func (s *bindingStore) getPermanent(guid int64, key LockKey) *Binding {
	return s.permanent[guid][key]
}

func (s *bindingStore) getTemporary(guid int64, key LockKey) *Binding {
	return s.temporary[guid][key]
}

func (s *bindingStore) setPermanent(guid int64, b *Binding) {
	m, ok := s.permanent[guid]
	if !ok {
		m = make(map[LockKey]*Binding)
		s.permanent[guid] = m
	}
	m[b.Key()] = b
}

func (s *bindingStore) setTemporary(guid int64, b *Binding) {
	m, ok := s.temporary[guid]
	if !ok {
		m = make(map[LockKey]*Binding)
		s.temporary[guid] = m
	}
	m[b.Key()] = b
}

func (s *bindingStore) deletePermanent(guid int64, key LockKey) {
	delete(s.permanent[guid], key)
}

func (s *bindingStore) deleteTemporary(guid int64, key LockKey) {
	delete(s.temporary[guid], key)
}

// takeTemporary removes and returns the temporary binding for
// (guid, key), or nil if none exists. Used by the promotion path
// (§4.5.2 step A.2), which erases the temporary slot and reuses the
// binding in place.
func (s *bindingStore) takeTemporary(guid int64, key LockKey) *Binding {
	b := s.getTemporary(guid, key)
	if b != nil {
		s.deleteTemporary(guid, key)
	}
	return b
}

// findActive implements §4.4's FindActive: a permanent binding wins
// if present and either not expired, extended, or the caller chose to
// ignore expiry; otherwise, unless the caller asked to ignore
// temporaries, the temporary binding (if any) is returned.
func (s *bindingStore) findActive(guid int64, key LockKey, now time.Time, ignoreTemporary, ignoreExpired bool) *Binding {
	if b := s.getPermanent(guid, key); b != nil {
		if !b.IsExpired(now) || b.Extended || !ignoreExpired {
			return b
		}
	}
	if ignoreTemporary {
		return nil
	}
	return s.getTemporary(guid, key)
}

// clearTemporary wipes all temporary bindings for every player.
func (s *bindingStore) clearTemporary() {
	s.temporary = make(map[int64]map[LockKey]*Binding)
}

// clearPermanent wipes all permanent bindings for every player.
func (s *bindingStore) clearPermanent() {
	s.permanent = make(map[int64]map[LockKey]*Binding)
}
