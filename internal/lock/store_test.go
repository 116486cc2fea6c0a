package lock

import (
	"testing"
	"time"
)

func TestBindingStore_FindActive_PermanentWins(t *testing.T) {
	s := newBindingStore()
	key := LockKey{MapID: 100, LockID: 7}
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	perm := &Binding{MapID: 100, LockID: 7, ExpiryTime: now.Add(time.Hour)}
	s.setPermanent(1, perm)
	temp := &Binding{MapID: 100, LockID: 7, ExpiryTime: now.Add(time.Hour)}
	s.setTemporary(1, temp)

	got := s.findActive(1, key, now, false, true)
	if got != perm {
		t.Error("findActive should prefer the live permanent binding")
	}
}

func TestBindingStore_FindActive_ExpiredPermanentFallsThroughToTemporary(t *testing.T) {
	s := newBindingStore()
	key := LockKey{MapID: 100, LockID: 7}
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	perm := &Binding{MapID: 100, LockID: 7, ExpiryTime: now.Add(-time.Hour)}
	s.setPermanent(1, perm)
	temp := &Binding{MapID: 100, LockID: 7, ExpiryTime: now.Add(time.Hour)}
	s.setTemporary(1, temp)

	got := s.findActive(1, key, now, false, true)
	if got != temp {
		t.Error("findActive should fall through to the temporary binding when the permanent is expired and not extended")
	}
}

func TestBindingStore_FindActive_ExtendedExpiredPermanentStillWins(t *testing.T) {
	s := newBindingStore()
	key := LockKey{MapID: 100, LockID: 7}
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	perm := &Binding{MapID: 100, LockID: 7, ExpiryTime: now.Add(-time.Hour), Extended: true}
	s.setPermanent(1, perm)

	got := s.findActive(1, key, now, false, true)
	if got != perm {
		t.Error("findActive should return an extended expired permanent, not nil")
	}
}

func TestBindingStore_FindActive_IgnoreTemporary(t *testing.T) {
	s := newBindingStore()
	key := LockKey{MapID: 100, LockID: 7}
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	temp := &Binding{MapID: 100, LockID: 7, ExpiryTime: now.Add(time.Hour)}
	s.setTemporary(1, temp)

	if got := s.findActive(1, key, now, true, true); got != nil {
		t.Errorf("findActive with ignoreTemporary should not see temporary binding, got %+v", got)
	}
}

func TestBindingStore_FindActive_IgnoreExpiredFalse(t *testing.T) {
	s := newBindingStore()
	key := LockKey{MapID: 100, LockID: 7}
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	perm := &Binding{MapID: 100, LockID: 7, ExpiryTime: now.Add(-time.Hour)}
	s.setPermanent(1, perm)

	got := s.findActive(1, key, now, true, false)
	if got != perm {
		t.Error("findActive with ignoreExpired=false should still return an expired non-extended permanent")
	}
}

func TestBindingStore_TakeTemporary_RemovesSlot(t *testing.T) {
	s := newBindingStore()
	key := LockKey{MapID: 100, LockID: 7}
	temp := &Binding{MapID: 100, LockID: 7}
	s.setTemporary(1, temp)

	got := s.takeTemporary(1, key)
	if got != temp {
		t.Fatal("takeTemporary should return the stored binding")
	}
	if s.getTemporary(1, key) != nil {
		t.Error("takeTemporary should erase the temporary slot")
	}
}

func TestBindingStore_ClearTemporaryAndPermanent(t *testing.T) {
	s := newBindingStore()
	key := LockKey{MapID: 100, LockID: 7}
	s.setPermanent(1, &Binding{MapID: 100, LockID: 7})
	s.setTemporary(1, &Binding{MapID: 100, LockID: 7})

	s.clearTemporary()
	if s.getTemporary(1, key) != nil {
		t.Error("clearTemporary should empty all temporary bindings")
	}
	if s.getPermanent(1, key) == nil {
		t.Error("clearTemporary should not touch permanent bindings")
	}

	s.clearPermanent()
	if s.getPermanent(1, key) != nil {
		t.Error("clearPermanent should empty all permanent bindings")
	}
}
