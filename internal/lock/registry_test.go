package lock

import "testing"

func TestSharedRegistry_AttachDetach_LastDetachDeletes(t *testing.T) {
	r := newSharedRegistry()
	r.register(9, &SharedInstance{InstanceID: 9})

	h1 := r.attach(9)
	h2 := r.attach(9)

	var deleted []int32
	onDelete := func(id int32) { deleted = append(deleted, id) }

	r.detach(h1, false, onDelete)
	if len(deleted) != 0 {
		t.Fatalf("first detach should not delete, got %v", deleted)
	}
	if r.lookup(9) == nil {
		t.Fatal("record should still be live with one reference remaining")
	}

	r.detach(h2, false, onDelete)
	if len(deleted) != 1 || deleted[0] != 9 {
		t.Fatalf("last detach should delete instance 9, got %v", deleted)
	}
	if r.lookup(9) != nil {
		t.Fatal("record should be gone after last detach")
	}
}

func TestSharedRegistry_Detach_SuppressedWhileUnloading(t *testing.T) {
	r := newSharedRegistry()
	r.register(9, &SharedInstance{InstanceID: 9})
	h := r.attach(9)

	called := false
	r.detach(h, true, func(int32) { called = true })

	if called {
		t.Error("onDelete should not fire while unloading")
	}
	if r.lookup(9) != nil {
		t.Error("record should still be erased from the registry even while unloading")
	}
}

func TestSharedRegistry_AttachUnregistered_Panics(t *testing.T) {
	r := newSharedRegistry()
	defer func() {
		if recover() == nil {
			t.Error("attach to unregistered instance should panic")
		}
	}()
	r.attach(42)
}

func TestSharedRegistry_Clear_NoHooks(t *testing.T) {
	r := newSharedRegistry()
	r.register(1, &SharedInstance{InstanceID: 1})
	r.attach(1)

	r.clear()

	if r.lookup(1) != nil {
		t.Error("clear should erase all entries")
	}
}
