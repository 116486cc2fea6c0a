package lock

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced from load/mutation paths (§7 class 2).
var (
	ErrSharedInstanceLoad = errors.New("lock: loading shared instances")
	ErrBindingLoad        = errors.New("lock: loading character instance locks")
)

// assertf panics with a formatted message. Used for the programmer-error
// class of failure (§7 class 3): catalog misses, registry invariant
// violations, and expired-but-not-extended bindings reaching update.
// These are bugs, not runtime conditions, and are expected to abort
// the process — matching the teacher's own use of panic for invariant
// violations (model.NewDroppedItem, crypto.ScrambleModulus).
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
