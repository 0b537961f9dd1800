package cbuild

import (
	"sync"
	"sync/atomic"
)

var cleanup struct {
	sync.Mutex
	fns    []func() error
	closed uint32
}

// registerCleanup queues fn to run once, in registration order, when
// runCleanups is called, which Run does on every return. Used for temporary
// resources created during a run that must be removed even when a later
// step fails.
func registerCleanup(fn func() error) {
	if atomic.LoadUint32(&cleanup.closed) != 0 {
		panic("BUG: registerCleanup must not be called from a cleanup func")
	}
	cleanup.Lock()
	defer cleanup.Unlock()
	cleanup.fns = append(cleanup.fns, fn)
}

// runCleanups runs and clears all registered cleanup functions, returning
// the first error encountered (but still attempting every function).
func runCleanups() error {
	cleanup.Lock()
	fns := cleanup.fns
	cleanup.fns = nil
	cleanup.Unlock()
	atomic.StoreUint32(&cleanup.closed, 1)
	defer atomic.StoreUint32(&cleanup.closed, 0)
	var first error
	for _, fn := range fns {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
