package ksynx

import (
	"sync/atomic"

	"github.com/llxisdsh/ksynx/internal/opt"
)

// SpinLock is the short-critical-section mutual exclusion primitive the
// higher-level Semaphore, Lock and Cond are built on. It is a fair, FIFO
// ticket lock.
//
// Implementation:
// The classic "ticket" algorithm.
//   - Acquire(): takes a ticket number, spins (with adaptive backoff) until
//     `serving` == `my_ticket`.
//   - Release(): increments `serving`, admitting the next ticket holder.
//
// It must only guard bounded sections: the holder may never sleep while
// holding it, except through WChan.Sleep, whose contract releases the
// spinlock as the caller becomes unschedulable.
//
// The zero value is an unlocked spinlock ready for use.
type SpinLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32

	// Keep adjacent locks off a shared cache line: ticket spinning hammers
	// `serving`, and primitives are commonly allocated in arrays.
	_ [opt.CacheLineSize_ - 8]byte
}

// Acquire takes the spinlock. Blocks (spinning) until it is available.
// Safe from any context, including interrupt context, because it never
// deschedules the caller.
func (sl *SpinLock) Acquire() {
	my := sl.next.Add(1) - 1
	var spins int
	for {
		if sl.serving.Load() == my {
			return
		}
		delay(&spins)
	}
}

// Release drops the spinlock. Releasing an unheld spinlock is fatal.
func (sl *SpinLock) Release() {
	if !sl.Locked() {
		panic("ksynx: release of unheld spinlock")
	}
	sl.serving.Add(1)
}

// Locked reports whether some thread currently holds the spinlock. It is a
// consistency-check helper, not a synchronization tool: the answer can be
// stale by the time the caller looks at it, except when the caller itself
// is the holder.
func (sl *SpinLock) Locked() bool {
	return sl.serving.Load() != sl.next.Load()
}

// Cleanup retires the spinlock. Fatal if it is held or contended; after
// Cleanup the spinlock must not be used again.
func (sl *SpinLock) Cleanup() {
	if sl.Locked() {
		panic("ksynx: cleanup of held spinlock")
	}
}
