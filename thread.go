package ksynx

import (
	"strconv"
	"sync/atomic"
)

var threadIDs atomic.Uint64

// Thread is an opaque identity for a kernel thread. Primitives never manage
// a Thread's lifetime; a Lock's owner field is an identity comparison, not
// an ownership relation.
//
// Blocking operations (Semaphore.P, Lock.Acquire, Cond.Wait) take the
// calling Thread explicitly. This replaces an ambient "current thread"
// global and lets tests drive the primitives with simulated threads.
type Thread struct {
	_           noCopy
	id          uint64
	name        string
	inInterrupt bool
}

// NewThread returns a fresh thread identity. Two threads are never equal,
// regardless of name.
func NewThread(name string) *Thread {
	return &Thread{id: threadIDs.Add(1), name: name}
}

// Name returns the name the thread was created with.
func (t *Thread) Name() string { return t.name }

func (t *Thread) String() string {
	return t.name + "#" + strconv.FormatUint(t.id, 10)
}

// EnterInterrupt marks the thread as executing interrupt-context code.
// Blocking operations are fatal until LeaveInterrupt is called. Only the
// thread itself may toggle its flag; no synchronization is applied.
func (t *Thread) EnterInterrupt() {
	if t.inInterrupt {
		panic("ksynx: nested EnterInterrupt")
	}
	t.inInterrupt = true
}

// LeaveInterrupt clears the interrupt-context flag.
func (t *Thread) LeaveInterrupt() {
	if !t.inInterrupt {
		panic("ksynx: LeaveInterrupt outside interrupt context")
	}
	t.inInterrupt = false
}

// InInterrupt reports whether the thread is in interrupt context.
func (t *Thread) InInterrupt() bool { return t.inInterrupt }

// mayBlock is the common precondition of every sleeping operation: there
// must be a thread, and it must have a schedulable context to suspend.
func mayBlock(t *Thread) {
	if t == nil {
		panic("ksynx: nil thread")
	}
	if t.inInterrupt {
		panic("ksynx: blocking operation in interrupt context")
	}
}
