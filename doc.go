// Package ksynx implements kernel-style thread synchronization primitives:
// a counting Semaphore, an owner-tracking Lock, and a condition variable
// (Cond), all built on the same two-piece substrate of a SpinLock (short
// critical sections) and a WChan (named sleep/wake queue whose Sleep
// atomically enqueues the caller and releases the guarding spinlock).
//
// Unlike the standard library's sync package, these primitives are meant for
// simulated or embedded kernel environments: callers are identified by an
// explicit *Thread handle rather than by goroutine, blocking operations are
// illegal from interrupt context, and protocol violations (releasing a lock
// you do not hold, destroying a primitive with waiters) are fatal rather
// than silently tolerated.
//
// Two error categories exist and never mix: constructors can fail with
// ErrNoMem (recoverable, see FailAllocs for fault injection), and every
// other misuse panics.
package ksynx
