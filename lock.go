package ksynx

// Lock is a sleeping mutual exclusion lock with an explicit owner. Tracking
// the owning thread, rather than just a held bit, lets Release catch the
// most common locking bug — releasing a lock the caller never acquired — at
// the moment of misuse instead of corrupting state silently.
//
// Like Semaphore, the Lock promises no FIFO ordering among contenders; a
// thread that never slept may take the lock ahead of a woken waiter.
type Lock struct {
	_    noCopy
	name string
	wc   *WChan
	// lk guards held, owner and wc.
	lk    SpinLock
	held  bool
	owner *Thread
}

// NewLock creates a lock, initially free with no owner. Fails with
// ErrNoMem on allocation failure.
func NewLock(name string) (*Lock, error) {
	if err := allocate(siteLock); err != nil {
		return nil, err
	}
	dup, err := dupName(name)
	if err != nil {
		return nil, err
	}
	wc, err := NewWChan(dup)
	if err != nil {
		return nil, err
	}
	statInc(kindLock)
	return &Lock{name: dup, wc: wc}, nil
}

// Destroy releases the lock's resources. Fatal if the lock is held or any
// thread is blocked in Acquire.
func (l *Lock) Destroy() {
	if l == nil {
		panic("ksynx: destroy of nil lock")
	}
	if l.held || l.owner != nil {
		panic("ksynx: destroy of held lock")
	}
	l.lk.Cleanup()
	l.wc.Destroy()
	l.wc = nil
	statDec(kindLock)
}

// Name returns the name the lock was created with.
func (l *Lock) Name() string { return l.name }

// Acquire blocks t until the lock is free, then takes it on t's behalf.
// Fatal if t already holds the lock (the sleep below would otherwise be a
// guaranteed self-deadlock), or from interrupt context.
func (l *Lock) Acquire(t *Thread) {
	if l == nil {
		panic("ksynx: acquire of nil lock")
	}
	mayBlock(t)

	l.lk.Acquire()
	if l.held && l.owner == t {
		l.lk.Release()
		panic("ksynx: recursive acquire of lock " + l.name)
	}
	for l.held {
		l.wc.Sleep(t, &l.lk)
	}
	l.held = true
	l.owner = t
	l.lk.Release()
}

// Release frees the lock and wakes one contender, if any. The caller must
// be the current owner; releasing a free lock or another thread's lock is
// fatal.
func (l *Lock) Release(t *Thread) {
	if l == nil {
		panic("ksynx: release of nil lock")
	}
	if t == nil {
		panic("ksynx: nil thread")
	}
	l.lk.Acquire()
	if !l.heldByLocked(t) {
		l.lk.Release()
		panic("ksynx: release of lock " + l.name + " not held by caller")
	}
	l.owner = nil
	l.held = false
	l.wc.WakeOne(&l.lk)
	l.lk.Release()
}

// HeldBy reports whether t currently holds the lock. Pure query: a free
// lock answers false for every thread, whatever stale owner bookkeeping a
// fatal path may have left behind. It never sleeps (the spinlock bounds
// the wait), so it is safe wherever a query is needed.
func (l *Lock) HeldBy(t *Thread) bool {
	if l == nil {
		panic("ksynx: query of nil lock")
	}
	l.lk.Acquire()
	held := l.heldByLocked(t)
	l.lk.Release()
	return held
}

// heldByLocked is HeldBy with l.lk already held.
func (l *Lock) heldByLocked(t *Thread) bool {
	return l.held && l.owner == t
}
