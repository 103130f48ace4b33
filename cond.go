package ksynx

// Cond is a condition variable implementing the monitor pattern. It is
// always used together with a caller-supplied Lock: Wait atomically
// releases the lock and sleeps, and every operation requires the caller to
// hold the lock.
//
// The Cond itself is stateless beyond its queue. It never remembers which
// Lock it was used with; pairing a Cond with one lock for its lifetime is
// the caller's convention, not enforced here.
type Cond struct {
	_    noCopy
	name string
	wc   *WChan
	// lk orders Wait against Signal/Broadcast on the same Cond.
	lk SpinLock
}

// NewCond creates a condition variable. Fails with ErrNoMem on allocation
// failure.
func NewCond(name string) (*Cond, error) {
	if err := allocate(siteCond); err != nil {
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
	statInc(kindCond)
	return &Cond{name: dup, wc: wc}, nil
}

// Destroy releases the condition variable's resources. Fatal if any thread
// is still blocked in Wait.
func (cv *Cond) Destroy() {
	if cv == nil {
		panic("ksynx: destroy of nil cond")
	}
	cv.lk.Cleanup()
	cv.wc.Destroy()
	cv.wc = nil
	statDec(kindCond)
}

// Name returns the name the condition variable was created with.
func (cv *Cond) Name() string { return cv.name }

// Wait releases l, sleeps on cv, and re-acquires l before returning. The
// release and the sleep are one atomic step with respect to Signal and
// Broadcast on the same cv: cv's spinlock is taken before l is released,
// and WChan.Sleep drops that spinlock only as t becomes queued, so a
// wakeup sent any time after l is released will find t and cannot be lost.
//
// The caller must hold l; by the time Wait returns it holds l again,
// though it may have slept on l's own queue to get it back.
func (cv *Cond) Wait(t *Thread, l *Lock) {
	cv.check(t, l)
	mayBlock(t)

	cv.lk.Acquire()
	l.Release(t)
	cv.wc.Sleep(t, &cv.lk)
	cv.lk.Release()
	l.Acquire(t)
}

// Signal wakes at most one thread waiting on cv. The woken thread
// re-acquires l inside its own Wait call; Signal itself touches l only for
// the ownership precondition.
func (cv *Cond) Signal(t *Thread, l *Lock) {
	cv.check(t, l)

	cv.lk.Acquire()
	cv.wc.WakeOne(&cv.lk)
	cv.lk.Release()
}

// Broadcast wakes every thread currently waiting on cv. Each woken thread
// re-acquires l in turn, so they leave Wait serialized, never concurrently.
func (cv *Cond) Broadcast(t *Thread, l *Lock) {
	cv.check(t, l)

	cv.lk.Acquire()
	cv.wc.WakeAll(&cv.lk)
	cv.lk.Release()
}

// check enforces the shared precondition: valid handles, and the caller
// holds the associated lock.
func (cv *Cond) check(t *Thread, l *Lock) {
	if cv == nil {
		panic("ksynx: operation on nil cond")
	}
	if l == nil {
		panic("ksynx: nil lock for cond " + cv.name)
	}
	if !l.HeldBy(t) {
		panic("ksynx: cond " + cv.name + " used without holding lock " + l.name)
	}
}
