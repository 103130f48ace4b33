package ksynx

// Semaphore is a counting semaphore: a non-negative counter with blocking
// decrement (P) and non-blocking increment (V).
//
// Note that we don't maintain strict FIFO ordering of threads going
// through the semaphore; a thread that never slept may claim a freshly posted unit
// before a longer-waiting thread gets rescheduled. That is accepted
// behavior, not a bug: the contract is only that waiters are eventually
// woken while units keep arriving.
type Semaphore struct {
	_    noCopy
	name string
	wc   *WChan
	// lk guards count and wc.
	lk    SpinLock
	count uint32
}

// NewSemaphore creates a semaphore with the given initial count. Fails
// with ErrNoMem on allocation failure; partially built sub-resources are
// released before returning.
func NewSemaphore(name string, count uint32) (*Semaphore, error) {
	if err := allocate(siteSemaphore); err != nil {
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
	statInc(kindSemaphore)
	return &Semaphore{name: dup, wc: wc, count: count}, nil
}

// Destroy releases the semaphore's resources. The caller must guarantee no
// thread is blocked in P; destroying a semaphore with waiters is fatal.
func (s *Semaphore) Destroy() {
	if s == nil {
		panic("ksynx: destroy of nil semaphore")
	}
	// wc.Destroy will assert if anyone's still sleeping.
	s.lk.Cleanup()
	s.wc.Destroy()
	s.wc = nil
	statDec(kindSemaphore)
}

// Name returns the name the semaphore was created with.
func (s *Semaphore) Name() string { return s.name }

// Count returns a snapshot of the current count. Quiescent points aside,
// the value may be stale as soon as it is returned.
func (s *Semaphore) Count() uint32 {
	s.lk.Acquire()
	n := s.count
	s.lk.Release()
	return n
}

// P blocks t until a unit is available, then claims it. Callable only from
// a context where blocking is legal.
func (s *Semaphore) P(t *Thread) {
	if s == nil {
		panic("ksynx: P on nil semaphore")
	}
	// May not block in an interrupt handler. Always check, even when the P
	// could complete without blocking.
	mayBlock(t)

	// The semaphore spinlock protects the wchan as well.
	s.lk.Acquire()
	for s.count == 0 {
		s.wc.Sleep(t, &s.lk)
	}
	if s.count == 0 {
		panic("ksynx: P woke with zero count")
	}
	s.count--
	s.lk.Release()
}

// V posts one unit and wakes one waiter, if any. Never blocks, so it is
// legal from any context. The woken thread does not receive the unit
// directly; it re-checks the count inside its P loop and may lose the race
// to a thread that never slept.
func (s *Semaphore) V() {
	if s == nil {
		panic("ksynx: V on nil semaphore")
	}
	s.lk.Acquire()
	s.count++
	if s.count == 0 {
		panic("ksynx: semaphore count overflow")
	}
	s.wc.WakeOne(&s.lk)
	s.lk.Release()
}
