package ksynx

import (
	"github.com/llxisdsh/ksynx/internal/opt"
)

// WChan is a named wait channel: a FIFO queue of sleeping threads. It is
// the blocking half of every primitive in this package.
//
// A WChan has no lock of its own. Callers protect it with the spinlock that
// also guards the condition they are sleeping on, and pass that spinlock to
// Sleep/WakeOne/WakeAll. Sleep enqueues the caller and releases the
// spinlock as one step with respect to wakers, which closes the window
// where a wakeup could slip between "decide to sleep" and "actually be
// asleep".
type WChan struct {
	_    noCopy
	name string
	head *waiter
	tail *waiter
}

type waiter struct {
	next *waiter
	t    *Thread
	sema opt.Sema
}

// NewWChan creates a wait channel. Fails with ErrNoMem on allocation
// failure.
func NewWChan(name string) (*WChan, error) {
	if err := allocate(siteWChan); err != nil {
		return nil, err
	}
	statInc(kindWChan)
	return &WChan{name: name}, nil
}

// Name returns the name the wait channel was created with.
func (wc *WChan) Name() string { return wc.name }

// Sleep blocks the calling thread t on wc. The caller must hold sl, which
// must be the spinlock guarding both wc and the condition being waited for.
// The calling thread is enqueued and sl released before t can miss any
// wakeup: a waker that acquires sl afterwards is guaranteed to see t
// queued, and an unpark that lands before the park completes is retained,
// not lost. Sleep re-acquires sl before returning.
//
// Fatal from interrupt context; interrupt handlers have no thread to
// suspend.
func (wc *WChan) Sleep(t *Thread, sl *SpinLock) {
	mayBlock(t)
	if !sl.Locked() {
		panic("ksynx: wchan sleep without spinlock held")
	}

	w := &waiter{t: t}
	if wc.tail == nil {
		wc.head = w
	} else {
		wc.tail.next = w
	}
	wc.tail = w

	sl.Release()
	w.sema.Acquire()
	sl.Acquire()
}

// WakeOne wakes the thread at the head of wc, if any. The caller must hold
// sl.
func (wc *WChan) WakeOne(sl *SpinLock) {
	if !sl.Locked() {
		panic("ksynx: wchan wake without spinlock held")
	}
	if w := wc.dequeue(); w != nil {
		w.sema.Release()
	}
}

// WakeAll wakes every thread currently sleeping on wc. The caller must
// hold sl. Threads queued after the caller took sl are not affected.
func (wc *WChan) WakeAll(sl *SpinLock) {
	if !sl.Locked() {
		panic("ksynx: wchan wake without spinlock held")
	}
	for w := wc.dequeue(); w != nil; w = wc.dequeue() {
		w.sema.Release()
	}
}

// IsEmpty reports whether no thread is sleeping on wc. The caller must
// hold sl.
func (wc *WChan) IsEmpty(sl *SpinLock) bool {
	if !sl.Locked() {
		panic("ksynx: wchan query without spinlock held")
	}
	return wc.head == nil
}

// Destroy releases the wait channel. Fatal if any thread is still sleeping
// on it; the caller is responsible for reaching a quiescent state first,
// so no spinlock is required here.
func (wc *WChan) Destroy() {
	if wc.head != nil {
		panic("ksynx: destroy of wchan with sleeping threads")
	}
	wc.tail = nil
	statDec(kindWChan)
}

func (wc *WChan) dequeue() *waiter {
	w := wc.head
	if w == nil {
		return nil
	}
	wc.head = w.next
	if wc.head == nil {
		wc.tail = nil
	}
	w.next = nil
	return w
}
