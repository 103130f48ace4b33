package ksynx

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestLock_Simple(t *testing.T) {
	l, err := NewLock("simple")
	if err != nil {
		t.Fatal(err)
	}
	a := NewThread("a")

	if l.HeldBy(a) {
		t.Fatal("fresh lock already held")
	}
	l.Acquire(a)
	if !l.HeldBy(a) {
		t.Fatal("HeldBy false for owner")
	}
	l.Release(a)
	if l.HeldBy(a) {
		t.Fatal("HeldBy true after release")
	}
	l.Destroy()
}

func TestLock_Contention(t *testing.T) {
	// Spec scenario: A holds; B's query is false; B's acquire blocks until
	// A releases; afterwards A no longer owns the lock.
	l, err := NewLock("contended")
	if err != nil {
		t.Fatal(err)
	}
	a := NewThread("a")
	b := NewThread("b")

	l.Acquire(a)
	if l.HeldBy(b) {
		t.Fatal("HeldBy true for non-owner")
	}

	done := make(chan struct{})
	go func() {
		l.Acquire(b)
		close(done)
	}()

	stillBlocked(t, done, 20*time.Millisecond, "Acquire succeeded on a held lock")

	l.Release(a)
	waitDone(t, done, time.Second, "Acquire did not return after Release")

	if l.HeldBy(a) {
		t.Fatal("previous owner still recorded after handoff")
	}
	if !l.HeldBy(b) {
		t.Fatal("new owner not recorded")
	}
	l.Release(b)
	l.Destroy()
}

func TestLock_MutualExclusion(t *testing.T) {
	l, err := NewLock("stress")
	if err != nil {
		t.Fatal(err)
	}

	var inside atomic.Int32
	var g errgroup.Group
	for range 8 {
		th := NewThread("worker")
		g.Go(func() error {
			for range 300 {
				l.Acquire(th)
				if !l.HeldBy(th) {
					return fmt.Errorf("owner does not observe HeldBy")
				}
				if n := inside.Add(1); n != 1 {
					return fmt.Errorf("%d threads inside critical section", n)
				}
				inside.Add(-1)
				l.Release(th)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	l.Destroy()
}

func TestLock_ReleaseByNonOwner(t *testing.T) {
	l, err := NewLock("strict")
	if err != nil {
		t.Fatal(err)
	}
	a := NewThread("a")
	b := NewThread("b")

	mustPanic(t, "not held by caller", func() {
		l.Release(a) // free lock
	})

	l.Acquire(a)
	mustPanic(t, "not held by caller", func() {
		l.Release(b) // someone else's lock
	})
	if !l.HeldBy(a) {
		t.Fatal("rejected release disturbed ownership")
	}
	l.Release(a)
	l.Destroy()
}

func TestLock_RecursiveAcquire(t *testing.T) {
	l, err := NewLock("once")
	if err != nil {
		t.Fatal(err)
	}
	a := NewThread("a")

	l.Acquire(a)
	mustPanic(t, "recursive acquire", func() {
		l.Acquire(a)
	})
	l.Release(a)
	l.Destroy()
}

func TestLock_DestroyHeld(t *testing.T) {
	l, err := NewLock("leaky")
	if err != nil {
		t.Fatal(err)
	}
	a := NewThread("a")

	l.Acquire(a)
	mustPanic(t, "destroy of held lock", func() {
		l.Destroy()
	})
	l.Release(a)
	l.Destroy()
}

func TestLock_InterruptContext(t *testing.T) {
	l, err := NewLock("irq")
	if err != nil {
		t.Fatal(err)
	}
	a := NewThread("a")

	a.EnterInterrupt()
	mustPanic(t, "interrupt context", func() {
		l.Acquire(a)
	})
	a.LeaveInterrupt()
	l.Destroy()
}

func TestLock_CreateFailure(t *testing.T) {
	base := LiveCount(kindLock)

	for _, site := range []string{siteLock, siteName, siteWChan} {
		FailAllocs(site, 1)
		if _, err := NewLock("doomed"); err != ErrNoMem {
			t.Fatalf("site %q: err = %v, want ErrNoMem", site, err)
		}
	}
	if n := LiveCount(kindLock); n != base {
		t.Fatalf("leaked %d locks", n-base)
	}
}
