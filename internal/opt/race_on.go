//go:build race

package opt

import (
	"sync/atomic"
	"time"
)

const Race_ = true

// Sema under the race detector avoids the runtime linkname path, whose
// park/unpark edges the detector cannot see. Instead it is a plain atomic
// counter with sleep backoff: slower, but every Acquire observes the
// matching Release through an atomic CAS, which the detector understands.
type Sema uint32

func (s *Sema) Acquire() {
	for {
		v := atomic.LoadUint32((*uint32)(s))
		if v > 0 && atomic.CompareAndSwapUint32((*uint32)(s), v, v-1) {
			return
		}
		time.Sleep(100 * time.Microsecond)
	}
}

func (s *Sema) Release() {
	atomic.AddUint32((*uint32)(s), 1)
}
