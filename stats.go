package ksynx

import (
	"github.com/llxisdsh/pb"
)

// Kinds reported by LiveCount.
const (
	kindSemaphore = "semaphore"
	kindLock      = "lock"
	kindCond      = "cond"
	kindWChan     = "wchan"
)

// live tracks how many primitives of each kind have been created and not
// yet destroyed. Constructors that fail partway unwind their sub-resources,
// so a balanced create/destroy history always returns every count to zero.
var live pb.MapOf[string, int64]

// LiveCount returns the number of live primitives of the given kind
// ("semaphore", "lock", "cond" or "wchan"). Intended for leak checks in
// tests and shutdown paths.
func LiveCount(kind string) int64 {
	n, _ := live.Load(kind)
	return n
}

func statInc(kind string) {
	live.ProcessEntry(kind,
		func(l *pb.EntryOf[string, int64]) (*pb.EntryOf[string, int64], int64, bool) {
			var n int64 = 1
			if l != nil {
				n = l.Value + 1
			}
			return &pb.EntryOf[string, int64]{Value: n}, n, true
		})
}

func statDec(kind string) {
	live.ProcessEntry(kind,
		func(l *pb.EntryOf[string, int64]) (*pb.EntryOf[string, int64], int64, bool) {
			if l == nil {
				panic("ksynx: destroy of untracked " + kind)
			}
			return &pb.EntryOf[string, int64]{Value: l.Value - 1}, l.Value - 1, true
		})
}
