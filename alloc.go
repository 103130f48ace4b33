package ksynx

import (
	"errors"
	"strings"

	"github.com/llxisdsh/pb"
)

// ErrNoMem is returned by constructors when an allocation fails.
// Allocation failure is the only recoverable error in this package; every
// other misuse is fatal.
var ErrNoMem = errors.New("ksynx: allocation failed")

// Allocation sites accepted by FailAllocs. Each constructor touches its own
// site plus the sites of the sub-resources it builds, in order: object,
// name copy, wait channel.
const (
	siteSemaphore = "semaphore"
	siteLock      = "lock"
	siteCond      = "cond"
	siteName      = "name"
	siteWChan     = "wchan"
)

// allocFaults maps a site to its remaining armed failure count.
var allocFaults pb.MapOf[string, uint64]

// FailAllocs arms the next n allocations at the given site to fail with
// ErrNoMem. It exists because Go allocation itself cannot fail: without it
// the constructors' unwind paths would be untestable. Sites are
// "semaphore", "lock", "cond", "name" and "wchan". n = 0 disarms the site.
func FailAllocs(site string, n uint64) {
	if n == 0 {
		allocFaults.Delete(site)
		return
	}
	allocFaults.ProcessEntry(site,
		func(l *pb.EntryOf[string, uint64]) (*pb.EntryOf[string, uint64], uint64, bool) {
			return &pb.EntryOf[string, uint64]{Value: n}, n, false
		})
}

// allocate consumes one armed failure for site, if any.
func allocate(site string) error {
	_, failed := allocFaults.ProcessEntry(site,
		func(l *pb.EntryOf[string, uint64]) (*pb.EntryOf[string, uint64], uint64, bool) {
			if l == nil || l.Value == 0 {
				return l, 0, false
			}
			if l.Value == 1 {
				return nil, 0, true // last armed failure, drop the entry
			}
			return &pb.EntryOf[string, uint64]{Value: l.Value - 1}, l.Value - 1, true
		})
	if failed {
		return ErrNoMem
	}
	return nil
}

// dupName is the kstrdup of this package: copies the caller's name string
// into storage owned by the primitive, or fails like any allocation.
func dupName(name string) (string, error) {
	if err := allocate(siteName); err != nil {
		return "", err
	}
	return strings.Clone(name), nil
}
