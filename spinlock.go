// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Lock flag values.
const (
	unlocked uint32 = iota
	locked
)

// SpinLock is a busy-waiting mutual-exclusion lock around a value of type T.
//
// Acquisition is a compare-and-swap of the flag from unlocked to locked with
// acquire ordering; release is a store of unlocked with release ordering.
// The pair makes every write of the previous holder visible to the next.
//
// SpinLock is meant for short critical sections. It is not fair, not
// reentrant (locking twice from one goroutine spins forever), and does not
// poison on panic. The zero value is an unlocked lock holding the zero T.
type SpinLock[T any] struct {
	flag  atomix.Uint32
	owner owner
	value T
}

// NewSpinLock returns an unlocked SpinLock holding value.
func NewSpinLock[T any](value T) *SpinLock[T] {
	return &SpinLock[T]{value: value}
}

// Lock spins until it holds the lock and returns the guard.
// It never fails; if the lock is never released it never returns.
func (l *SpinLock[T]) Lock() Guard[T] {
	var sw spin.Wait
	for !l.flag.CompareAndSwapAcquire(unlocked, locked) {
		// Spin on relaxed reads until the flag looks free, then retry the CAS.
		for l.flag.LoadRelaxed() != unlocked {
			sw.Once()
		}
	}
	return newGuard(&l.value, l, l.owner.claim())
}

// TryLock makes a single acquisition attempt.
// Returns iox.ErrWouldBlock if the lock is held.
func (l *SpinLock[T]) TryLock() (Guard[T], error) {
	if !l.flag.CompareAndSwapAcquire(unlocked, locked) {
		return Guard[T]{}, iox.ErrWouldBlock
	}
	return newGuard(&l.value, l, l.owner.claim()), nil
}

// Do runs f while holding the lock. The lock is released when f returns,
// returns an error, or panics; a panic is propagated after release.
func (l *SpinLock[T]) Do(f func(v *T) error) error {
	g := l.Lock()
	return scoped(&g, f)
}

func (l *SpinLock[T]) holds(ticket uint32) bool {
	return l.owner.holds(ticket)
}

func (l *SpinLock[T]) release(ticket uint32) {
	l.owner.disown(ticket)
	l.flag.StoreRelease(unlocked)
}
