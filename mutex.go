// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// Mutex state values.
const (
	mutexUnlocked uint32 = iota
	mutexLocked
	mutexContended // locked, and at least one goroutine may be waiting
)

// Mutex is a mutual-exclusion lock around a value of type T that suspends
// contended goroutines instead of spinning.
//
// The uncontended path is a single compare-and-swap. Contended waiters mark
// the state word and park on a wait queue; Unlock wakes one waiter only when
// the state word says one may exist. Like SpinLock, Mutex is not fair, not
// reentrant, and does not poison. The zero value is an unlocked Mutex.
type Mutex[T any] struct {
	state atomix.Uint32
	owner owner
	queue waitQueue
	value T
}

// NewMutex returns an unlocked Mutex holding value.
func NewMutex[T any](value T) *Mutex[T] {
	return &Mutex[T]{value: value}
}

// Lock blocks until it holds the lock and returns the guard.
func (m *Mutex[T]) Lock() Guard[T] {
	if !m.state.CompareAndSwapAcquire(mutexUnlocked, mutexLocked) {
		// Taking the lock from here leaves it marked contended, so the
		// matching Unlock wakes the next waiter.
		for m.state.Swap(mutexContended) != mutexUnlocked {
			m.queue.wait(&m.state, mutexContended)
		}
	}
	return newGuard(&m.value, m, m.owner.claim())
}

// TryLock makes a single acquisition attempt.
// Returns iox.ErrWouldBlock if the lock is held.
func (m *Mutex[T]) TryLock() (Guard[T], error) {
	if !m.state.CompareAndSwapAcquire(mutexUnlocked, mutexLocked) {
		return Guard[T]{}, iox.ErrWouldBlock
	}
	return newGuard(&m.value, m, m.owner.claim()), nil
}

// Do runs f while holding the lock. The lock is released when f returns,
// returns an error, or panics; a panic is propagated after release.
func (m *Mutex[T]) Do(f func(v *T) error) error {
	g := m.Lock()
	return scoped(&g, f)
}

func (m *Mutex[T]) holds(ticket uint32) bool {
	return m.owner.holds(ticket)
}

func (m *Mutex[T]) release(ticket uint32) {
	m.owner.disown(ticket)
	if m.state.Swap(mutexUnlocked) == mutexContended {
		m.queue.wakeOne()
	}
}
