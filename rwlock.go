// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// RwLock state values. Any value between rwUnlocked and rwMaxReaders is a
// count of readers.
const (
	rwUnlocked    uint32 = 0
	rwWriteLocked uint32 = ^uint32(0)
	rwMaxReaders         = rwWriteLocked - 1
)

// RwLock is a reader-writer lock around a value of type T.
//
// The state word holds the number of readers, or rwWriteLocked while a
// writer holds the lock. Readers and writers that cannot proceed park on a
// shared wait queue. The last reader out wakes one waiter; a writer's unlock
// wakes all of them. RwLock is not fair: a steady stream of readers can
// starve a writer. The zero value is an unlocked RwLock.
type RwLock[T any] struct {
	state atomix.Uint32
	owner owner
	queue waitQueue
	value T
}

// NewRwLock returns an unlocked RwLock holding value.
func NewRwLock[T any](value T) *RwLock[T] {
	return &RwLock[T]{value: value}
}

// RLock blocks until it holds a shared lock and returns the read guard.
func (l *RwLock[T]) RLock() ReadGuard[T] {
	s := l.state.LoadRelaxed()
	for {
		switch {
		case s < rwMaxReaders:
			if l.state.CompareAndSwapAcquire(s, s+1) {
				return ReadGuard[T]{value: &l.value, lock: l, held: true}
			}
		case s == rwWriteLocked:
			l.queue.wait(&l.state, rwWriteLocked)
		default:
			panic(panicTooManyReads)
		}
		s = l.state.LoadRelaxed()
	}
}

// TryRLock attempts a shared acquisition without blocking.
// Returns iox.ErrWouldBlock if a writer holds the lock.
func (l *RwLock[T]) TryRLock() (ReadGuard[T], error) {
	s := l.state.LoadRelaxed()
	for s < rwMaxReaders {
		if l.state.CompareAndSwapAcquire(s, s+1) {
			return ReadGuard[T]{value: &l.value, lock: l, held: true}, nil
		}
		s = l.state.LoadRelaxed()
	}
	return ReadGuard[T]{}, iox.ErrWouldBlock
}

// Lock blocks until it holds the lock exclusively and returns the guard.
func (l *RwLock[T]) Lock() Guard[T] {
	for !l.state.CompareAndSwapAcquire(rwUnlocked, rwWriteLocked) {
		if s := l.state.LoadRelaxed(); s != rwUnlocked {
			l.queue.wait(&l.state, s)
		}
	}
	return newGuard(&l.value, l, l.owner.claim())
}

// TryLock makes a single exclusive acquisition attempt.
// Returns iox.ErrWouldBlock if any reader or writer holds the lock.
func (l *RwLock[T]) TryLock() (Guard[T], error) {
	if !l.state.CompareAndSwapAcquire(rwUnlocked, rwWriteLocked) {
		return Guard[T]{}, iox.ErrWouldBlock
	}
	return newGuard(&l.value, l, l.owner.claim()), nil
}

// Do runs f while holding the lock exclusively. The lock is released when
// f returns, returns an error, or panics.
func (l *RwLock[T]) Do(f func(v *T) error) error {
	g := l.Lock()
	return scoped(&g, f)
}

// RDo runs f while holding a shared lock. f must not write through v.
func (l *RwLock[T]) RDo(f func(v *T) error) error {
	g := l.RLock()
	defer g.Unlock()
	return f(g.value)
}

func (l *RwLock[T]) holds(ticket uint32) bool {
	return l.owner.holds(ticket)
}

func (l *RwLock[T]) release(ticket uint32) {
	l.owner.disown(ticket)
	l.state.StoreRelease(rwUnlocked)
	l.queue.wakeAll()
}

func (l *RwLock[T]) releaseRead() {
	s := l.state.LoadRelaxed()
	for {
		if s == rwUnlocked || s == rwWriteLocked {
			panic(panicGuardStale)
		}
		if l.state.CompareAndSwapRelease(s, s-1) {
			if s == 1 {
				l.queue.wakeOne()
			}
			return
		}
		s = l.state.LoadRelaxed()
	}
}

// ReadGuard is the shared-access handle returned by RLock.
//
// Any number of read guards may be held at once, but never together with a
// write Guard. Readers are anonymous: a stale copy of a ReadGuard is caught
// only when no reader holds the lock. The zero ReadGuard is not held.
type ReadGuard[T any] struct {
	_     noCopy
	value *T
	lock  *RwLock[T]
	held  bool
}

// Value returns the protected value for reading. The value must not be
// written through the pointer, and the pointer must not be retained past
// Unlock. Panics if the guard is not held.
func (g *ReadGuard[T]) Value() *T {
	if !g.held {
		panic(panicGuardUse)
	}
	return g.value
}

// Unlock releases the shared lock. A second call panics.
func (g *ReadGuard[T]) Unlock() {
	if !g.held {
		panic(panicGuardReleased)
	}
	g.held = false
	g.lock.releaseRead()
}
