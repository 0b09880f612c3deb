// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "code.hybscloud.com/atomix"

// noCopy may be embedded into structs which must not be copied after first
// use. go vet's copylocks check reports copies of such structs.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// releaser is the unlock half of an exclusive lock. It is implemented by
// *SpinLock[T], *Mutex[T] and *RwLock[T].
type releaser interface {
	holds(ticket uint32) bool
	release(ticket uint32)
}

// owner records which acquisition of a lock is current.
//
// Every acquisition draws a fresh ticket, and release must present the
// current one. A stale copy of an earlier Guard therefore cannot release a
// later holder's lock.
type owner struct {
	next    atomix.Uint32
	current atomix.Uint32
}

// claim is called by the new holder right after acquiring the lock.
func (o *owner) claim() uint32 {
	t := o.next.AddRelaxed(1)
	if t == 0 {
		t = o.next.AddRelaxed(1)
	}
	o.current.StoreRelaxed(t)
	return t
}

func (o *owner) holds(ticket uint32) bool {
	return ticket != 0 && o.current.LoadRelaxed() == ticket
}

// disown clears the current ticket before the lock word is released.
// Panics if ticket is not the current acquisition.
func (o *owner) disown(ticket uint32) {
	if !o.holds(ticket) {
		panic(panicGuardStale)
	}
	o.current.StoreRelaxed(0)
}

// Guard is the exclusive-access handle returned by a successful lock.
// It borrows the protected value until Unlock is called.
//
// A Guard belongs to the goroutine that acquired it and must not be copied
// or shared. At most one held Guard exists per lock at a time; unlocking a
// stale copy panics. The zero Guard is not held.
type Guard[T any] struct {
	_      noCopy
	value  *T
	lock   releaser
	ticket uint32
	held   bool
}

func newGuard[T any](value *T, lock releaser, ticket uint32) Guard[T] {
	return Guard[T]{value: value, lock: lock, ticket: ticket, held: true}
}

// Value returns the protected value. The pointer must not be retained
// past Unlock. Panics if the guard is not held.
func (g *Guard[T]) Value() *T {
	if !g.held || !g.lock.holds(g.ticket) {
		panic(panicGuardUse)
	}
	return g.value
}

// Unlock releases the lock. It must be called exactly once per
// acquisition; a second call, or a call on a stale copy, panics.
func (g *Guard[T]) Unlock() {
	if !g.held {
		panic(panicGuardReleased)
	}
	g.held = false
	g.lock.release(g.ticket)
}

// scoped runs f with exclusive access through g and releases g on every
// exit path, including a panic raised by f.
func scoped[T any](g *Guard[T], f func(v *T) error) error {
	defer g.Unlock()
	return f(g.value)
}
