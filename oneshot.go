// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Channel protocol states.
//
//	empty   → writing      [Send claims the cell]
//	writing → ready        [Send publishes, release store]
//	empty   → disconnected [Sender closed, or Receiver closed, first]
//	ready   → consumed     [Recv moves the value out, or Receiver closed]
//
// The cell holds a live value only in ready.
const (
	stateEmpty uint32 = iota
	stateWriting
	stateReady
	stateDisconnected
	stateConsumed
)

// channel is the shared core of a Sender/Receiver pair.
type channel[T any] struct {
	state   atomix.Uint32
	cell    T
	wake    *parker
	release func(T)
}

// Option configures a channel created by New.
type Option[T any] func(*channel[T])

// WithRelease installs fn as the release hook for values that are sent but
// never received: a Send that finds the Receiver closed, or a Receiver
// closed while a value is ready. fn runs exactly once per such value.
func WithRelease[T any](fn func(T)) Option[T] {
	return func(ch *channel[T]) {
		if fn != nil {
			ch.release = fn
		}
	}
}

// New creates a linked one-shot Sender/Receiver pair.
//
// Each handle is single-use. Closing either handle before it is used
// performs the disconnect bookkeeping; a handle that is dropped without
// being closed is treated as closed once it is garbage collected.
func New[T any](opts ...Option[T]) (*Sender[T], *Receiver[T]) {
	ch := &channel[T]{
		wake:    newParker(),
		release: func(T) {},
	}
	for _, o := range opts {
		o(ch)
	}

	serial := nextSerial()
	s := newSender(ch, serial)
	r := newReceiver(ch, serial)
	runtime.AddCleanup(s, (*channel[T]).dropSender, ch)
	runtime.AddCleanup(r, (*channel[T]).dropReceiver, ch)
	return s, r
}

// send writes v into the cell and publishes it. If the receiving side is
// already gone, v is handed to the release hook instead.
func (ch *channel[T]) send(v T) {
	if !ch.state.CompareAndSwapAcquire(stateEmpty, stateWriting) {
		ch.release(v)
		return
	}
	ch.cell = v
	ch.state.StoreRelease(stateReady)
	ch.wake.unpark()
}

// dropSender records that no value will ever be sent.
func (ch *channel[T]) dropSender() {
	if ch.state.CompareAndSwapAcquire(stateEmpty, stateDisconnected) {
		ch.wake.unpark()
	}
}

// take moves the value out of the cell. The caller must have observed
// stateReady with an acquire load.
func (ch *channel[T]) take() T {
	v := ch.cell
	var zero T
	ch.cell = zero
	ch.state.StoreRelaxed(stateConsumed)
	return v
}

// dropReceiver records that the value will never be received, releasing
// it if it has already been published.
func (ch *channel[T]) dropReceiver() {
	var sw spin.Wait
	for {
		switch ch.state.LoadAcquire() {
		case stateEmpty:
			if ch.state.CompareAndSwapAcquire(stateEmpty, stateDisconnected) {
				return
			}
		case stateWriting:
			sw.Once()
		case stateReady:
			ch.release(ch.take())
			return
		default:
			return
		}
	}
}
