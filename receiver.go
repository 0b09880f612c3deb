// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"runtime"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spin"
)

// recvSpinLimit bounds the spin phase of Recv before it parks.
// Handoffs that complete within a few hundred nanoseconds avoid a
// suspend/resume round-trip.
const recvSpinLimit = 64

// recvOp is the single action a Receiver may perform: settle the state it
// observed, or close.
type recvOp struct {
	state uint32
	close bool
}

// Receiver is the receiving half of a one-shot channel.
// It authorizes exactly one completed receive or Close.
type Receiver[T any] struct {
	ch     *channel[T]
	use    *kont.Affine[Outcome[T], recvOp]
	serial Serial
}

func newReceiver[T any](ch *channel[T], serial Serial) *Receiver[T] {
	return &Receiver[T]{
		ch: ch,
		use: kont.Once(func(op recvOp) Outcome[T] {
			if op.close {
				ch.dropReceiver()
				return disconnectedOutcome[T]()
			}
			if op.state == stateReady {
				return valueOutcome(ch.take())
			}
			return disconnectedOutcome[T]()
		}),
		serial: serial,
	}
}

// Serial returns the serial number shared by this Receiver and its Sender.
func (r *Receiver[T]) Serial() Serial {
	return r.serial
}

// IsReady reports whether a value has been published.
// It is a relaxed check; a true result must still be followed by Recv or
// TryRecv to synchronize with the Sender.
func (r *Receiver[T]) IsReady() bool {
	return r.ch.state.LoadRelaxed() == stateReady
}

// Recv blocks until the Sender sends or is closed.
// It returns the value, or ErrDisconnected if the Sender was closed
// without sending. The wait may be forever if the Sender is neither used
// nor released; bound it externally if needed.
// Panics if the Receiver has already received or been closed.
func (r *Receiver[T]) Recv() (T, error) {
	s := r.wait()
	o := r.settle(s)
	runtime.KeepAlive(r)
	v, _ := o.Get()
	return v, o.Err()
}

// TryRecv returns the current outcome without blocking.
// A Pending outcome leaves the Receiver usable; Value and Disconnected
// outcomes consume it.
// Panics if the Receiver has already received or been closed.
func (r *Receiver[T]) TryRecv() Outcome[T] {
	s := r.ch.state.LoadAcquire()
	if s == stateEmpty || s == stateWriting {
		return pendingOutcome[T]()
	}
	o := r.settle(s)
	runtime.KeepAlive(r)
	return o
}

// Close drops the Receiver. A value already published is released through
// the WithRelease hook; a later Send completes and releases its value.
// Close after a completed receive, or a second Close, does nothing.
func (r *Receiver[T]) Close() {
	r.use.TryResume(recvOp{close: true})
	runtime.KeepAlive(r)
}

// wait returns the first settled state observed with an acquire load:
// ready, disconnected, or consumed by an earlier use of this Receiver.
func (r *Receiver[T]) wait() uint32 {
	var sw spin.Wait
	for i := 0; ; i++ {
		s := r.ch.state.LoadAcquire()
		if s != stateEmpty && s != stateWriting {
			return s
		}
		if i < recvSpinLimit {
			sw.Once()
			continue
		}
		// The Sender unparks after every state transition it makes,
		// so re-checking after park cannot miss one.
		r.ch.wake.park()
	}
}

func (r *Receiver[T]) settle(s uint32) Outcome[T] {
	o, ok := r.use.TryResume(recvOp{state: s})
	if !ok {
		panic(panicRecvConsumed)
	}
	return o
}
