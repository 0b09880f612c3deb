// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"runtime"

	"code.hybscloud.com/kont"
)

// sendOp is the single action a Sender may perform.
type sendOp[T any] struct {
	value T
	close bool
}

// Sender is the sending half of a one-shot channel.
// It authorizes exactly one Send or Close.
type Sender[T any] struct {
	use    *kont.Affine[struct{}, sendOp[T]]
	serial Serial
}

func newSender[T any](ch *channel[T], serial Serial) *Sender[T] {
	return &Sender[T]{
		use: kont.Once(func(op sendOp[T]) struct{} {
			if op.close {
				ch.dropSender()
			} else {
				ch.send(op.value)
			}
			return struct{}{}
		}),
		serial: serial,
	}
}

// Serial returns the serial number shared by this Sender and its Receiver.
func (s *Sender[T]) Serial() Serial {
	return s.serial
}

// Send publishes v to the Receiver and wakes it if it is waiting.
// Send never blocks. If the Receiver has been closed, v is passed to the
// release hook configured with WithRelease and otherwise discarded.
// Panics if the Sender has already sent or been closed.
func (s *Sender[T]) Send(v T) {
	if _, ok := s.use.TryResume(sendOp[T]{value: v}); !ok {
		panic(panicSendConsumed)
	}
	runtime.KeepAlive(s)
}

// Close drops the Sender. If nothing was sent, the Receiver observes a
// disconnect. Close after Send, or a second Close, does nothing.
func (s *Sender[T]) Close() {
	s.use.TryResume(sendOp[T]{close: true})
	runtime.KeepAlive(s)
}
