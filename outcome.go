// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// OutcomeKind enumerates the externally visible results of a receive.
type OutcomeKind uint8

const (
	// Pending: nothing has been sent and the Sender is still open.
	Pending OutcomeKind = iota
	// Value: a value was received.
	Value
	// Disconnected: the Sender was closed without sending.
	Disconnected
)

// String returns the name of k.
func (k OutcomeKind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Value:
		return "value"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// Outcome is the result of a receive: exactly one of Pending, Value or
// Disconnected. The zero Outcome is Pending.
type Outcome[T any] struct {
	kind  OutcomeKind
	value T
}

func pendingOutcome[T any]() Outcome[T] {
	return Outcome[T]{kind: Pending}
}

func valueOutcome[T any](v T) Outcome[T] {
	return Outcome[T]{kind: Value, value: v}
}

func disconnectedOutcome[T any]() Outcome[T] {
	return Outcome[T]{kind: Disconnected}
}

// Kind reports which variant o holds.
func (o Outcome[T]) Kind() OutcomeKind {
	return o.kind
}

// Get returns the received value and true, or the zero T and false
// if o is not a Value outcome.
func (o Outcome[T]) Get() (T, bool) {
	return o.value, o.kind == Value
}

// Err maps o onto the error convention: nil for Value,
// iox.ErrWouldBlock for Pending, ErrDisconnected for Disconnected.
func (o Outcome[T]) Err() error {
	switch o.kind {
	case Value:
		return nil
	case Disconnected:
		return ErrDisconnected
	}
	return iox.ErrWouldBlock
}

// Either converts o to Right(value) on Value, or Left(o.Err()) otherwise.
func (o Outcome[T]) Either() kont.Either[error, T] {
	if o.kind == Value {
		return kont.Right[error](o.value)
	}
	return kont.Left[error, T](o.Err())
}

// MatchOutcome calls the handler for the variant o holds and returns its result.
func MatchOutcome[T, R any](o Outcome[T], onValue func(T) R, onPending func() R, onDisconnected func() R) R {
	switch o.kind {
	case Value:
		return onValue(o.value)
	case Disconnected:
		return onDisconnected()
	}
	return onPending()
}
