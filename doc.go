// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handoff provides synchronization primitives built directly on
// explicitly ordered atomics from [code.hybscloud.com/atomix].
//
// # Locks
//
//   - [SpinLock]: busy-waiting lock. Acquire-ordered CAS to lock, release-ordered store to unlock.
//   - [Mutex]: same contract, but contended goroutines park instead of spinning.
//   - [RwLock]: many readers or one writer. Readers hold a [ReadGuard]; a writer holds a [Guard].
//   - [Guard]: exclusive-access handle returned by Lock and TryLock. [Guard.Unlock] releases it exactly once.
//     Guards must not be copied; unlocking a stale copy panics and leaves the lock alone.
//   - Scoped use: [SpinLock.Do], [Mutex.Do], [RwLock.Do] and [RwLock.RDo] release on every exit path, including panics.
//   - Non-blocking: TryLock and TryRLock return [code.hybscloud.com/iox.ErrWouldBlock] when the lock is held.
//
// No lock is fair or reentrant, and none poisons on panic.
//
// # One-shot channel
//
// [New] creates a linked [Sender] and [Receiver]. Each is a single-use
// capability: the Sender sends or closes once, the Receiver receives or
// closes once. Reuse panics.
//
//   - [Sender.Send] writes the value, publishes it with a release store, then wakes the Receiver.
//   - [Receiver.Recv] spins briefly, then parks until the value is published or the Sender is closed.
//   - [Receiver.TryRecv] returns an [Outcome]: Pending, Value, or Disconnected.
//   - [Sender.Close] before Send makes the Receiver observe [ErrDisconnected].
//   - [Receiver.Close] before receiving lets a later Send complete; the value goes to the [WithRelease] hook.
//
// Neither primitive has timeouts or cancellation. Bound waits externally.
//
// # Example
//
//	tx, rx := handoff.New[int]()
//	go func() {
//		tx.Send(42)
//	}()
//	v, err := rx.Recv()
//	if errors.Is(err, handoff.ErrDisconnected) {
//		return
//	}
//	_ = v // 42
package handoff
