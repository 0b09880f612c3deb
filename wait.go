// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "code.hybscloud.com/atomix"

// waitQueue parks goroutines until a state word changes, futex style.
//
// wait enqueues the caller only if the word still holds the expected value,
// and the check and the enqueue happen under the queue lock. Wakers change
// the word before taking the same lock, so a wake cannot fall between a
// waiter's check and its enqueue. The zero value is an empty queue.
type waitQueue struct {
	waiters SpinLock[[]*parker]
}

// wait parks the caller while *word == expected. It returns at once if the
// word already differs, and otherwise after a wakeOne or wakeAll picks it.
func (q *waitQueue) wait(word *atomix.Uint32, expected uint32) {
	g := q.waiters.Lock()
	if word.LoadAcquire() != expected {
		g.Unlock()
		return
	}
	p := newParker()
	w := g.Value()
	*w = append(*w, p)
	g.Unlock()
	p.park()
}

// wakeOne unparks the longest-waiting goroutine, if any.
func (q *waitQueue) wakeOne() {
	g := q.waiters.Lock()
	w := g.Value()
	if len(*w) == 0 {
		g.Unlock()
		return
	}
	p := (*w)[0]
	(*w)[0] = nil
	*w = (*w)[1:]
	g.Unlock()
	p.unpark()
}

// wakeAll unparks every waiting goroutine.
func (q *waitQueue) wakeAll() {
	g := q.waiters.Lock()
	w := g.Value()
	woken := *w
	*w = nil
	g.Unlock()
	for _, p := range woken {
		p.unpark()
	}
}
