// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "code.hybscloud.com/atomix"

// Parker states.
const (
	parkEmpty uint32 = iota
	parkParked
	parkNotified
)

// parker is a park/unpark rendezvous owned by a single waiting goroutine.
//
// An unpark that finds the goroutine parked hands the wake directly through
// sema and leaves the state empty. Any other unpark leaves the parker
// notified, and the next park consumes that token and returns at once.
// Tokens do not accumulate: any number of unparks between two parks count
// as one.
type parker struct {
	state atomix.Uint32
	sema  chan struct{}
}

func newParker() *parker {
	return &parker{sema: make(chan struct{}, 1)}
}

// park suspends the calling goroutine until unpark is called,
// or returns immediately if a token is already pending.
func (p *parker) park() {
	if p.state.CompareAndSwapAcquire(parkNotified, parkEmpty) {
		return
	}
	if !p.state.CompareAndSwapAcquire(parkEmpty, parkParked) {
		// Notified between the two CAS attempts; only park leaves notified.
		p.state.StoreRelaxed(parkEmpty)
		return
	}
	<-p.sema
}

// unpark makes a token available and wakes the parked goroutine, if any.
// Safe to call whether or not park has started.
func (p *parker) unpark() {
	for {
		switch p.state.LoadAcquire() {
		case parkNotified:
			return
		case parkEmpty:
			if p.state.CompareAndSwapAcquire(parkEmpty, parkNotified) {
				return
			}
		case parkParked:
			if p.state.CompareAndSwapAcquire(parkParked, parkEmpty) {
				p.sema <- struct{}{}
				return
			}
		}
	}
}
