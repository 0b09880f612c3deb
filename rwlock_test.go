// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/handoff"
)

func TestRwLockReadersShare(t *testing.T) {
	l := handoff.NewRwLock(5)
	r1 := l.RLock()
	r2, err := l.TryRLock()
	if err != nil {
		t.Fatalf("TryRLock with a reader held: %v", err)
	}
	if *r1.Value() != 5 || *r2.Value() != 5 {
		t.Fatalf("got (%d, %d), want (5, 5)", *r1.Value(), *r2.Value())
	}
	if _, err := l.TryLock(); !iox.IsWouldBlock(err) {
		t.Fatalf("TryLock with readers held: got %v, want ErrWouldBlock", err)
	}
	r1.Unlock()
	if _, err := l.TryLock(); !iox.IsWouldBlock(err) {
		t.Fatalf("TryLock with one reader held: got %v, want ErrWouldBlock", err)
	}
	r2.Unlock()

	g, err := l.TryLock()
	if err != nil {
		t.Fatalf("TryLock after readers left: %v", err)
	}
	g.Unlock()
}

func TestRwLockZeroValue(t *testing.T) {
	var l handoff.RwLock[int]
	_ = l.Do(func(v *int) error {
		*v = 3
		return nil
	})
	_ = l.RDo(func(v *int) error {
		if *v != 3 {
			t.Errorf("got %d, want 3", *v)
		}
		return nil
	})
}

func TestRwLockReaderBlocksOnWriter(t *testing.T) {
	skipRace(t)
	l := handoff.NewRwLock(0)
	g := l.Lock()
	if _, err := l.TryRLock(); !iox.IsWouldBlock(err) {
		t.Fatalf("TryRLock with writer held: got %v, want ErrWouldBlock", err)
	}

	got := make(chan int, 1)
	go func() {
		r := l.RLock()
		got <- *r.Value()
		r.Unlock()
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case v := <-got:
		t.Fatalf("RLock returned %d while the write lock was held", v)
	default:
	}
	*g.Value() = 8
	g.Unlock()

	within(t, supervise, func() {
		if v := <-got; v != 8 {
			t.Errorf("reader saw %d, want 8", v)
		}
	})
}

func TestRwLockWriterBlocksOnReaders(t *testing.T) {
	skipRace(t)
	l := handoff.NewRwLock(0)
	r1 := l.RLock()
	r2 := l.RLock()

	acquired := make(chan struct{})
	go func() {
		g := l.Lock()
		*g.Value() = 1
		g.Unlock()
		close(acquired)
	}()

	time.Sleep(10 * time.Millisecond)
	r1.Unlock()
	time.Sleep(10 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("Lock returned while a reader was held")
	default:
	}
	r2.Unlock()

	within(t, supervise, func() { <-acquired })
	_ = l.RDo(func(v *int) error {
		if *v != 1 {
			t.Errorf("got %d, want 1", *v)
		}
		return nil
	})
}

func TestRwLockCounter(t *testing.T) {
	skipRace(t)
	const writers, readers, m = 4, 4, 20_000
	l := handoff.NewRwLock(0)

	var wg sync.WaitGroup
	for range writers {
		wg.Go(func() {
			for range m {
				_ = l.Do(func(v *int) error {
					*v++
					return nil
				})
			}
		})
	}
	for range readers {
		wg.Go(func() {
			last := 0
			for range m {
				_ = l.RDo(func(v *int) error {
					if *v < last {
						t.Errorf("counter went back from %d to %d", last, *v)
					}
					last = *v
					return nil
				})
			}
		})
	}
	within(t, 30*time.Second, wg.Wait)

	_ = l.RDo(func(v *int) error {
		if *v != writers*m {
			t.Fatalf("got %d, want %d", *v, writers*m)
		}
		return nil
	})
}

func TestRwLockDoReleasesOnPanic(t *testing.T) {
	skipRace(t)
	l := handoff.NewRwLock(0)
	mustPanic(t, "boom", func() {
		_ = l.Do(func(v *int) error {
			*v = 4
			panic("boom")
		})
	})
	errRead := errors.New("read")
	if err := l.RDo(func(*int) error { return errRead }); !errors.Is(err, errRead) {
		t.Fatalf("RDo returned %v, want %v", err, errRead)
	}

	within(t, supervise, func() {
		g := l.Lock()
		defer g.Unlock()
		if *g.Value() != 4 {
			t.Errorf("got %d, want 4", *g.Value())
		}
	})
}

func TestRwLockStaleWriteGuardCannotUnlock(t *testing.T) {
	l := handoff.NewRwLock(0)
	g := l.Lock()
	stale := duplicate(&g)
	g.Unlock()

	h := l.Lock()
	mustPanic(t, "handoff: unlock by stale guard", stale.Unlock)
	if _, err := l.TryRLock(); !iox.IsWouldBlock(err) {
		t.Fatalf("TryRLock after stale unlock: got %v, want ErrWouldBlock", err)
	}
	h.Unlock()
}

func TestReadGuardMisuse(t *testing.T) {
	l := handoff.NewRwLock(0)
	r := l.RLock()
	stale := duplicate(&r)
	r.Unlock()
	mustPanic(t, "handoff: unlock of released guard", r.Unlock)
	mustPanic(t, "handoff: use of released guard", func() { _ = r.Value() })
	mustPanic(t, "handoff: unlock by stale guard", stale.Unlock)

	var zero handoff.ReadGuard[int]
	mustPanic(t, "handoff: unlock of released guard", zero.Unlock)

	// The failed unlocks left the lock free.
	g, err := l.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	g.Unlock()
}
