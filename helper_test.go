// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff_test

import (
	"testing"
	"time"
)

// supervise is the external deadline for operations that would otherwise
// block forever on failure.
const supervise = 5 * time.Second

// within runs f on a new goroutine and fails the test if it has not
// returned after d. The primitives have no timeouts of their own.
func within(t *testing.T, d time.Duration, f func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		f()
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatalf("did not complete within %v", d)
	}
}

// mustPanic calls f and fails the test unless it panics with want.
func mustPanic(t *testing.T, want string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic %q", want)
		}
		msg, ok := r.(string)
		if !ok || msg != want {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	f()
}

// duplicate returns a copy of *v. Tests use it to hold a second copy of a
// guard that must not be copied.
func duplicate[T any](v *T) T {
	return *v
}
