// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package handoff_test

import "testing"

// skipRace skips tests that hand plain data between goroutines.
// The data is published by atomix acquire/release operations on a separate
// state word, which the race detector does not model as synchronization,
// producing false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: plain data published through atomix ordering")
}
