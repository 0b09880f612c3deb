// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "errors"

// ErrDisconnected is returned by a receive when the Sender was closed
// before sending a value. It is a normal outcome, not a contract violation.
var ErrDisconnected = errors.New("handoff: disconnected")

// Contract violations. These indicate a broken invariant in the caller
// and are raised as panics rather than returned.
const (
	panicSendConsumed  = "handoff: send on consumed sender"
	panicRecvConsumed  = "handoff: receive on consumed receiver"
	panicGuardReleased = "handoff: unlock of released guard"
	panicGuardUse      = "handoff: use of released guard"
	panicGuardStale    = "handoff: unlock by stale guard"
	panicTooManyReads  = "handoff: too many readers"
)
