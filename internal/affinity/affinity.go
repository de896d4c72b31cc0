// File: internal/affinity/affinity.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Optional CPU pinning for worker loops. Pinning binds the calling
// goroutine's OS thread to one core so a demo's producer and consumer
// loops exhibit stable per-core behavior; everything degrades to a no-op
// where the platform cannot pin.

package affinity

import "runtime"

// Pin binds the calling goroutine to its OS thread and that thread to
// cpuID. Returns a release function undoing both; on unsupported
// platforms Pin only locks the goroutine to its thread.
func Pin(cpuID int) (release func(), err error) {
	runtime.LockOSThread()
	if err := platformPin(cpuID); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}
	return func() {
		platformUnpin()
		runtime.UnlockOSThread()
	}, nil
}
