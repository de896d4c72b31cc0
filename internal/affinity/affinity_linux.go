// File: internal/affinity/affinity_linux.go
//go:build linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux pinning via sched_setaffinity on the current thread (tid 0).

package affinity

import "golang.org/x/sys/unix"

func platformPin(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	return unix.SchedSetaffinity(0, &set)
}

func platformUnpin() {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < 1024; i++ {
		set.Set(i)
	}
	// Best effort: restoring a full mask can fail on restricted cpusets.
	_ = unix.SchedSetaffinity(0, &set)
}
