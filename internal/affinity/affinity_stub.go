// File: internal/affinity/affinity_stub.go
//go:build !linux

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux fallback: goroutine stays locked to its thread, no core mask.

package affinity

func platformPin(cpuID int) error { return nil }

func platformUnpin() {}
