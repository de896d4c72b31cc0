// File: api/stats.go
// Author: momentics <momentics@gmail.com>
//
// Read-only stats snapshot types exposed to monitoring collaborators.

package api

// PoolStats is a momentarily-locked snapshot of one block pool.
type PoolStats struct {
	Name        string
	BlockSize   int
	Capacity    int
	Allocated   int
	PeakUsage   int
	TotalAllocs uint64
	TotalFrees  uint64
	Failures    uint64
	Corruptions uint64
}

// Free returns the nominal free-block count, Capacity - Allocated. It is
// derived from the counters; Pool.FreeListLen measures the list itself.
func (s PoolStats) Free() int {
	return s.Capacity - s.Allocated
}

// ChannelStats is a non-blocking snapshot of one bounded channel.
type ChannelStats struct {
	Len          int
	Cap          int
	PeakLen      int
	TotalSent    uint64
	TotalRecvd   uint64
	SendTimeouts uint64
	RecvTimeouts uint64
}

// StatsSource is implemented by components that publish PoolStats or
// ChannelStats snapshots under a stable name. The control package's
// reporter walks these.
type StatsSource interface {
	StatsName() string
	StatsSnapshot() any
}
