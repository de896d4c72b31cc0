// File: control/reporter.go
// Author: momentics <momentics@gmail.com>
//
// Periodic stats reporter: the monitoring collaborator from the pool and
// channel demos. Walks registered stats sources on an interval, publishes
// snapshots into a MetricsRegistry and renders them to a structured log.

package control

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/momentics/primkit/api"
)

// Reporter periodically snapshots stats sources. It is strictly read-only
// with respect to the primitives it observes.
type Reporter struct {
	mu       sync.Mutex
	sources  []api.StatsSource
	registry *MetricsRegistry
	logger   *zap.Logger
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	started  bool
	stopped  bool
}

// NewReporter creates a reporter publishing into registry and logger every
// interval.
func NewReporter(registry *MetricsRegistry, logger *zap.Logger, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Reporter{
		registry: registry,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Watch adds a stats source. Sources added after Start are picked up on
// the next tick.
func (r *Reporter) Watch(src api.StatsSource) {
	r.mu.Lock()
	r.sources = append(r.sources, src)
	r.mu.Unlock()
}

// Start launches the reporting loop. A reporter runs at most once; Start
// after Stop is a no-op.
func (r *Reporter) Start() {
	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()
	go r.run()
}

// Stop halts the loop and waits for it to exit.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()
	close(r.stop)
	<-r.done
}

// ReportOnce takes one snapshot pass outside the periodic loop.
func (r *Reporter) ReportOnce() {
	r.collect()
}

func (r *Reporter) run() {
	defer close(r.done)
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			r.collect()
		case <-r.stop:
			return
		}
	}
}

func (r *Reporter) collect() {
	r.mu.Lock()
	sources := make([]api.StatsSource, len(r.sources))
	copy(sources, r.sources)
	r.mu.Unlock()

	for _, src := range sources {
		snap := src.StatsSnapshot()
		if r.registry != nil {
			r.registry.Set(src.StatsName(), snap)
		}
		if r.logger == nil {
			continue
		}
		switch s := snap.(type) {
		case api.PoolStats:
			r.logger.Info("pool stats",
				zap.String("pool", s.Name),
				zap.Int("allocated", s.Allocated),
				zap.Int("capacity", s.Capacity),
				zap.Int("peak", s.PeakUsage),
				zap.Uint64("allocs", s.TotalAllocs),
				zap.Uint64("frees", s.TotalFrees),
				zap.Uint64("failures", s.Failures),
				zap.Uint64("corruptions", s.Corruptions),
			)
		case api.ChannelStats:
			r.logger.Info("channel stats",
				zap.String("source", src.StatsName()),
				zap.Int("len", s.Len),
				zap.Int("cap", s.Cap),
				zap.Int("peak", s.PeakLen),
				zap.Uint64("sent", s.TotalSent),
				zap.Uint64("received", s.TotalRecvd),
				zap.Uint64("send_timeouts", s.SendTimeouts),
				zap.Uint64("recv_timeouts", s.RecvTimeouts),
			)
		default:
			r.logger.Info("stats", zap.String("source", src.StatsName()), zap.Any("snapshot", snap))
		}
	}
}

// NamedChannel adapts a channel plus a stable name into an
// api.StatsSource for the reporter.
type NamedChannel struct {
	Name    string
	Channel interface{ Stats() api.ChannelStats }
}

// StatsName implements api.StatsSource.
func (n NamedChannel) StatsName() string { return "channel." + n.Name }

// StatsSnapshot implements api.StatsSource.
func (n NamedChannel) StatsSnapshot() any { return n.Channel.Stats() }

var _ api.StatsSource = NamedChannel{}
