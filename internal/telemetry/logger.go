package telemetry

import (
	"context"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/evictor"
	"github.com/Borislavv/go-ash-evict/internal/shared/bytes"
	"github.com/Borislavv/go-ash-evict/internal/shared/cachedtime"
	"github.com/Borislavv/go-ash-evict/internal/workload"
	"github.com/rs/zerolog"
	"time"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.TelemetryCfg
	logger   zerolog.Logger
	alloc    Allocator
	evictor  evictor.Evictor
	workload workload.Workload
}

func New(
	ctx context.Context,
	cfg *config.TelemetryCfg,
	logger zerolog.Logger,
	alloc Allocator,
	evictor evictor.Evictor,
	workload workload.Workload,
) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	return (&Logs{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger.With().Str("component", "telemetry").Logger(),
		alloc:    alloc,
		evictor:  evictor,
		workload: workload,
	}).run()
}

func (l *Logs) Interval() time.Duration {
	if !l.cfg.Enabled() {
		return 0
	}
	return l.cfg.Interval
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg.Enabled() && l.cfg.Interval > 0 {
		go l.loop()
	}
	return l
}

func (l *Logs) loop() {
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	s := newSampler(l.alloc, l.evictor, l.workload)
	prev := s.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			cur := s.snapshot()
			l.report(deltaSnapshot(prev, cur))
			prev = cur
		}
	}
}

func (l *Logs) report(d snapshot) {
	interval := l.cfg.Interval.String()

	l.logger.Info().
		Str("interval", interval).
		Uint64("cycles", d.cycles).
		Uint64("batches", d.batches).
		Uint64("freed_items", d.reclaimedItems).
		Str("freed_bytes", bytes.FmtMem(d.reclaimedBytes)).
		Dur("last_cycle_ago", l.lastCycleAgo()).
		Msg("evictor")

	l.logger.Info().
		Str("interval", interval).
		Uint64("evaluated", d.evaluated).
		Uint64("gated", d.gated).
		Uint64("overshoots", d.overshoots).
		Uint64("climbs_up", d.climbsUp).
		Uint64("climbs_down", d.climbsDown).
		Uint64("clamped", d.clamped).
		Msg("strategy")

	used, total := l.alloc.Mem()
	l.logger.Info().
		Str("interval", interval).
		Uint64("allocations", d.allocations).
		Uint64("slow_path", d.slowPath).
		Uint64("workload_errors", d.workloadErrors).
		Str("used", bytes.FmtMem(used)).
		Str("total", bytes.FmtMem(total)).
		Msg("allocator")

	if l.cfg.ThresholdsEnabled {
		for _, stats := range l.evictor.StrategyStats() {
			for _, c := range stats.Classes {
				l.logger.Info().
					Stringer("class", c.Key).
					Float64("threshold", c.Threshold.Current).
					Float64("benefit", c.Benefit.Current).
					Float64("pending", c.Pending.Current).
					Float64("latency_ns", c.Latency.Current).
					Msg("class")
			}
		}
	}
}

func (l *Logs) lastCycleAgo() time.Duration {
	last := l.evictor.LastCycle()
	if last.IsZero() {
		return 0
	}
	return cachedtime.Since(last)
}
