package workload

import (
	"context"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/shared/random"
	"github.com/Borislavv/go-ash-evict/internal/shared/rate"
	"github.com/Borislavv/go-ash-evict/model"
	"github.com/rs/zerolog"
	"runtime"
	"sync"
)

// Workload keeps allocating objects so that classes fill up and the evictor has work to do.
type Workload interface {
	WorkloadMetrics() (issued, done, errors int64)
	Close() error
}

type Allocator interface {
	Classes() []model.ClassKey
	Allocate(key model.ClassKey) (slot uint64, err error)
}

type LoadWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.WorkloadCfg
	alloc    Allocator
	classes  []model.ClassKey
	logger   zerolog.Logger
	jitter   *rate.Jitter
	counters *workloadCounters
	invokeCh chan model.ClassKey
}

func New(
	ctx context.Context,
	cfg *config.WorkloadCfg,
	logger zerolog.Logger,
	alloc Allocator,
) Workload {
	if !cfg.Enabled() || cfg.Rate <= 0 || len(alloc.Classes()) == 0 {
		return NoOpWorkload{}
	}

	ctx, cancel := context.WithCancel(ctx)

	return (&LoadWorker{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		alloc:    alloc,
		classes:  alloc.Classes(),
		logger:   logger.With().Str("component", "workload").Logger(),
		jitter:   rate.NewJitter(ctx, cfg.Rate),
		counters: newWorkloadCounters(),
		invokeCh: make(chan model.ClassKey, cfg.Rate),
	}).run()
}

func (w *LoadWorker) WorkloadMetrics() (issued, done, errors int64) {
	return w.counters.snapshot()
}

func (w *LoadWorker) Close() error {
	w.cancel()
	return nil
}

func (w *LoadWorker) run() *LoadWorker {
	workers := w.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	w.logger.Info().
		Int("rate", w.jitter.Limit()).
		Int("workers", workers).
		Float64("skew", w.cfg.Skew).
		Int("classes", len(w.classes)).
		Msg("workload is running")

	go func() {
		defer w.logger.Info().Msg("workload is stopped")
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Go(w.consumer)
		}
		wg.Go(w.provider)
		wg.Wait()
	}()

	return w
}

// provider picks a class for every token of the rate limiter.
func (w *LoadWorker) provider() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case _, ok := <-w.jitter.Chan():
			if !ok {
				return
			}
			key := w.classes[random.Skewed(len(w.classes), w.cfg.Skew)]
			w.counters.issued.Add(1)

			select {
			case <-w.ctx.Done():
				return
			case w.invokeCh <- key:
			}
		}
	}
}

func (w *LoadWorker) consumer() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case key := <-w.invokeCh:
			if _, err := w.alloc.Allocate(key); err != nil {
				w.counters.errors.Add(1)
				if e := w.logger.Debug(); e.Enabled() {
					e.Err(err).Stringer("class", key).Msg("allocation failed")
				}
				continue
			}
			w.counters.done.Add(1)
		}
	}
}
