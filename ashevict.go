package ashevict

import (
	"context"
	"fmt"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/allocator"
	"github.com/Borislavv/go-ash-evict/internal/evictor"
	"github.com/Borislavv/go-ash-evict/internal/metrics"
	"github.com/Borislavv/go-ash-evict/internal/shared/cachedtime"
	"github.com/Borislavv/go-ash-evict/internal/strategy"
	"github.com/Borislavv/go-ash-evict/internal/telemetry"
	"github.com/Borislavv/go-ash-evict/internal/workload"
	"github.com/Borislavv/go-ash-evict/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"io"
)

type (
	// Strategy decides how many objects to evict from every allocation class per call.
	Strategy = strategy.Strategy
	Stats    = strategy.Stats
	Counters = strategy.Counters

	// Allocator is what the background evictor needs from a cache to drive eviction.
	Allocator = evictor.Allocator
	Evictor   = evictor.Evictor
)

// NewStrategy builds a static or dynamic strategy for the given address space.
// The returned Strategy is not safe for concurrent use.
func NewStrategy(cfg *config.StrategyCfg, shape model.Shape, provider model.ClassStatsProvider) (Strategy, error) {
	return strategy.New(cfg, shape, provider)
}

// NewEvictor runs a background evictor over a caller-provided allocator.
// Metrics are registered on registerer when it is not nil.
func NewEvictor(
	ctx context.Context,
	cfg *config.Config,
	logger zerolog.Logger,
	alloc Allocator,
	registerer prometheus.Registerer,
) (Evictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return evictor.New(ctx, cfg, logger, alloc, recorder(registerer))
}

type AshEvict interface {
	evictor.Evictor
	workload.Workload
	telemetry.Logger
	io.Closer
}

var _ AshEvict = (*Simulator)(nil)

// Simulator wires the in-memory allocator, a synthetic workload and the background evictor together.
type Simulator struct {
	*allocator.Allocator
	evictor.Evictor
	workload.Workload
	telemetry.Logger
	cls context.CancelFunc
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, registerer prometheus.Registerer) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	alloc, err := allocator.New(cfg.Allocator)
	if err != nil {
		return nil, fmt.Errorf("init allocator: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	cachedtime.Run(ctx)

	eviction, err := evictor.New(ctx, cfg, logger, alloc, recorder(registerer))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("init evictor: %w", err)
	}
	load := workload.New(ctx, cfg.Workload, logger, alloc)
	telemeter := telemetry.New(ctx, cfg.Telemetry, logger, alloc, eviction, load)

	return &Simulator{
		cls:       cancel,
		Allocator: alloc,
		Evictor:   eviction,
		Workload:  load,
		Logger:    telemeter,
	}, nil
}

func (s *Simulator) Close() error {
	s.cls()
	return nil
}

func recorder(registerer prometheus.Registerer) metrics.Recorder {
	if registerer == nil {
		return metrics.NoopCollector{}
	}
	return metrics.NewEvictionCollector(registerer)
}
