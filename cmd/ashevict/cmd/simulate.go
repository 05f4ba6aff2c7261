package cmd

import (
	"context"
	"errors"
	ashevict "github.com/Borislavv/go-ash-evict"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/Borislavv/go-ash-evict/internal/shared/bytes"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	flagDuration    time.Duration
	flagMetricsAddr string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the allocator, a synthetic workload and the evictor",
	Run:   simulate,
}

func init() {
	simulateCmd.Flags().DurationVar(&flagDuration, "duration", 0,
		"how long to run, zero means until interrupted")
	simulateCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "",
		"address to serve prometheus metrics on, e.g. :9090")
}

func simulate(*cobra.Command, []string) {
	log := newLogger()

	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDuration)
		defer cancel()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	sim, err := ashevict.New(ctx, cfg, log, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot start simulator")
	}
	defer func() { _ = sim.Close() }()

	if flagMetricsAddr != "" {
		srv := &http.Server{
			Addr:              flagMetricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", flagMetricsAddr).Msg("metrics server failed")
			}
		}()
		defer func() { _ = srv.Close() }()
		log.Info().Str("addr", flagMetricsAddr).Msg("serving metrics")
	}

	<-ctx.Done()

	cycles, batches, items, freed := sim.EvictorMetrics()
	allocations, slowPath, _, _ := sim.Metrics()
	used, total := sim.Mem()
	log.Info().
		Int64("cycles", cycles).
		Int64("batches", batches).
		Int64("freed_items", items).
		Str("freed_bytes", bytes.FmtMem(uint64(freed))).
		Int64("allocations", allocations).
		Int64("slow_path", slowPath).
		Str("used", bytes.FmtMem(used)).
		Str("total", bytes.FmtMem(total)).
		Msg("simulation finished")
}
