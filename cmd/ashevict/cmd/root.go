package cmd

import (
	"fmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"os"
	"time"
)

var (
	flagConfig   string
	flagLogLevel string
)

var Cmd = &cobra.Command{
	Use:           "ashevict",
	Short:         "Adaptive eviction batch sizing for slab allocators",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Println("error", err)
		os.Exit(1)
	}
}

func init() {
	Cmd.PersistentFlags().StringVar(&flagConfig, "config", "ashevict.yaml", "path to the yaml config")
	Cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	Cmd.AddCommand(simulateCmd)
	Cmd.AddCommand(validateCmd)
}

func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(flagLogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "ashevict").
		Logger()
}
