package cmd

import (
	"fmt"
	"github.com/Borislavv/go-ash-evict/config"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a config file and print every problem found",
	RunE:  validate,
}

func validate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), e)
		}
		return fmt.Errorf("config %s is invalid", flagConfig)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config %s is valid: mode=%s gate=%s watermarks=[%g, %g] batch=[%d, %d]\n",
		flagConfig,
		cfg.Strategy.Mode,
		cfg.Strategy.Gate,
		cfg.Strategy.LowWatermark,
		cfg.Strategy.HighWatermark,
		cfg.Strategy.MinBatch,
		cfg.Strategy.MaxBatch,
	)
	return nil
}
