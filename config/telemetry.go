package config

import "time"

type TelemetryCfg struct {
	// Interval between two statistics logs.
	Interval time.Duration `yaml:"interval"`

	// ThresholdsEnabled additionally logs the current threshold of every evaluated class.
	ThresholdsEnabled bool `yaml:"thresholds_enabled"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
