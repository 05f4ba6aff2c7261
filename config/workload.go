package config

type WorkloadCfg struct {
	// Rate is the number of allocations per second across all workers.
	Rate int `yaml:"rate"`

	// Workers is the number of goroutines issuing allocations.
	Workers int `yaml:"workers"`

	// Skew in [0, 1) concentrates load on the first classes; 0 means uniform choice.
	Skew float64 `yaml:"skew"`
}

func (cfg *WorkloadCfg) Enabled() bool {
	return cfg != nil
}
