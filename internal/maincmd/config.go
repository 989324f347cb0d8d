package maincmd

import (
	"github.com/caarlos0/env/v6"
	"github.com/ico-lang/ico/lang/machine"
)

// runtimeConfig is the small set of process-wide knobs spec 4.4 exposes as
// overridable, read from the environment rather than flags so they stay out
// of the way of the command-line surface proper (spec 6, "CLI surface").
type runtimeConfig struct {
	GCStress       bool  `env:"ICO_GC_STRESS" envDefault:"false"`
	GCGrowthFactor int64 `env:"ICO_GC_GROWTH_FACTOR" envDefault:"0"`
	MaxCallDepth   int   `env:"ICO_MAX_CALL_DEPTH" envDefault:"0"`
}

func loadRuntimeConfig() (runtimeConfig, error) {
	var cfg runtimeConfig
	if err := env.Parse(&cfg); err != nil {
		return runtimeConfig{}, err
	}
	return cfg, nil
}

func (c runtimeConfig) toMachineConfig() machine.Config {
	return machine.Config{
		GCStress:       c.GCStress,
		GCGrowthFactor: c.GCGrowthFactor,
		MaxCallDepth:   c.MaxCallDepth,
	}
}
