package config

import (
	"github.com/spf13/viper"

	"github.com/framework-learner/penrose/pkg/subgen"
)

// SetDefaults configures default values for all configuration options.
// seed has no default: an unset seed is drawn from the clock.
func SetDefaults(v *viper.Viper) {
	d := subgen.Defaults()

	v.SetDefault("programs", d.Programs)
	v.SetDefault("min_length", d.MinLength)
	v.SetDefault("max_length", d.MaxLength)
	v.SetDefault("policy", d.Policy.String())
	v.SetDefault("type_option", d.TypeOption.String())
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("trace_rng", false)

	v.SetDefault("output.prefix", "prog")
	v.SetDefault("output.extension", "sub")

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)
}
