// Package config loads the subgen CLI configuration from defaults, an
// optional TOML file, SUBGEN_* environment variables and command-line flags.
package config

import (
	"github.com/framework-learner/penrose/internal/errors"
	"github.com/framework-learner/penrose/pkg/subgen"
)

// Config is the resolved configuration of one subgen invocation.
type Config struct {
	Domain string `mapstructure:"domain"`

	Seed       uint64 `mapstructure:"seed"`
	Programs   int    `mapstructure:"programs"`
	MinLength  int    `mapstructure:"min_length"`
	MaxLength  int    `mapstructure:"max_length"`
	Policy     string `mapstructure:"policy"`
	TypeOption string `mapstructure:"type_option"`
	Parallel   bool   `mapstructure:"parallel"`
	Workers    int    `mapstructure:"workers"`
	TraceRNG   bool   `mapstructure:"trace_rng"`

	Output OutputConfig `mapstructure:"output"`
	Corpus CorpusConfig `mapstructure:"corpus"`
	Log    LogConfig    `mapstructure:"log"`

	// SeedDrawn is set when no seed was configured and Seed was drawn from
	// the clock.
	SeedDrawn bool `mapstructure:"-"`
}

// OutputConfig controls where rendered programs are written. An empty Dir
// prints them to stdout.
type OutputConfig struct {
	Dir       string `mapstructure:"dir"`
	Prefix    string `mapstructure:"prefix"`
	Extension string `mapstructure:"extension"`
}

// CorpusConfig points at the bbolt corpus file. An empty Path disables
// recording.
type CorpusConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	JSON      bool `mapstructure:"json"`
	Verbosity int  `mapstructure:"verbosity"`
}

// Options converts the configuration to generator options.
func (c *Config) Options() (subgen.Options, error) {
	policy, err := subgen.ParseArgPolicy(c.Policy)
	if err != nil {
		return subgen.Options{}, errors.Wrap(err, "policy")
	}
	typeOption, err := subgen.ParseTypeOption(c.TypeOption)
	if err != nil {
		return subgen.Options{}, errors.Wrap(err, "type_option")
	}
	return subgen.Options{
		Seed:       c.Seed,
		Programs:   c.Programs,
		MinLength:  c.MinLength,
		MaxLength:  c.MaxLength,
		Policy:     policy,
		TypeOption: typeOption,
		Parallel:   c.Parallel,
		Workers:    c.Workers,
		TraceRNG:   c.TraceRNG,
	}, nil
}
