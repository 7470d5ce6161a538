package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/framework-learner/penrose/internal/errors"
)

// EnvPrefix prefixes every environment variable read by subgen, with dots
// replaced by underscores: SUBGEN_OUTPUT_DIR.
const EnvPrefix = "SUBGEN"

// DefaultFileName is looked up in the working directory when no config file
// is given.
const DefaultFileName = "subgen.toml"

// New builds a viper instance with defaults, environment binding and the
// config file at path. An empty path reads subgen.toml from the working
// directory if it exists.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about.
	if err := v.BindEnv("seed"); err != nil {
		return nil, errors.Wrap(err, "binding seed")
	}
	if err := v.BindEnv("domain"); err != nil {
		return nil, errors.Wrap(err, "binding domain")
	}
	SetDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		return v, nil
	}

	v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".toml"))
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "failed to read %s", DefaultFileName)
		}
	}
	return v, nil
}

// Load unmarshals and validates the configuration held by v. When no seed
// is configured one is drawn from now.
func Load(v *viper.Viper, now func() time.Time) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if !v.IsSet("seed") {
		cfg.Seed = uint64(now().UnixNano())
		cfg.SeedDrawn = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
