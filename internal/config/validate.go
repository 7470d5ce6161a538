package config

import (
	"strings"

	"github.com/framework-learner/penrose/internal/errors"
)

// Validate checks the CLI-level settings. Generator ranges are checked
// again by subgen.Options.Validate.
func (c *Config) Validate() error {
	if c.Programs < 0 {
		return errors.Newf("programs must be >= 0, got %d", c.Programs)
	}
	if c.MinLength < 0 {
		return errors.Newf("min_length must be >= 0, got %d", c.MinLength)
	}
	if c.MinLength > c.MaxLength {
		return errors.WithHint(
			errors.Newf("min_length %d exceeds max_length %d", c.MinLength, c.MaxLength),
			"raise --max-length or lower --min-length")
	}
	if c.Workers < 0 {
		return errors.Newf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.Output.Prefix == "" {
		return errors.New("output.prefix cannot be empty")
	}
	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		return errors.Newf("output.prefix must not contain a path separator, got %q", c.Output.Prefix)
	}
	if strings.HasPrefix(c.Output.Extension, ".") {
		return errors.WithHint(
			errors.Newf("output.extension %q starts with a dot", c.Output.Extension),
			"give the extension without the dot, e.g. sub")
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	return nil
}
