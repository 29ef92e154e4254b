package app

import (
	"fmt"
	"sort"
	"time"

	"github.com/shini4i/testkit/internal/models"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when no config path is given.
const DefaultConfigFile = ".testkit.yaml"

// LoadFileConfig parses and validates the YAML config at path.
func LoadFileConfig(fs afero.Fs, path string) (models.FileConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return models.FileConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg models.FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return models.FileConfig{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return models.FileConfig{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FileConfigOptions converts the values set in a validated file config into
// options. Unset values leave the defaults alone.
func FileConfigOptions(fc models.FileConfig) []ConfigOption {
	var options []ConfigOption

	if len(fc.Env) > 0 {
		keys := make([]string, 0, len(fc.Env))
		for key := range fc.Env {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		entries := make([]string, 0, len(keys))
		for _, key := range keys {
			entries = append(entries, key+"="+fc.Env[key])
		}
		options = append(options, WithEnv(entries))
	}
	if len(fc.Unset) > 0 {
		options = append(options, WithUnset(fc.Unset))
	}
	if fc.InTempDir {
		options = append(options, WithInTempDir(true))
	}
	if fc.Keep {
		options = append(options, WithKeep(true))
	}
	if len(fc.Seed) > 0 {
		options = append(options, WithSeeds(fc.Seed))
	}
	if fc.Checkout {
		options = append(options, WithCheckout(true))
	}
	if len(fc.Fds) > 0 {
		options = append(options, WithFds(fc.Fds))
	}
	if fc.Stream {
		options = append(options, WithStream(true))
	}
	if d, err := time.ParseDuration(fc.Poll); err == nil {
		options = append(options, WithPoll(d))
	}
	if d, err := time.ParseDuration(fc.Timeout); err == nil {
		options = append(options, WithTimeout(d))
	}
	if fc.FailOn != "" {
		options = append(options, WithFailOn(models.FailOn(fc.FailOn)))
	}
	if len(fc.Expect) > 0 {
		options = append(options, WithExpect(fc.Expect))
	}
	if len(fc.Reject) > 0 {
		options = append(options, WithReject(fc.Reject))
	}
	if fc.Golden != "" {
		options = append(options, WithGolden(fc.Golden))
	}
	if fc.Report != "" {
		options = append(options, WithReport(fc.Report))
	}

	return options
}
