package app

import (
	"errors"
	"time"

	"github.com/shini4i/testkit/internal/models"
)

const (
	defaultPoll   = 100 * time.Millisecond
	defaultFailOn = models.FailOnError
)

var ErrEmptyCommand = errors.New("command must be provided")

// Config captures runtime parameters for a run.
type Config struct {
	Command   []string
	Env       []string
	Unset     []string
	InTempDir bool
	Keep      bool
	Seeds     []string
	Checkout  bool
	Fds       []int
	Stream    bool
	Poll      time.Duration
	Timeout   time.Duration
	FailOn    models.FailOn
	Expect    []string
	Reject    []string
	Golden    string
	Report    string
	Debug     bool
	Version   string
}

// ConfigOption mutates a Config during construction.
type ConfigOption func(*Config)

// NewConfig creates a Config with defaults and applies provided options.
func NewConfig(command []string, opts ...ConfigOption) (Config, error) {
	if len(command) == 0 || command[0] == "" {
		return Config{}, ErrEmptyCommand
	}

	cfg := Config{
		Command: append([]string{}, command...),
		Fds:     []int{2},
		Poll:    defaultPoll,
		FailOn:  defaultFailOn,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg, nil
}

// UsesWorkspace reports whether the run happens in a temporary working directory.
func (c Config) UsesWorkspace() bool {
	return c.InTempDir || c.Checkout || len(c.Seeds) > 0
}

// WithEnv sets KEY=VALUE entries for the child.
func WithEnv(entries []string) ConfigOption {
	return func(cfg *Config) {
		cfg.Env = append([]string{}, entries...)
	}
}

// WithUnset removes variables from the child's environment.
func WithUnset(keys []string) ConfigOption {
	return func(cfg *Config) {
		cfg.Unset = append([]string{}, keys...)
	}
}

// WithInTempDir runs the command inside a fresh temporary working directory.
func WithInTempDir(enabled bool) ConfigOption {
	return func(cfg *Config) {
		cfg.InTempDir = enabled
	}
}

// WithKeep leaves the temporary working directory in place after the run.
func WithKeep(enabled bool) ConfigOption {
	return func(cfg *Config) {
		cfg.Keep = enabled
	}
}

// WithSeeds sets glob patterns of files copied into the working directory.
func WithSeeds(patterns []string) ConfigOption {
	return func(cfg *Config) {
		cfg.Seeds = append([]string{}, patterns...)
	}
}

// WithCheckout exports the HEAD tree of the enclosing repository into the
// working directory.
func WithCheckout(enabled bool) ConfigOption {
	return func(cfg *Config) {
		cfg.Checkout = enabled
	}
}

// WithFds selects the descriptors to capture.
func WithFds(fds []int) ConfigOption {
	return func(cfg *Config) {
		if len(fds) > 0 {
			cfg.Fds = append([]int{}, fds...)
		}
	}
}

// WithStream echoes captured output while the child runs.
func WithStream(enabled bool) ConfigOption {
	return func(cfg *Config) {
		cfg.Stream = enabled
	}
}

// WithPoll sets how often streamed output is drained. Non-positive values
// keep the default.
func WithPoll(interval time.Duration) ConfigOption {
	return func(cfg *Config) {
		if interval > 0 {
			cfg.Poll = interval
		}
	}
}

// WithTimeout bounds the child. Zero means no limit.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(cfg *Config) {
		if timeout >= 0 {
			cfg.Timeout = timeout
		}
	}
}

// WithFailOn sets the log severity that fails the run.
func WithFailOn(failOn models.FailOn) ConfigOption {
	return func(cfg *Config) {
		if failOn != "" {
			cfg.FailOn = failOn
		}
	}
}

// WithExpect adds patterns the captured output must match.
func WithExpect(patterns []string) ConfigOption {
	return func(cfg *Config) {
		cfg.Expect = append([]string{}, patterns...)
	}
}

// WithReject adds patterns the captured output must not match.
func WithReject(patterns []string) ConfigOption {
	return func(cfg *Config) {
		cfg.Reject = append([]string{}, patterns...)
	}
}

// WithGolden compares the captured output with the content of path.
func WithGolden(path string) ConfigOption {
	return func(cfg *Config) {
		cfg.Golden = path
	}
}

// WithReport writes a YAML report to path.
func WithReport(path string) ConfigOption {
	return func(cfg *Config) {
		cfg.Report = path
	}
}

// WithDebug toggles verbose logging.
func WithDebug(enabled bool) ConfigOption {
	return func(cfg *Config) {
		cfg.Debug = enabled
	}
}

// WithVersion sets the application version used in log output.
func WithVersion(version string) ConfigOption {
	return func(cfg *Config) {
		cfg.Version = version
	}
}
