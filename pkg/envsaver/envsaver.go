// Package envsaver snapshots the process environment and puts it back.
package envsaver

import (
	"sort"
	"sync"
	"testing"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/internal/helpers"
	"github.com/shini4i/testkit/pkg/ports"
	"github.com/shini4i/testkit/pkg/failure"
)

// Option configures a Saver.
type Option func(*Saver)

// WithEnvironment replaces the process environment the Saver reads and
// restores.
func WithEnvironment(env ports.Environment) Option {
	return func(s *Saver) {
		if env != nil {
			s.env = env
		}
	}
}

// WithLogger sets the logger restore failures are reported to.
func WithLogger(log *logging.Logger) Option {
	return func(s *Saver) {
		if log != nil {
			s.log = log
		}
	}
}

// Saver holds the environment as it was at New.
type Saver struct {
	env      ports.Environment
	log      *logging.Logger
	snapshot map[string]string
	once     sync.Once
}

// New snapshots every currently defined variable.
func New(opts ...Option) *Saver {
	s := &Saver{
		env: ports.OsEnvironment{},
		log: logging.MustGetLogger("envsaver"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.snapshot = environMap(s.env.Environ())
	return s
}

// NewForTest snapshots the environment and restores it when t finishes.
func NewForTest(t testing.TB, opts ...Option) *Saver {
	t.Helper()
	s := New(opts...)
	t.Cleanup(s.Close)
	return s
}

// Snapshot returns a copy of the captured variables.
func (s *Saver) Snapshot() map[string]string {
	out := make(map[string]string, len(s.snapshot))
	for k, v := range s.snapshot {
		out[k] = v
	}
	return out
}

// Close reconciles the current environment with the snapshot. Variables
// created since New are unset, removed or changed ones are set back.
// Failures are logged and the remaining variables are still restored.
func (s *Saver) Close() {
	s.once.Do(s.restore)
}

func (s *Saver) restore() {
	current := environMap(s.env.Environ())

	for _, key := range sortedKeys(current) {
		if _, ok := s.snapshot[key]; ok {
			continue
		}
		if err := s.env.Unsetenv(key); err != nil {
			s.log.Errorf("Failed to unset environment variable: %s", failure.New(failure.Environment, "unsetenv", key, err))
		}
	}

	for _, key := range sortedKeys(s.snapshot) {
		want := s.snapshot[key]
		if got, ok := current[key]; ok && got == want {
			continue
		}
		if err := s.env.Setenv(key, want); err != nil {
			s.log.Errorf("Failed to restore environment variable: %s", failure.New(failure.Environment, "setenv", key, err))
		}
	}
}

func environMap(entries []string) map[string]string {
	m := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := helpers.SplitEnvEntry(entry)
		if !ok {
			continue
		}
		// The first definition wins, as with getenv.
		if _, seen := m[key]; !seen {
			m[key] = value
		}
	}
	return m
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
