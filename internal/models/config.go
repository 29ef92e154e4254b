package models

import (
	"errors"
	"fmt"
	"reflect"
	"time"
)

// FailOn selects which captured log severity fails a run.
type FailOn string

const (
	FailOnNone    FailOn = "none"
	FailOnWarning FailOn = "warning"
	FailOnError   FailOn = "error"
)

var (
	ErrEmptyConfig     = errors.New("config file is empty")
	ErrInvalidFailOn   = errors.New("fail_on must be one of none, warning, error")
	ErrNegativeFd      = errors.New("file descriptors must not be negative")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidEnvKey   = errors.New("environment variable names must not be empty or contain '='")
)

func ParseFailOn(value string) (FailOn, error) {
	switch f := FailOn(value); f {
	case FailOnNone, FailOnWarning, FailOnError:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFailOn, value)
	}
}

// FileConfig is the content of a .testkit.yaml file.
type FileConfig struct {
	Env       map[string]string `yaml:"env"`
	Unset     []string          `yaml:"unset"`
	InTempDir bool              `yaml:"in_temp_dir"`
	Keep      bool              `yaml:"keep"`
	Seed      []string          `yaml:"seed"`
	Checkout  bool              `yaml:"checkout"`
	Fds       []int             `yaml:"fds"`
	Stream    bool              `yaml:"stream"`
	Poll      string            `yaml:"poll"`
	Timeout   string            `yaml:"timeout"`
	FailOn    string            `yaml:"fail_on"`
	Expect    []string          `yaml:"expect"`
	Reject    []string          `yaml:"reject"`
	Golden    string            `yaml:"golden"`
	Report    string            `yaml:"report"`
}

func (c *FileConfig) Validate() error {
	if reflect.ValueOf(*c).IsZero() {
		return ErrEmptyConfig
	}

	if c.FailOn != "" {
		if _, err := ParseFailOn(c.FailOn); err != nil {
			return err
		}
	}

	for _, fd := range c.Fds {
		if fd < 0 {
			return fmt.Errorf("%w: %d", ErrNegativeFd, fd)
		}
	}

	for key := range c.Env {
		if !ValidEnvKey(key) {
			return fmt.Errorf("%w: %q", ErrInvalidEnvKey, key)
		}
	}

	for _, field := range []struct {
		name  string
		value string
	}{{"poll", c.Poll}, {"timeout", c.Timeout}} {
		if field.value == "" {
			continue
		}
		if d, err := time.ParseDuration(field.value); err != nil || d < 0 {
			return fmt.Errorf("%w for %s: %q", ErrInvalidDuration, field.name, field.value)
		}
	}

	return nil
}

func ValidEnvKey(key string) bool {
	for _, r := range key {
		if r == '=' || r == 0 {
			return false
		}
	}
	return key != ""
}
