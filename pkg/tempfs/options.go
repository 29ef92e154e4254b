// Package tempfs provides scoped temporary files and directories for tests.
//
// Every resource is released by Close, which never fails: problems while
// removing files or restoring the working directory are logged and
// swallowed, because release usually runs while a test is already
// unwinding.
package tempfs

import (
	"github.com/op/go-logging"
	"github.com/spf13/afero"
)

const defaultPrefix = "temp"

// Scope selects what happens to a TempDir on release.
type Scope int

const (
	// DeleteOnDestruction removes the directory and everything in it.
	DeleteOnDestruction Scope = iota
	// Permanent leaves the directory in place.
	Permanent
)

func (s Scope) String() string {
	switch s {
	case DeleteOnDestruction:
		return "delete-on-destruction"
	case Permanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Option configures a temporary resource during construction.
type Option func(*options)

type options struct {
	prefix string
	dir    string
	scope  Scope
	fs     afero.Fs
	log    *logging.Logger
}

func newOptions(opts []Option) options {
	o := options{
		prefix: defaultPrefix,
		scope:  DeleteOnDestruction,
		fs:     afero.NewOsFs(),
		log:    logging.MustGetLogger("tempfs"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithPrefix sets the leading part of the generated basename.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithDir sets the parent directory. An empty dir means os.TempDir().
func WithDir(dir string) Option {
	return func(o *options) {
		o.dir = dir
	}
}

// WithScope sets the release policy of a TempDir.
func WithScope(scope Scope) Option {
	return func(o *options) {
		o.scope = scope
	}
}

// WithFs overrides the filesystem the resource is created on.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithLogger sets the logger release failures are reported to.
func WithLogger(log *logging.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}
