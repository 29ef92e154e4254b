package tempfs

import (
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/pkg/failure"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TempDir is a uniquely named directory created with mode 0700.
type TempDir struct {
	path  string
	scope Scope
	fs    afero.Fs
	log   *logging.Logger
	once  sync.Once
}

// NewTempDir creates the directory. The scope defaults to DeleteOnDestruction.
func NewTempDir(opts ...Option) (*TempDir, error) {
	o := newOptions(opts)

	if strings.ContainsRune(o.prefix, os.PathSeparator) {
		return nil, failure.New(failure.Filesystem, "create temp dir", o.prefix, syscall.EINVAL)
	}

	path, err := afero.TempDir(o.fs, o.dir, o.prefix)
	if err != nil {
		return nil, failure.New(failure.Filesystem, "create temp dir", parentDir(o.dir), err)
	}

	return &TempDir{
		path:  path,
		scope: o.scope,
		fs:    o.fs,
		log:   o.log,
	}, nil
}

// NewTempDirForTest creates a TempDir that is closed when t finishes.
func NewTempDirForTest(t testing.TB, opts ...Option) *TempDir {
	t.Helper()
	d, err := NewTempDir(opts...)
	require.NoError(t, err, "create temp dir")
	t.Cleanup(d.Close)
	return d
}

// Path returns the directory path. It is absolute unless a relative parent
// was given.
func (d *TempDir) Path() string {
	return d.path
}

// Scope reports whether Close removes the directory.
func (d *TempDir) Scope() Scope {
	return d.scope
}

// Close removes the directory tree when the scope asks for it, including
// anything callers created inside.
func (d *TempDir) Close() {
	d.once.Do(func() {
		if d.scope != DeleteOnDestruction {
			return
		}
		if err := d.fs.RemoveAll(d.path); err != nil {
			d.log.Errorf("Failed to remove temporary directory [%s]: %s", d.path, err)
		}
	})
}
