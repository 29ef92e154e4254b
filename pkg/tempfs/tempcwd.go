package tempfs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/pkg/failure"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TempCwd moves the process into a fresh TempDir and moves it back on Close.
//
// The working directory is global to the process, so instances must be
// nested, never interleaved.
type TempCwd struct {
	dir      *TempDir
	path     string
	previous string
	log      *logging.Logger
	once     sync.Once
}

// NewTempCwd creates a TempDir and changes the working directory into it.
// Options are passed through to the TempDir; the directory lives on the
// OS filesystem regardless of WithFs.
func NewTempCwd(opts ...Option) (*TempCwd, error) {
	o := newOptions(opts)

	previous, err := os.Getwd()
	if err != nil {
		return nil, failure.New(failure.Filesystem, "getwd", "", err)
	}

	dirOpts := append(append([]Option{}, opts...), WithFs(afero.NewOsFs()))
	dir, err := NewTempDir(dirOpts...)
	if err != nil {
		return nil, err
	}

	path, err := filepath.Abs(dir.Path())
	if err != nil {
		dir.Close()
		return nil, failure.New(failure.Filesystem, "resolve temp dir", dir.Path(), err)
	}

	if err := os.Chdir(path); err != nil {
		dir.Close()
		return nil, failure.New(failure.Filesystem, "chdir", path, err)
	}

	return &TempCwd{
		dir:      dir,
		path:     path,
		previous: previous,
		log:      o.log,
	}, nil
}

// NewTempCwdForTest enters a TempCwd that is left when t finishes.
func NewTempCwdForTest(t testing.TB, opts ...Option) *TempCwd {
	t.Helper()
	c, err := NewTempCwd(opts...)
	require.NoError(t, err, "enter temp dir")
	t.Cleanup(c.Close)
	return c
}

// Path returns the absolute path of the directory now used as working directory.
func (c *TempCwd) Path() string {
	return c.path
}

// Previous returns the working directory that will be restored.
func (c *TempCwd) Previous() string {
	return c.previous
}

// Close changes back to the previous directory, then releases the TempDir.
func (c *TempCwd) Close() {
	c.once.Do(func() {
		if err := os.Chdir(c.previous); err != nil {
			c.log.Errorf("Failed to restore working directory [%s]: %s", c.previous, err)
		}
		c.dir.Close()
	})
}
