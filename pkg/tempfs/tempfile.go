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

// TempFile is a uniquely named regular file held open for read and write.
// The file is removed when the TempFile is closed.
type TempFile struct {
	path string
	fd   int
	file afero.File
	fs   afero.Fs
	log  *logging.Logger
	once sync.Once
}

// NewTempFile creates the file with mode 0600 and keeps it open.
func NewTempFile(opts ...Option) (*TempFile, error) {
	o := newOptions(opts)

	if strings.ContainsRune(o.prefix, os.PathSeparator) {
		return nil, failure.New(failure.Filesystem, "create temp file", o.prefix, syscall.EINVAL)
	}

	file, err := afero.TempFile(o.fs, o.dir, o.prefix+"*")
	if err != nil {
		return nil, failure.New(failure.Filesystem, "create temp file", parentDir(o.dir), err)
	}

	return &TempFile{
		path: file.Name(),
		fd:   descriptorOf(file),
		file: file,
		fs:   o.fs,
		log:  o.log,
	}, nil
}

// NewTempFileForTest creates a TempFile that is closed when t finishes.
func NewTempFileForTest(t testing.TB, opts ...Option) *TempFile {
	t.Helper()
	f, err := NewTempFile(opts...)
	require.NoError(t, err, "create temp file")
	t.Cleanup(f.Close)
	return f
}

// Path returns the file path. It is absolute unless a relative parent was
// given, in which case it stays relative to that parent.
func (f *TempFile) Path() string {
	return f.path
}

// Fd returns the descriptor the file was opened on, or -1 when the
// filesystem does not hand out OS descriptors. The number is retained after
// Close.
func (f *TempFile) Fd() int {
	return f.fd
}

// File returns the open file handle.
func (f *TempFile) File() afero.File {
	return f.file
}

// Close closes the descriptor and unlinks the file.
func (f *TempFile) Close() {
	f.once.Do(func() {
		if err := f.file.Close(); err != nil {
			f.log.Errorf("Failed to close temporary file [%s]: %s", f.path, err)
		}
		if err := f.fs.Remove(f.path); err != nil {
			f.log.Errorf("Failed to remove temporary file [%s]: %s", f.path, err)
		}
	})
}

func descriptorOf(file afero.File) int {
	if f, ok := file.(interface{ Fd() uintptr }); ok {
		return int(f.Fd())
	}
	return -1
}

func parentDir(dir string) string {
	if dir == "" {
		return os.TempDir()
	}
	return dir
}
