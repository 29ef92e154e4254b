//go:build unix

// Package fdcapture redirects a numeric file descriptor into a temporary
// sink file for the lifetime of a Capture, so tests can inspect everything
// written to it, including output of child processes that inherit it.
package fdcapture

import (
	"errors"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/pkg/ports"
	"github.com/shini4i/testkit/pkg/failure"
	"github.com/shini4i/testkit/pkg/tempfs"
	"github.com/stretchr/testify/require"
)

const sinkPrefix = "fdcapture"

// ChunkFunc receives captured output as contiguous, non-empty chunks.
// Chunks concatenate to the full captured stream. A ChunkFunc may call Read
// but must not call ReadIncremental or Close.
type ChunkFunc func(chunk string)

// Option configures a Capture.
type Option func(*Capture)

// WithChunkCallback installs fn. Chunks are delivered on every
// ReadIncremental that finds new output and once more on Close.
func WithChunkCallback(fn ChunkFunc) Option {
	return func(c *Capture) {
		c.onChunk = fn
	}
}

// WithLogger sets the logger release failures are reported to.
func WithLogger(log *logging.Logger) Option {
	return func(c *Capture) {
		if log != nil {
			c.log = log
		}
	}
}

// WithSinkDir places the sink file in dir instead of os.TempDir().
func WithSinkDir(dir string) Option {
	return func(c *Capture) {
		c.sinkDir = dir
	}
}

// WithDescriptors replaces the system calls used to redirect the target.
func WithDescriptors(fds ports.Descriptors) Option {
	return func(c *Capture) {
		if fds != nil {
			c.fds = fds
		}
	}
}

// Capture holds a descriptor redirected into a sink file.
type Capture struct {
	target  int
	saved   int
	sink    *tempfs.TempFile
	sinkDir string
	onChunk ChunkFunc
	fds     ports.Descriptors
	log     *logging.Logger

	// mu serialises the incremental cursor and release.
	mu     sync.Mutex
	cursor int64
	closed atomic.Bool
}

// New duplicates target, creates the sink and points target at it.
func New(target int, opts ...Option) (*Capture, error) {
	c := &Capture{
		target: target,
		saved:  -1,
		fds:    systemDescriptors{},
		log:    logging.MustGetLogger("fdcapture"),
	}
	for _, opt := range opts {
		opt(c)
	}

	saved, err := c.fds.Dup(target)
	if err != nil {
		return nil, failure.New(failure.Descriptor, "dup", strconv.Itoa(target), err)
	}

	sink, err := tempfs.NewTempFile(
		tempfs.WithPrefix(sinkPrefix),
		tempfs.WithDir(c.sinkDir),
		tempfs.WithLogger(c.log),
	)
	if err != nil {
		c.closeSaved(saved)
		return nil, err
	}

	if err := c.fds.Dup2(sink.Fd(), target); err != nil {
		sink.Close()
		c.closeSaved(saved)
		return nil, failure.New(failure.Descriptor, "dup2", strconv.Itoa(target), err)
	}

	c.saved = saved
	c.sink = sink

	return c, nil
}

// NewForTest starts a Capture that is closed when t finishes.
func NewForTest(t testing.TB, target int, opts ...Option) *Capture {
	t.Helper()
	c, err := New(target, opts...)
	require.NoError(t, err, "capture descriptor %d", target)
	t.Cleanup(c.Close)
	return c
}

// Target returns the captured descriptor number.
func (c *Capture) Target() int {
	return c.target
}

// Path returns the sink file path.
func (c *Capture) Path() string {
	return c.sink.Path()
}

// Read returns everything written to the target since New. It does not move
// the incremental cursor.
func (c *Capture) Read() (string, error) {
	data, _, err := c.readFrom(0)
	return data, err
}

// ReadIncremental returns the output written since the previous call and
// advances the cursor past it.
func (c *Capture) ReadIncremental() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.readIncremental()
}

// Original returns a writer to the binding the target had before New, for
// passing captured output through.
func (c *Capture) Original() io.Writer {
	return originalWriter{c: c}
}

// Close flushes remaining output to the chunk callback, restores the
// original binding of the target and removes the sink.
func (c *Capture) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return
	}

	if c.onChunk != nil {
		if _, err := c.readIncremental(); err != nil {
			c.log.Errorf("Failed to flush captured output of descriptor [%d]: %s", c.target, err)
		}
	}

	c.closed.Store(true)

	if err := c.fds.Dup2(c.saved, c.target); err != nil {
		c.log.Errorf("Failed to restore descriptor [%d]: %s", c.target, err)
	}
	c.closeSaved(c.saved)
	c.sink.Close()
}

func (c *Capture) readIncremental() (string, error) {
	chunk, end, err := c.readFrom(c.cursor)
	if err != nil {
		return "", err
	}
	c.cursor = end

	if c.onChunk != nil && chunk != "" {
		c.onChunk(chunk)
	}

	return chunk, nil
}

// readFrom reads the sink from offset to its current end. Reads are
// positional so the offset shared with the target is never moved.
func (c *Capture) readFrom(offset int64) (string, int64, error) {
	if c.closed.Load() {
		return "", offset, failure.New(failure.Descriptor, "read", c.sink.Path(), os.ErrClosed)
	}

	info, err := c.sink.File().Stat()
	if err != nil {
		return "", offset, failure.New(failure.Descriptor, "stat", c.sink.Path(), err)
	}

	end := info.Size()
	if end <= offset {
		return "", offset, nil
	}

	buf := make([]byte, end-offset)
	n, err := c.sink.File().ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", offset, failure.New(failure.Descriptor, "pread", c.sink.Path(), err)
	}

	return string(buf[:n]), offset + int64(n), nil
}

func (c *Capture) closeSaved(fd int) {
	if err := c.fds.Close(fd); err != nil {
		c.log.Errorf("Failed to close saved descriptor [%d]: %s", fd, err)
	}
}

type originalWriter struct {
	c *Capture
}

func (w originalWriter) Write(p []byte) (int, error) {
	if w.c.closed.Load() {
		return 0, failure.New(failure.Descriptor, "write", strconv.Itoa(w.c.saved), os.ErrClosed)
	}

	written := 0
	for written < len(p) {
		n, err := w.c.fds.Write(w.c.saved, p[written:])
		if n > 0 {
			written += n
		}
		if err != nil {
			return written, failure.New(failure.Descriptor, "write", strconv.Itoa(w.c.saved), err)
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}

	return written, nil
}
