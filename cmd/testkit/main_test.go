package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/cmd/testkit/command"
	"github.com/shini4i/testkit/pkg/logpatterns"
	"github.com/shini4i/testkit/pkg/pcre"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func restoreDefaultBackend(t *testing.T) {
	t.Cleanup(func() {
		logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0))
	})
}

func TestInitLogging(t *testing.T) {
	restoreDefaultBackend(t)

	var buf bytes.Buffer
	initLogging(&buf, false)

	log.Debug("hidden")
	log.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	pcre.ExpectMatch(t, logpatterns.ErrorPattern, buf.String())
}

func TestInitLoggingDebug(t *testing.T) {
	restoreDefaultBackend(t)

	var buf bytes.Buffer
	initLogging(&buf, true)

	log.Debug("visible")

	assert.Contains(t, buf.String(), "visible")
	pcre.ExpectMatch(t, `(?m)^D\d{4} `, buf.String())
}

func TestStderrDuplicate(t *testing.T) {
	dup := stderrDuplicate()
	require.NotEqual(t, os.Stderr, dup)
	t.Cleanup(func() {
		_ = dup.Close()
	})

	assert.NotEqual(t, int(os.Stderr.Fd()), int(dup.Fd()))

	flags, err := unix.FcntlInt(dup.Fd(), unix.F_GETFD, 0)
	require.NoError(t, err)
	assert.NotZero(t, flags&unix.FD_CLOEXEC)
}

func TestRunCapturesChildStdout(t *testing.T) {
	restoreDefaultBackend(t)

	var logs bytes.Buffer
	err := command.Execute(context.Background(), newOptions(&logs), []string{
		"run",
		"--fd", "1",
		"--fail-on", "none",
		"--expect", `^from-child\n$`,
		"--",
		"sh", "-c", "echo from-child",
	})

	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "Running testkit version")
}
