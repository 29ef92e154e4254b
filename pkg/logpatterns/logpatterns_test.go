package logpatterns

import (
	"bytes"
	"os"
	"testing"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/pkg/fdcapture"
	"github.com/shini4i/testkit/pkg/pcre"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefaultBackend(t *testing.T) {
	t.Cleanup(func() {
		logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0))
	})
}

func matches(t *testing.T, pattern, text string) bool {
	t.Helper()
	ok, err := pcre.Match(pattern, text)
	require.NoError(t, err)
	return ok
}

func TestPatternsOnLiteralLines(t *testing.T) {
	tests := []struct {
		name           string
		line           string
		error          bool
		warning        bool
		errorOrWarning bool
		critical       bool
	}{
		{name: "info", line: "I1016 10:11:12.123456 42 main.go:10] started\n"},
		{name: "debug", line: "D1016 10:11:12.123456 42 main.go:10] state\n"},
		{name: "notice", line: "N1016 10:11:12.123456 42 main.go:10] note\n"},
		{name: "warning", line: "W1016 10:11:12.123456 42 main.go:10] careful\n", warning: true, errorOrWarning: true},
		{name: "error", line: "E1016 10:11:12.123456 42 main.go:10] boom\n", error: true, errorOrWarning: true},
		{name: "critical", line: "C1016 10:11:12.123456 42 main.go:10] disk on fire\n", critical: true},
		{name: "error mid line", line: "I1016 10:11:12.123456 42 main.go:10] saw E1016 10:11:12.123456 x\n"},
		{name: "error on later line", line: "plain\nE1016 10:11:12.123456 42 main.go:10] boom\n", error: true, errorOrWarning: true},
		{name: "word starting with E", line: "Everything is fine\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.error, matches(t, ErrorPattern, tt.line))
			assert.Equal(t, tt.warning, matches(t, WarningPattern, tt.line))
			assert.Equal(t, tt.errorOrWarning, matches(t, ErrorOrWarningPattern, tt.line))
			assert.Equal(t, tt.critical, matches(t, CriticalPattern, tt.line))
		})
	}
}

func TestNewBackendFormat(t *testing.T) {
	restoreDefaultBackend(t)

	var buf bytes.Buffer
	logging.SetBackend(NewBackend(&buf))
	log := logging.MustGetLogger("logpatterns-format")

	log.Error("formatted")

	line := buf.String()
	assert.Regexp(t, `^E\d{4} \d{2}:\d{2}:\d{2}\.\d{6} \d+ logpatterns_test\.go:\d+\] formatted\n$`, line)
}

func TestInstallFiltersByLevel(t *testing.T) {
	restoreDefaultBackend(t)

	var buf bytes.Buffer
	Install(&buf, logging.WARNING)
	log := logging.MustGetLogger("logpatterns-install")

	log.Info("hidden")
	log.Warning("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.True(t, matches(t, WarningPattern, buf.String()))
}

func TestPatternsPartitionLoggedLines(t *testing.T) {
	capture := fdcapture.NewForTest(t, 2)
	restoreDefaultBackend(t)

	logging.SetBackend(NewBackend(os.Stderr))
	log := logging.MustGetLogger("logpatterns-partition")

	log.Info("informational message")
	info, err := capture.ReadIncremental()
	require.NoError(t, err)

	log.Warning("warning message")
	warning, err := capture.ReadIncremental()
	require.NoError(t, err)

	log.Error("error message")
	errLine, err := capture.ReadIncremental()
	require.NoError(t, err)

	log.Critical("critical message")
	critical, err := capture.ReadIncremental()
	require.NoError(t, err)

	pcre.ExpectNoMatch(t, ErrorOrWarningPattern, info)
	pcre.ExpectNoMatch(t, ErrorPattern, info)
	pcre.ExpectNoMatch(t, WarningPattern, info)

	pcre.ExpectMatch(t, WarningPattern, warning)
	pcre.ExpectMatch(t, ErrorOrWarningPattern, warning)
	pcre.ExpectNoMatch(t, ErrorPattern, warning)

	pcre.ExpectMatch(t, ErrorPattern, errLine)
	pcre.ExpectMatch(t, ErrorOrWarningPattern, errLine)
	pcre.ExpectNoMatch(t, WarningPattern, errLine)

	pcre.ExpectMatch(t, CriticalPattern, critical)
	pcre.ExpectNoMatch(t, ErrorOrWarningPattern, critical)

	all, err := capture.Read()
	require.NoError(t, err)
	assert.Equal(t, info+warning+errLine+critical, all)
}
