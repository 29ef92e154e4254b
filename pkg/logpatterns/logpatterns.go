// Package logpatterns fixes the line format of the logging backend and
// provides the patterns that classify its lines by severity.
package logpatterns

import (
	"io"

	"github.com/op/go-logging"
)

// Format renders a glog-style prefix: one severity letter, then the
// timestamp as MMDD hh:mm:ss.uuuuuu, then the process id and call site.
const Format = `%{level:.1s}%{time:0102 15:04:05.000000} %{pid} %{shortfile}] %{message}`

// Line prefixes are matched at the start of any line of captured text.
const (
	ErrorPattern          = `(?m)^E\d{4} \d{2}:\d{2}:\d{2}\.\d{6}\s`
	WarningPattern        = `(?m)^W\d{4} \d{2}:\d{2}:\d{2}\.\d{6}\s`
	ErrorOrWarningPattern = `(?m)^[EW]\d{4} \d{2}:\d{2}:\d{2}\.\d{6}\s`

	// CriticalPattern matches CRITICAL lines, which rank above ERROR but
	// are not part of the error and warning partition.
	CriticalPattern = `(?m)^C\d{4} \d{2}:\d{2}:\d{2}\.\d{6}\s`
)

// NewBackend returns a backend writing Format lines to w.
func NewBackend(w io.Writer) logging.Backend {
	return logging.NewBackendFormatter(
		logging.NewLogBackend(w, "", 0),
		logging.MustStringFormatter(Format),
	)
}

// Install makes a Format backend writing to w the default for every logger,
// with level as the threshold.
func Install(w io.Writer, level logging.Level) {
	leveled := logging.AddModuleLevel(NewBackend(w))
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
