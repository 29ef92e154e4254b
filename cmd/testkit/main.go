package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/cmd/testkit/command"
	"github.com/shini4i/testkit/internal/app"
	"github.com/shini4i/testkit/pkg/logpatterns"
	"golang.org/x/sys/unix"
)

var version = "local"

var log = logging.MustGetLogger("testkit")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := command.Execute(ctx, newOptions(stderrDuplicate()), nil)
	stop()

	if err != nil {
		if !errors.Is(err, app.ErrChecksFailed) {
			log.Error(err)
		}
		os.Exit(1)
	}
}

func newOptions(logOut io.Writer) command.Options {
	return command.Options{
		Version: version,
		InitLogging: func(debug bool) {
			initLogging(logOut, debug)
		},
		RunApp: func(ctx context.Context, cfg app.Config) error {
			application, err := app.New(cfg, app.Dependencies{Logger: log})
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}
}

func initLogging(w io.Writer, debug bool) {
	level := logging.INFO
	if debug {
		level = logging.DEBUG
	}
	logpatterns.Install(w, level)
}

// stderrDuplicate returns a private copy of stderr, so log lines keep
// reaching the terminal while descriptor 2 is captured.
func stderrDuplicate() *os.File {
	fd, err := unix.Dup(int(os.Stderr.Fd()))
	if err != nil {
		return os.Stderr
	}
	unix.CloseOnExec(fd)
	return os.NewFile(uintptr(fd), "/dev/stderr")
}
