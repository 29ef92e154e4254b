package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/op/go-logging"
	"github.com/shini4i/testkit/cmd/testkit/utils"
	"github.com/shini4i/testkit/internal/helpers"
	"github.com/shini4i/testkit/internal/models"
	"github.com/shini4i/testkit/internal/ports"
	"github.com/shini4i/testkit/pkg/envsaver"
	"github.com/shini4i/testkit/pkg/failure"
	pkgports "github.com/shini4i/testkit/pkg/ports"
	"github.com/shini4i/testkit/pkg/tempfs"
	"github.com/spf13/afero"
)

const workspacePrefix = "testkit-"

// ErrChecksFailed is returned by Run when the command ran but at least one
// check did not pass.
var ErrChecksFailed = errors.New("one or more checks failed")

// Dependencies aggregates runtime collaborators required by App.
type Dependencies struct {
	FS          afero.Fs
	CmdRunner   ports.CmdRunner
	Globber     ports.Globber
	Environment ports.Environment
	Logger      *logging.Logger
	Out         io.Writer
}

// App runs a command inside the configured fixtures and checks its output.
type App struct {
	cfg       Config
	fs        afero.Fs
	cmdRunner ports.CmdRunner
	globber   ports.Globber
	env       ports.Environment
	logger    *logging.Logger
	out       io.Writer
}

// New constructs an App using the supplied configuration and dependencies.
func New(cfg Config, deps Dependencies) (*App, error) {
	if len(cfg.Command) == 0 {
		return nil, ErrEmptyCommand
	}

	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	if deps.CmdRunner == nil {
		deps.CmdRunner = &utils.RealCmdRunner{}
	}
	if deps.Globber == nil {
		deps.Globber = utils.CustomGlobber{}
	}
	if deps.Environment == nil {
		deps.Environment = pkgports.OsEnvironment{}
	}
	if deps.Logger == nil {
		return nil, errors.New("logger must be provided")
	}
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if cfg.Poll <= 0 {
		cfg.Poll = defaultPoll
	}

	return &App{
		cfg:       cfg,
		fs:        deps.FS,
		cmdRunner: deps.CmdRunner,
		globber:   deps.Globber,
		env:       deps.Environment,
		logger:    deps.Logger,
		out:       deps.Out,
	}, nil
}

// Run executes the workflow and returns ErrChecksFailed when a check fails.
// The environment and working directory are restored before it returns.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("===> Running testkit version [%s]", cyan(a.cfg.Version))

	origin, err := os.Getwd()
	if err != nil {
		return failure.New(failure.Filesystem, "getwd", "", err)
	}

	goldenPath := resolvePath(origin, a.cfg.Golden)
	reportPath := resolvePath(origin, a.cfg.Report)

	saver := envsaver.New(envsaver.WithEnvironment(a.env), envsaver.WithLogger(a.logger))
	defer saver.Close()

	if err := a.applyEnv(); err != nil {
		return err
	}

	workdir, release, err := a.prepareWorkspace(origin)
	if err != nil {
		return err
	}
	defer release()

	started := time.Now()
	outputs, exitCode, timedOut, err := a.execute(ctx)
	if err != nil {
		return err
	}

	report := a.evaluate(exitCode, timedOut, outputs, goldenPath)
	report.Workdir = workdir
	report.Duration = time.Since(started).Round(time.Millisecond).String()

	a.present(report)

	if a.cfg.Keep && workdir != "" {
		fmt.Fprintf(a.out, "Working directory kept at %s\n", cyan(workdir))
	}

	if reportPath != "" {
		if err := a.writeReport(reportPath, report); err != nil {
			return err
		}
	}

	if !report.Passed {
		return ErrChecksFailed
	}
	return nil
}

// applyEnv sets and unsets the configured variables. The caller restores
// the environment.
func (a *App) applyEnv() error {
	for _, entry := range a.cfg.Env {
		key, value, ok := helpers.SplitEnvEntry(entry)
		if !ok || !models.ValidEnvKey(key) {
			return fmt.Errorf("%w: %q", models.ErrInvalidEnvKey, entry)
		}
		a.logger.Debugf("▶ Setting [%s]", key)
		if err := a.env.Setenv(key, value); err != nil {
			return failure.New(failure.Environment, "setenv", key, err)
		}
	}

	for _, key := range a.cfg.Unset {
		a.logger.Debugf("▶ Unsetting [%s]", key)
		if err := a.env.Unsetenv(key); err != nil {
			return failure.New(failure.Environment, "unsetenv", key, err)
		}
	}

	return nil
}

// prepareWorkspace enters a temporary working directory when one is
// configured and fills it. The returned function leaves it again.
func (a *App) prepareWorkspace(origin string) (string, func(), error) {
	if !a.cfg.UsesWorkspace() {
		return "", func() {}, nil
	}

	cwd, err := tempfs.NewTempCwd(
		tempfs.WithPrefix(workspacePrefix),
		tempfs.WithScope(workspaceScope(a.cfg.Keep)),
		tempfs.WithLogger(a.logger),
	)
	if err != nil {
		return "", nil, err
	}

	a.logger.Debugf("===> Entered working directory [%s]", cyan(cwd.Path()))

	if a.cfg.Checkout {
		if err := a.exportHead(origin, cwd.Path()); err != nil {
			cwd.Close()
			return "", nil, err
		}
	}

	if err := a.seed(origin, cwd.Path()); err != nil {
		cwd.Close()
		return "", nil, err
	}

	return cwd.Path(), cwd.Close, nil
}

// execute runs the command with every configured descriptor captured and
// returns what they received. Captures are released before it returns.
func (a *App) execute(ctx context.Context) ([]capturedOutput, int, bool, error) {
	captures, err := a.startCaptures()
	if err != nil {
		return nil, 0, false, err
	}
	defer releaseCaptures(captures)

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	stopPolling := a.pollCaptures(captures)
	runErr := a.cmdRunner.Run(ctx, a.cfg.Command[0], a.cfg.Command[1:])
	stopPolling()

	exitCode, err := exitStatus(runErr)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to run %s: %w", a.cfg.Command[0], err)
	}
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)

	outputs, err := a.collect(captures)
	if err != nil {
		return nil, 0, false, err
	}

	releaseCaptures(captures)

	if timedOut {
		a.logger.Warningf("Command [%s] timed out after %s", a.cfg.Command[0], a.cfg.Timeout)
	}

	return outputs, exitCode, timedOut, nil
}

// exitStatus extracts the exit code of a command that ran. Errors of
// commands that could not start are returned.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr interface{ ExitCode() int }
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return -1, err
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
