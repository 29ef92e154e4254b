package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shini4i/testkit/internal/app"
	"github.com/shini4i/testkit/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureConfig(fs afero.Fs, received *app.Config) Options {
	return Options{
		Version:     "test-version",
		FS:          fs,
		InitLogging: func(bool) {},
		RunApp: func(_ context.Context, cfg app.Config) error {
			*received = cfg
			return nil
		},
	}
}

func TestExecuteRunsAppWithFlags(t *testing.T) {
	var receivedConfig app.Config

	args := []string{
		"run",
		"--env", "A=1",
		"--env", "B=2",
		"--unset", "HOME",
		"--in-temp-dir",
		"--keep",
		"--seed", "testdata/**",
		"--checkout",
		"--fd", "1", "--fd", "2",
		"--stream",
		"--poll", "25ms",
		"--timeout", "3s",
		"--fail-on", "warning",
		"--expect", "ok",
		"--reject", "panic",
		"--golden", "out.golden",
		"--report", "report.yaml",
		"--",
		"go", "test", "-run", "TestX",
	}

	err := Execute(context.Background(), captureConfig(afero.NewMemMapFs(), &receivedConfig), args)
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "test", "-run", "TestX"}, receivedConfig.Command)
	assert.Equal(t, []string{"A=1", "B=2"}, receivedConfig.Env)
	assert.Equal(t, []string{"HOME"}, receivedConfig.Unset)
	assert.True(t, receivedConfig.InTempDir)
	assert.True(t, receivedConfig.Keep)
	assert.Equal(t, []string{"testdata/**"}, receivedConfig.Seeds)
	assert.True(t, receivedConfig.Checkout)
	assert.Equal(t, []int{1, 2}, receivedConfig.Fds)
	assert.True(t, receivedConfig.Stream)
	assert.Equal(t, 25*time.Millisecond, receivedConfig.Poll)
	assert.Equal(t, 3*time.Second, receivedConfig.Timeout)
	assert.Equal(t, models.FailOnWarning, receivedConfig.FailOn)
	assert.Equal(t, []string{"ok"}, receivedConfig.Expect)
	assert.Equal(t, []string{"panic"}, receivedConfig.Reject)
	assert.Equal(t, "out.golden", receivedConfig.Golden)
	assert.Equal(t, "report.yaml", receivedConfig.Report)
	assert.Equal(t, "test-version", receivedConfig.Version)
}

func TestExecuteDefaults(t *testing.T) {
	var receivedConfig app.Config

	err := Execute(context.Background(), captureConfig(afero.NewMemMapFs(), &receivedConfig), []string{"run", "make", "-j4"})
	require.NoError(t, err)

	assert.Equal(t, []string{"make", "-j4"}, receivedConfig.Command)
	assert.Equal(t, []int{2}, receivedConfig.Fds)
	assert.Equal(t, 100*time.Millisecond, receivedConfig.Poll)
	assert.Equal(t, models.FailOnError, receivedConfig.FailOn)
	assert.False(t, receivedConfig.UsesWorkspace())
}

func TestExecuteFailOnFromEnvironment(t *testing.T) {
	t.Setenv("TESTKIT_FAIL_ON", "none")
	var receivedConfig app.Config

	err := Execute(context.Background(), captureConfig(afero.NewMemMapFs(), &receivedConfig), []string{"run", "true"})
	require.NoError(t, err)

	assert.Equal(t, models.FailOnNone, receivedConfig.FailOn)
}

func TestExecuteConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, app.DefaultConfigFile, []byte("fail_on: warning\nfds: [1]\nexpect: [done]\n"), 0o644))

	t.Run("file values apply", func(t *testing.T) {
		var receivedConfig app.Config

		err := Execute(context.Background(), captureConfig(fs, &receivedConfig), []string{"run", "true"})
		require.NoError(t, err)

		assert.Equal(t, models.FailOnWarning, receivedConfig.FailOn)
		assert.Equal(t, []int{1}, receivedConfig.Fds)
		assert.Equal(t, []string{"done"}, receivedConfig.Expect)
	})

	t.Run("flags override file values", func(t *testing.T) {
		var receivedConfig app.Config

		err := Execute(context.Background(), captureConfig(fs, &receivedConfig), []string{"run", "--fail-on", "error", "--fd", "2", "true"})
		require.NoError(t, err)

		assert.Equal(t, models.FailOnError, receivedConfig.FailOn)
		assert.Equal(t, []int{2}, receivedConfig.Fds)
		assert.Equal(t, []string{"done"}, receivedConfig.Expect)
	})
}

func TestExecuteExplicitConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/testkit.yaml", []byte("in_temp_dir: true\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/empty.yaml", []byte(""), 0o644))

	var receivedConfig app.Config
	err := Execute(context.Background(), captureConfig(fs, &receivedConfig), []string{"run", "--config", "/cfg/testkit.yaml", "true"})
	require.NoError(t, err)
	assert.True(t, receivedConfig.InTempDir)

	err = Execute(context.Background(), captureConfig(fs, &receivedConfig), []string{"run", "--config", "/cfg/empty.yaml", "true"})
	assert.ErrorIs(t, err, models.ErrEmptyConfig)

	t.Setenv("TESTKIT_CONFIG", "/cfg/missing.yaml")
	err = Execute(context.Background(), captureConfig(fs, &receivedConfig), []string{"run", "true"})
	assert.ErrorContains(t, err, "failed to read config file /cfg/missing.yaml")
}

func TestExecuteIgnoresEmptyDefaultConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, app.DefaultConfigFile, []byte(""), 0o644))

	var receivedConfig app.Config
	err := Execute(context.Background(), captureConfig(fs, &receivedConfig), []string{"run", "true"})

	assert.NoError(t, err)
}

func TestExecutePassesRunError(t *testing.T) {
	opts := Options{
		FS:          afero.NewMemMapFs(),
		InitLogging: func(bool) {},
		RunApp: func(context.Context, app.Config) error {
			return app.ErrChecksFailed
		},
	}

	err := Execute(context.Background(), opts, []string{"run", "true"})

	assert.True(t, errors.Is(err, app.ErrChecksFailed))
}

func TestExecuteInitLoggingReceivesDebug(t *testing.T) {
	var debugEnabled bool
	var receivedConfig app.Config

	opts := captureConfig(afero.NewMemMapFs(), &receivedConfig)
	opts.InitLogging = func(debug bool) { debugEnabled = debug }

	err := Execute(context.Background(), opts, []string{"--debug", "run", "true"})
	require.NoError(t, err)

	assert.True(t, debugEnabled)
	assert.True(t, receivedConfig.Debug)
}

func TestExecuteErrorScenarios(t *testing.T) {
	cases := []struct {
		name    string
		opts    Options
		args    []string
		wantErr string
	}{
		{
			name:    "missing run handler",
			opts:    Options{FS: afero.NewMemMapFs(), InitLogging: func(bool) {}},
			args:    []string{"run", "true"},
			wantErr: "no run handler provided",
		},
		{
			name:    "missing command",
			opts:    Options{FS: afero.NewMemMapFs(), InitLogging: func(bool) {}},
			args:    []string{"run"},
			wantErr: "requires at least 1 arg(s)",
		},
		{
			name:    "invalid severity",
			opts:    Options{FS: afero.NewMemMapFs(), InitLogging: func(bool) {}},
			args:    []string{"run", "--fail-on", "fatal", "true"},
			wantErr: "fail_on must be one of none, warning, error",
		},
		{
			name:    "negative descriptor",
			opts:    Options{FS: afero.NewMemMapFs(), InitLogging: func(bool) {}},
			args:    []string{"run", "--fd", "-1", "true"},
			wantErr: models.ErrNegativeFd.Error(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Execute(context.Background(), tc.opts, tc.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
