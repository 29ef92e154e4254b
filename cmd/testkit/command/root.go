package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shini4i/testkit/internal/app"
	"github.com/shini4i/testkit/internal/helpers"
	"github.com/shini4i/testkit/internal/models"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Options describes the collaborators and defaults required to build the CLI.
type Options struct {
	Version     string
	FS          afero.Fs
	RunApp      func(context.Context, app.Config) error
	InitLogging func(debug bool)
}

// Execute builds and runs the Cobra command tree using the supplied options.
func Execute(ctx context.Context, opts Options, args []string) error {
	root := newRootCommand(opts)

	if args != nil {
		root.SetArgs(args)
	}

	return root.ExecuteContext(ctx)
}

// newRootCommand builds the root Cobra command with global flags and hooks.
func newRootCommand(opts Options) *cobra.Command {
	var debug bool

	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}

	root := &cobra.Command{
		Use:           "testkit",
		Short:         "Run a command with captured output, a scratch workspace and a restored environment",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.InitLogging != nil {
				opts.InitLogging(debug)
			}
			return nil
		},
	}

	root.Version = opts.Version
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug mode")

	root.AddCommand(newRunCommand(opts, func() bool { return debug }))

	return root
}

// newRunCommand constructs the run subcommand.
func newRunCommand(opts Options, debug func() bool) *cobra.Command {
	flags := loadRunDefaults()

	cmd := &cobra.Command{
		Use:   "run [flags] [--] <command> [args...]",
		Short: "Run a command and check what it writes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileOptions, err := loadFileOptions(opts.FS, flags.config)
			if err != nil {
				return err
			}

			all := func(string) bool { return true }
			flagDefaults, err := flags.configOptions(all)
			if err != nil {
				return err
			}
			flagOverrides, err := flags.configOptions(cmd.Flags().Changed)
			if err != nil {
				return err
			}

			options := append(flagDefaults, fileOptions...)
			options = append(options, flagOverrides...)
			options = append(options, app.WithDebug(debug()), app.WithVersion(opts.Version))

			cfg, err := app.NewConfig(args, options...)
			if err != nil {
				return err
			}

			if opts.RunApp == nil {
				return errors.New("no run handler provided")
			}

			return opts.RunApp(cmd.Context(), cfg)
		},
	}

	// Flags after the command belong to the command.
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().StringArrayVarP(&flags.env, "env", "e", nil, "Set KEY=VALUE in the environment of the command (can be set multiple times)")
	cmd.Flags().StringArrayVarP(&flags.unset, "unset", "u", nil, "Remove a variable from the environment of the command (can be set multiple times)")
	cmd.Flags().BoolVar(&flags.inTempDir, "in-temp-dir", false, "Run the command in a temporary working directory")
	cmd.Flags().BoolVar(&flags.keep, "keep", false, "Keep the temporary working directory after the run")
	cmd.Flags().StringArrayVar(&flags.seed, "seed", nil, "Copy files matching a glob into the working directory (can be set multiple times)")
	cmd.Flags().BoolVar(&flags.checkout, "checkout", false, "Export the HEAD tree of the enclosing git repository into the working directory")
	cmd.Flags().IntSliceVar(&flags.fds, "fd", flags.fds, "Descriptor to capture (can be set multiple times)")
	cmd.Flags().BoolVar(&flags.stream, "stream", false, "Echo captured output while the command runs")
	cmd.Flags().DurationVar(&flags.poll, "poll", flags.poll, "Interval between reads of captured output when streaming")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Kill the command after this duration")
	cmd.Flags().Var(&failOnValue{value: &flags.failOn}, "fail-on", "Fail when captured log lines reach this severity (none, warning, error)")
	cmd.Flags().StringArrayVar(&flags.expect, "expect", nil, "Pattern the captured output must match (can be set multiple times)")
	cmd.Flags().StringArrayVar(&flags.reject, "reject", nil, "Pattern the captured output must not match (can be set multiple times)")
	cmd.Flags().StringVar(&flags.golden, "golden", "", "File the captured output must equal")
	cmd.Flags().StringVar(&flags.report, "report", "", "Write a YAML report to this file")
	cmd.Flags().StringVarP(&flags.config, "config", "c", flags.config, "Config file (default "+app.DefaultConfigFile+" when present)")

	return cmd
}

type runFlags struct {
	env       []string
	unset     []string
	inTempDir bool
	keep      bool
	seed      []string
	checkout  bool
	fds       []int
	stream    bool
	poll      time.Duration
	timeout   time.Duration
	failOn    string
	expect    []string
	reject    []string
	golden    string
	report    string
	config    string
}

func loadRunDefaults() runFlags {
	return runFlags{
		fds:    []int{2},
		poll:   100 * time.Millisecond,
		failOn: helpers.GetEnv("TESTKIT_FAIL_ON", string(models.FailOnError)),
		config: helpers.GetEnv("TESTKIT_CONFIG", ""),
	}
}

// configOptions converts the flags selected by include into options.
func (f runFlags) configOptions(include func(name string) bool) ([]app.ConfigOption, error) {
	var options []app.ConfigOption

	if include("env") && len(f.env) > 0 {
		options = append(options, app.WithEnv(f.env))
	}
	if include("unset") && len(f.unset) > 0 {
		options = append(options, app.WithUnset(f.unset))
	}
	if include("in-temp-dir") && f.inTempDir {
		options = append(options, app.WithInTempDir(true))
	}
	if include("keep") && f.keep {
		options = append(options, app.WithKeep(true))
	}
	if include("seed") && len(f.seed) > 0 {
		options = append(options, app.WithSeeds(f.seed))
	}
	if include("checkout") && f.checkout {
		options = append(options, app.WithCheckout(true))
	}
	if include("fd") {
		for _, fd := range f.fds {
			if fd < 0 {
				return nil, fmt.Errorf("%w: %d", models.ErrNegativeFd, fd)
			}
		}
		options = append(options, app.WithFds(f.fds))
	}
	if include("stream") && f.stream {
		options = append(options, app.WithStream(true))
	}
	if include("poll") {
		options = append(options, app.WithPoll(f.poll))
	}
	if include("timeout") && f.timeout > 0 {
		options = append(options, app.WithTimeout(f.timeout))
	}
	if include("fail-on") {
		failOn, err := models.ParseFailOn(f.failOn)
		if err != nil {
			return nil, err
		}
		options = append(options, app.WithFailOn(failOn))
	}
	if include("expect") && len(f.expect) > 0 {
		options = append(options, app.WithExpect(f.expect))
	}
	if include("reject") && len(f.reject) > 0 {
		options = append(options, app.WithReject(f.reject))
	}
	if include("golden") && f.golden != "" {
		options = append(options, app.WithGolden(f.golden))
	}
	if include("report") && f.report != "" {
		options = append(options, app.WithReport(f.report))
	}

	return options, nil
}

// loadFileOptions reads the config file at path, or the default file when
// path is empty and it exists. An empty default file is ignored.
func loadFileOptions(fs afero.Fs, path string) ([]app.ConfigOption, error) {
	explicit := path != ""
	if !explicit {
		exists, err := afero.Exists(fs, app.DefaultConfigFile)
		if err != nil || !exists {
			return nil, err
		}
		path = app.DefaultConfigFile
	}

	fc, err := app.LoadFileConfig(fs, path)
	if errors.Is(err, models.ErrEmptyConfig) && !explicit {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return app.FileConfigOptions(fc), nil
}

var _ pflag.Value = (*failOnValue)(nil)

// failOnValue rejects unknown severities while flags are parsed.
type failOnValue struct {
	value *string
}

func (v *failOnValue) String() string {
	return *v.value
}

func (v *failOnValue) Set(s string) error {
	if _, err := models.ParseFailOn(s); err != nil {
		return err
	}
	*v.value = s
	return nil
}

func (v *failOnValue) Type() string {
	return "severity"
}
