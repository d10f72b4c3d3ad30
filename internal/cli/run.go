package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plugrun/plugrun/internal/manifest"
	"github.com/plugrun/plugrun/internal/report"
	"github.com/plugrun/plugrun/internal/runner"
	"github.com/plugrun/plugrun/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Manifest string // manifest file path
	Store    string // run-history database path, overrides the manifest
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions, suites Registry) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [suite...]",
		Short: "Run registered test suites",
		Long: `Run registered test suites behind their composed rule chains.

Without arguments every registered suite runs; otherwise only the named
suites. Discovery and ordering policies come from the manifest.

Exit codes:
  0 - All tests passed
  1 - One or more tests failed
  2 - Command error (unknown suite, invalid manifest, etc.)

Examples:
  plugrun run
  plugrun run DemoSuite
  plugrun run --manifest plugrun.yaml --store runs.db
  plugrun run --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(opts, suites, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest file (YAML)")
	cmd.Flags().StringVar(&opts.Store, "store", "", "run-history database path")

	return cmd
}

func runSuites(opts *RunOptions, suites Registry, args []string, cmd *cobra.Command) error {
	m, err := loadManifest(opts.Manifest)
	if err != nil {
		return err
	}
	if opts.Store != "" {
		m.StorePath = opts.Store
	}

	names, err := resolveSuites(suites, args)
	if err != nil {
		return err
	}

	var st *store.Store
	if m.StorePath != "" {
		st, err = store.Open(m.StorePath)
		if err != nil {
			return WrapExitError(ExitCommandError, "open run-history store", err)
		}
		defer st.Close()
	}

	logger := commandLogger(opts.RootOptions, cmd.ErrOrStderr())
	out := cmd.OutOrStdout()

	var results []*runner.Result
	failed := false
	for _, name := range names {
		host, err := suites[name](m.HostOptions()...)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("build suite %s", name), err)
		}

		r := runner.New(runner.Options{
			Policy:    m.Policy(),
			Sequencer: m.Sequencer(),
			Logger:    logger,
		})

		var rep runner.Reporter = runner.NopReporter
		var text *report.TextReporter
		if opts.Format == "text" {
			fmt.Fprintf(out, "=== %s\n", name)
			text = report.NewText(out)
			rep = text
		}

		res, err := r.Run(cmd.Context(), host, rep)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("run suite %s", name), err)
		}
		results = append(results, res)

		if text != nil {
			if err := text.Summary(res); err != nil {
				return err
			}
		}
		if st != nil {
			if err := st.WriteResult(cmd.Context(), res); err != nil {
				return WrapExitError(ExitCommandError, "persist run", err)
			}
		}
		if !res.Pass() {
			failed = true
		}
	}

	if opts.Format == "json" {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	}
	if failed {
		return NewExitError(ExitFailure, "one or more tests failed")
	}
	return nil
}

// loadManifest loads the manifest file, or the defaults when none given.
func loadManifest(path string) (*manifest.Manifest, error) {
	if path == "" {
		return manifest.Default(), nil
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load manifest", err)
	}
	return m, nil
}

// resolveSuites validates the requested suite names, defaulting to all.
func resolveSuites(suites Registry, args []string) ([]string, error) {
	if len(args) == 0 {
		return suites.Names(), nil
	}
	for _, name := range args {
		if _, ok := suites[name]; !ok {
			return nil, NewExitError(ExitCommandError,
				fmt.Sprintf("unknown suite %q (registered: %v)", name, suites.Names()))
		}
	}
	return args, nil
}

// commandLogger builds the slog logger for a command invocation.
// Non-verbose runs only surface warnings; test output stays clean.
func commandLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
