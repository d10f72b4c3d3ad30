package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/plugrun/plugrun/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Store string
	Run   string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the run-history store",
		Long: `Query persisted suite runs.

Without --run, lists recent runs most recent first. With --run, prints
that run's outcomes in execution order.

Examples:
  plugrun history --store runs.db
  plugrun history --store runs.db --limit 5
  plugrun history --store runs.db --run 0190a8f2-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Store, "store", "", "run-history database path (required)")
	cmd.Flags().StringVar(&opts.Run, "run", "", "show outcomes for one run ID")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list")
	_ = cmd.MarkFlagRequired("store")

	return cmd
}

func showHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.Store); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("store not found: %s", opts.Store))
	}

	st, err := store.Open(opts.Store)
	if err != nil {
		return WrapExitError(ExitCommandError, "open run-history store", err)
	}
	defer st.Close()

	out := cmd.OutOrStdout()

	if opts.Run != "" {
		outcomes, err := st.RunOutcomes(cmd.Context(), opts.Run)
		if err != nil {
			return WrapExitError(ExitCommandError, "read outcomes", err)
		}
		if opts.Format == "json" {
			return writeJSON(out, outcomes)
		}
		for _, o := range outcomes {
			if o.FailureMessage != "" {
				fmt.Fprintf(out, "%-14s %s.%s: %s\n", o.Status, o.Suite, o.Method, o.FailureMessage)
				continue
			}
			fmt.Fprintf(out, "%-14s %s.%s\n", o.Status, o.Suite, o.Method)
		}
		return nil
	}

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "list runs", err)
	}
	if opts.Format == "json" {
		return writeJSON(out, runs)
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %-20s %s  %d passed, %d failed\n",
			r.ID, r.Suite, r.StartedAt, r.Passed, r.Failed)
	}
	return nil
}
