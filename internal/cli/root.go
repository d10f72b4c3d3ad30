// Package cli implements the plugrun command line: running registered
// suites against a manifest, listing discovered test methods, and
// querying the run-history store.
package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/plugrun/plugrun/internal/reflecthost"
	"github.com/plugrun/plugrun/internal/runner"
)

// SuiteFactory builds a fresh host for one run of a suite. A fresh
// instance per run keeps rule state test-run-scoped.
type SuiteFactory func(opts ...reflecthost.Option) (runner.Host, error)

// Registry maps suite names to factories. The embedding binary registers
// its suites here; the engine discovers nothing on its own.
type Registry map[string]SuiteFactory

// Names returns the registered suite names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the plugrun CLI.
func NewRootCommand(suites Registry) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "plugrun",
		Short: "plugrun - pluggable test-execution engine",
		Long:  "Runs registered test suites behind composed rule chains, with swappable discovery and ordering policies.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts, suites))
	cmd.AddCommand(NewListCommand(opts, suites))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
