package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plugrun/plugrun/internal/discovery"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Manifest string
}

// listedMethod is one discovered test method in JSON output.
type listedMethod struct {
	Suite   string   `json:"suite"`
	Method  string   `json:"method"`
	Markers []string `json:"markers"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions, suites Registry) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list [suite...]",
		Short: "List discovered test methods without running them",
		Long: `List the test methods the engine would run, in run order.

Classification and sequencing follow the manifest, so the listing shows
exactly what "plugrun run" would execute.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listMethods(opts, suites, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Manifest, "manifest", "", "manifest file (YAML)")

	return cmd
}

func listMethods(opts *ListOptions, suites Registry, args []string, cmd *cobra.Command) error {
	m, err := loadManifest(opts.Manifest)
	if err != nil {
		return err
	}

	names, err := resolveSuites(suites, args)
	if err != nil {
		return err
	}

	policy := m.Policy()
	sequencer := m.Sequencer()
	out := cmd.OutOrStdout()

	var listed []listedMethod
	for _, name := range names {
		host, err := suites[name](m.HostOptions()...)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("build suite %s", name), err)
		}

		methods, err := host.Methods()
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("enumerate suite %s", name), err)
		}

		for _, d := range sequencer(discovery.Filter(methods, policy)) {
			listed = append(listed, listedMethod{Suite: d.Suite, Method: d.Name, Markers: d.Markers})
		}
	}

	if opts.Format == "json" {
		return writeJSON(out, listed)
	}
	for _, lm := range listed {
		fmt.Fprintf(out, "%s.%s [%s]\n", lm.Suite, lm.Method, strings.Join(lm.Markers, ","))
	}
	return nil
}
