// Command plugrun runs the engine's demo suite from the command line.
//
// Real deployments embed the engine as a library and register their own
// suites; the demo suite exists so every command has something to
// exercise out of the box.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/plugrun/plugrun/internal/cli"
	"github.com/plugrun/plugrun/internal/reflecthost"
	"github.com/plugrun/plugrun/internal/rule"
	"github.com/plugrun/plugrun/internal/runner"
)

// DemoSuite is a minimal suite exercising the built-in rules.
type DemoSuite struct {
	Timer *rule.TimingRule
	Log   *rule.LoggingRule `rule:"order=1"`

	ready bool
}

// SetUp marks the suite ready before each test.
func (s *DemoSuite) SetUp(context.Context) error {
	s.ready = true
	return nil
}

// TestReady verifies setup ran.
func (s *DemoSuite) TestReady(context.Context) error {
	if !s.ready {
		return fmt.Errorf("setup did not run")
	}
	return nil
}

// TestArithmetic is a trivially passing demo test.
func (s *DemoSuite) TestArithmetic(context.Context) error {
	if 2+2 != 4 {
		return fmt.Errorf("arithmetic is broken")
	}
	return nil
}

func main() {
	suites := cli.Registry{
		"DemoSuite": func(opts ...reflecthost.Option) (runner.Host, error) {
			return reflecthost.New(&DemoSuite{
				Timer: rule.NewTimingRule(slog.Default()),
				Log:   rule.NewLoggingRule(slog.Default()),
			}, opts...)
		},
	}

	root := cli.NewRootCommand(suites)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
