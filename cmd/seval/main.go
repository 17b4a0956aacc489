// Seval validates and runs function bodies written in the safe JavaScript subset.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-seval"
	"github.com/robbyt/go-seval/internal/config"
)

// Exit codes.
const (
	ExitSuccess         = 0
	ExitFailure         = 1
	ExitPolicyViolation = 2
)

// streams carries the command's I/O so tests can run it in-process.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func newRootCmd(s streams) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "seval",
		Short: "Validate and run function bodies in a safe JavaScript subset",
		Long: `Seval checks a JavaScript function body against a fixed allow-list before running it.
Bodies that could reach host globals, such as member access or calls, are rejected
before any code runs. Accepted bodies run in a fresh runtime per call.

Exit codes:
  0  success
  1  failure
  2  body rejected by the validator`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(s.in)
	root.SetOut(s.out)
	root.SetErr(s.err)
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (allow_loops, params, timeout, log)")

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}
	root.AddCommand(newCheckCmd(loadConfig), newRunCmd(loadConfig), newVersionCmd())
	return root
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, seval.ErrValidation), errors.Is(err, seval.ErrSyntax):
		return ExitPolicyViolation
	default:
		return ExitFailure
	}
}

func execute(args []string, s streams) int {
	cmd := newRootCmd(s)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(s.err, "error: %v\n", err)
	}
	return exitCode(err)
}

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: loading .env: %v\n", err)
		os.Exit(ExitFailure)
	}
	os.Exit(execute(os.Args[1:], streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}))
}
