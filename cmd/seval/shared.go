package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-seval"
	"github.com/robbyt/go-seval/internal/config"
)

// bodyFlags are the validation settings shared by check and run. Flags override the config file.
type bodyFlags struct {
	params     []string
	allowLoops bool
}

func (f *bodyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.params, "param", nil, "declare a parameter name (repeatable, in binding order)")
	cmd.Flags().BoolVar(&f.allowLoops, "allow-loops", false, "admit while and for statements")
}

// options merges the config file and flags into façade options.
func (f *bodyFlags) options(cmd *cobra.Command, cfg *config.Config) []seval.Option {
	params := cfg.Params
	if cmd.Flags().Changed("param") {
		params = f.params
	}
	allowLoops := cfg.AllowLoops
	if cmd.Flags().Changed("allow-loops") {
		allowLoops = f.allowLoops
	}

	return []seval.Option{
		seval.WithLogHandler(cfg.Log.Handler(cmd.ErrOrStderr())),
		seval.WithParams(params...),
		seval.WithAllowLoops(allowLoops),
	}
}

// build reads the body from the file named in args, or stdin when it is absent or "-".
func build(cmd *cobra.Command, args []string, opts []seval.Option) (*seval.Evaluator, error) {
	if len(args) == 0 || args[0] == "-" {
		return seval.FromReader(cmd.InOrStdin(), "stdin", opts...)
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", args[0], err)
	}
	return seval.FromFile(path, opts...)
}
