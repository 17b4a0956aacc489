package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/robbyt/go-seval/internal/config"
	"github.com/robbyt/go-seval/platform"
)

type runReport struct {
	Value    any    `json:"value"`
	Type     string `json:"type"`
	ExecTime string `json:"exec_time"`
	RunID    string `json:"run_id,omitempty"`
}

// parseArgs decodes each --arg as a YAML scalar or flow collection, so `3`, `true`,
// `"x"`, `[1, 2]` and `{a: 1}` all work.
func parseArgs(raw []string) ([]any, error) {
	args := make([]any, 0, len(raw))
	for i, s := range raw {
		var v any
		if err := yaml.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("--arg %d %q: %w", i, s, err)
		}
		args = append(args, v)
	}
	return args, nil
}

// encodeRunReport renders resp as one JSON object.
func encodeRunReport(resp platform.EvaluatorResponse) ([]byte, error) {
	report := runReport{
		Value:    resp.Interface(),
		Type:     string(resp.Type()),
		ExecTime: resp.GetExecTime(),
	}
	if r, ok := resp.(interface{ GetRunID() string }); ok {
		report.RunID = r.GetRunID()
	}

	out, err := json.Marshal(report)
	if err != nil {
		// NaN and infinities have no JSON form
		report.Value = resp.Inspect()
		return json.Marshal(report)
	}
	return out, nil
}

func newRunCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var (
		flags   bodyFlags
		rawArgs []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run [file|-]",
		Short: "Validate a body and run it once",
		Long: `Validate a function body, run it with the given arguments and print the result as JSON.
Arguments bind by position to the names declared with --param.

Examples:
  seval run sum.js --param a --param b --arg 1 --arg 2
  echo 'let s = 0; for (let i = 0; i < n; i++) { s += i; } return s;' | \
    seval run --param n --arg 100 --allow-loops --timeout 1s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			values, err := parseArgs(rawArgs)
			if err != nil {
				return err
			}

			e, err := build(cmd, args, flags.options(cmd, cfg))
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.RunTimeout()
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			resp, err := e.Call(ctx, values...)
			if err != nil {
				return err
			}

			out, err := encodeRunReport(resp)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "positional argument as YAML (repeatable)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "interrupt the run after this long")
	return cmd
}
