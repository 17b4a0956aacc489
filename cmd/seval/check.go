package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/robbyt/go-seval"
	"github.com/robbyt/go-seval/internal/config"
)

type checkReport struct {
	Valid  bool                   `json:"valid"`
	ID     string                 `json:"id,omitempty"`
	Params []string               `json:"params,omitempty"`
	Error  *seval.ValidationError `json:"error,omitempty"`
}

func newCheckCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	var flags bodyFlags

	cmd := &cobra.Command{
		Use:   "check [file|-]",
		Short: "Validate a body without running it",
		Long: `Validate a function body against the allow-list and print a JSON report.
The body is read from the file argument, or from stdin when it is absent or "-".

Examples:
  seval check body.js
  echo 'return a + 1;' | seval check --param a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			e, err := build(cmd, args, flags.options(cmd, cfg))
			enc := json.NewEncoder(cmd.OutOrStdout())
			if err != nil {
				var verr *seval.ValidationError
				if errors.As(err, &verr) {
					if encErr := enc.Encode(checkReport{Error: verr}); encErr != nil {
						return encErr
					}
				}
				return err
			}

			return enc.Encode(checkReport{
				Valid:  true,
				ID:     e.GetExecutableUnit().GetID(),
				Params: e.Params(),
			})
		},
	}
	flags.register(cmd)
	return cmd
}
