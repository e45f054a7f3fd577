package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lens-engine/internal/declarative"
)

func newValidateCmd(rt *runtime) *cobra.Command {
	var allowUnknownFields bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the workspace file offline",
		Long:  "Reads the workspace file and checks index pattern references and layer invariants.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := declarative.LoadState(rt.workspace, declarative.LoadOptions{
				AllowUnknownFields: allowUnknownFields,
			})
			if err != nil {
				return fmt.Errorf("load workspace: %w", err)
			}

			validationErrs := declarative.Validate(state, rt.registry)
			if len(validationErrs) > 0 {
				if getOutputFormat(cmd) == "json" {
					errMsgs := make([]string, len(validationErrs))
					for i, ve := range validationErrs {
						errMsgs[i] = ve.Error()
					}
					if err := PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
						"valid":  false,
						"errors": errMsgs,
					}); err != nil {
						return err
					}
				} else {
					fmt.Fprintf(cmd.ErrOrStderr(), "Workspace has %d validation error(s):\n", len(validationErrs))
					for _, ve := range validationErrs {
						fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", ve.Error())
					}
				}
				return fmt.Errorf("workspace is invalid")
			}

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
					"valid": true,
				})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Workspace is valid.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowUnknownFields, "allow-unknown-fields", false, "Allow unknown YAML fields in the workspace file")
	return cmd
}
