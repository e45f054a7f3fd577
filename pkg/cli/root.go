// Package cli implements the lens command-line interface for editing
// workspace layers offline.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lens-engine/internal/config"
	"lens-engine/internal/declarative"
	"lens-engine/internal/domain"
	"lens-engine/internal/service/layer"
	"lens-engine/internal/service/operation"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			_ = PrintJSON(os.Stdout, map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// runtime holds the dependencies resolved before any subcommand runs.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *operation.Registry
	manager   *layer.Manager
	workspace string
	newID     func() string
}

func (rt *runtime) loadState() (domain.State, error) {
	state, err := declarative.LoadState(rt.workspace, declarative.LoadOptions{})
	if err != nil {
		return domain.State{}, fmt.Errorf("load workspace: %w", err)
	}
	return state, nil
}

func (rt *runtime) saveState(state domain.State) error {
	if verrs := declarative.Validate(state, rt.registry); len(verrs) > 0 {
		return fmt.Errorf("refusing to save invalid workspace: %w", declarative.Join(verrs))
	}
	if err := declarative.SaveState(rt.workspace, state); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	rt.logger.Debug("workspace saved", "path", rt.workspace)
	return nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithRuntime(&runtime{})
}

// newRootCmdWithRuntime builds the command tree around rt. Fields preset on
// rt (such as newID) survive dependency resolution.
func newRootCmdWithRuntime(rt *runtime) *cobra.Command {
	var (
		output    string
		workspace string
		logLevel  string
	)

	rootCmd := &cobra.Command{
		Use:           "lens",
		Short:         "Lens layer editor",
		Long:          "Command-line interface for building and inspecting Lens visualization layers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Apply precedence: flag > env > default
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("workspace") {
				cfg.Workspace = workspace
			}

			rt.cfg = cfg
			rt.workspace = cfg.Workspace
			rt.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			for _, w := range cfg.Warnings {
				rt.logger.Warn(w)
			}
			rt.registry = operation.NewRegistry(operation.Options{TermsDefaultSize: cfg.TermsDefaultSize})
			rt.manager = layer.NewManager(rt.registry, rt.logger)
			if rt.newID != nil {
				rt.manager = rt.manager.WithIDGenerator(rt.newID)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace file (default $LENS_WORKSPACE or lens-workspace.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newFieldsCmd(rt))
	rootCmd.AddCommand(newOperationsCmd(rt))
	rootCmd.AddCommand(newAddColumnCmd(rt))
	rootCmd.AddCommand(newChangeFieldCmd(rt))
	rootCmd.AddCommand(newRemoveColumnCmd(rt))
	rootCmd.AddCommand(newSetTermsCmd(rt))
	rootCmd.AddCommand(newAggsCmd(rt))
	rootCmd.AddCommand(newValidateCmd(rt))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), map[string]string{
					"version": version,
					"commit":  commit,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lens version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
