package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lens-engine/internal/domain"
	"lens-engine/internal/service/layer"
)

func newAddColumnCmd(rt *runtime) *cobra.Command {
	var (
		layerID  string
		opType   string
		field    string
		priority int
	)

	cmd := &cobra.Command{
		Use:   "add-column",
		Short: "Add a column to a layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "layer", "operation"); err != nil {
				return err
			}
			state, err := rt.loadState()
			if err != nil {
				return err
			}
			req := layer.AddColumnRequest{
				LayerID:   layerID,
				Operation: domain.OperationType(opType),
				Field:     field,
			}
			if cmd.Flags().Changed("priority") {
				p := priority
				req.SuggestedPriority = &p
			}
			next, columnID, err := rt.manager.AddColumn(state, req)
			if err != nil {
				return err
			}
			if err := rt.saveState(next); err != nil {
				return err
			}
			return printColumnResult(cmd, next, layerID, columnID, "added")
		},
	}

	addLayerFlags(cmd.Flags(), &layerID)
	cmd.Flags().StringVar(&opType, "operation", "", "Operation type (terms, date_histogram, sum, avg, min, max, count, filter_ratio)")
	cmd.Flags().StringVar(&field, "field", "", "Source field (omit for count and filter_ratio)")
	cmd.Flags().IntVar(&priority, "priority", 0, "Suggested priority of a bucketed column (lower sorts first)")
	return cmd
}

func newChangeFieldCmd(rt *runtime) *cobra.Command {
	var layerID, columnID, field string

	cmd := &cobra.Command{
		Use:   "change-field",
		Short: "Point a column at another field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "layer", "column", "field"); err != nil {
				return err
			}
			state, err := rt.loadState()
			if err != nil {
				return err
			}
			next, err := rt.manager.ChangeField(state, layerID, columnID, field)
			if err != nil {
				return err
			}
			if err := rt.saveState(next); err != nil {
				return err
			}
			return printColumnResult(cmd, next, layerID, columnID, "updated")
		},
	}

	addColumnFlags(cmd.Flags(), &layerID, &columnID)
	cmd.Flags().StringVar(&field, "field", "", "New source field")
	return cmd
}

func newRemoveColumnCmd(rt *runtime) *cobra.Command {
	var layerID, columnID string

	cmd := &cobra.Command{
		Use:   "remove-column",
		Short: "Remove a column from a layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "layer", "column"); err != nil {
				return err
			}
			state, err := rt.loadState()
			if err != nil {
				return err
			}
			next, err := rt.manager.DeleteColumn(state, layerID, columnID)
			if err != nil {
				return err
			}
			if err := rt.saveState(next); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), map[string]string{
					"layer":  layerID,
					"column": columnID,
					"status": "removed",
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed column %s from layer %s.\n", columnID, layerID)
			return nil
		},
	}

	addColumnFlags(cmd.Flags(), &layerID, &columnID)
	return cmd
}

func printColumnResult(cmd *cobra.Command, state domain.State, layerID, columnID, status string) error {
	l, err := state.Layer(layerID)
	if err != nil {
		return err
	}
	col := l.Columns[columnID]
	if getOutputFormat(cmd) == "json" {
		return PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
			"layer":       layerID,
			"column":      columnID,
			"status":      status,
			"label":       col.Label,
			"columnOrder": l.ColumnOrder,
		})
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Column %s %s: %s\n", columnID, status, col.Label)
	return nil
}
