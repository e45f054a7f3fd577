package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lens-engine/internal/domain"
	"lens-engine/internal/service/editor"
)

func newSetTermsCmd(rt *runtime) *cobra.Command {
	var (
		layerID, columnID string
		size              int
		orderBy           string
		direction         string
		listOrders        bool
	)

	cmd := &cobra.Command{
		Use:   "set-terms",
		Short: "Edit the size and ordering of a terms column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "layer", "column"); err != nil {
				return err
			}
			state, err := rt.loadState()
			if err != nil {
				return err
			}

			if listOrders {
				l, err := state.Layer(layerID)
				if err != nil {
					return err
				}
				opts := editor.OrderOptions(l, columnID)
				if getOutputFormat(cmd) == "json" {
					return PrintJSON(cmd.OutOrStdout(), opts)
				}
				rows := make([][]string, len(opts))
				for i, o := range opts {
					rows[i] = []string{o.Value, o.Text}
				}
				return printTable(cmd.OutOrStdout(), []string{"value", "text"}, rows)
			}

			// Each edit produces a full state; later edits build on the earlier result.
			var edits []func(editor.TermsEditor) error
			if cmd.Flags().Changed("size") {
				edits = append(edits, func(e editor.TermsEditor) error { return e.SetSize(size) })
			}
			if cmd.Flags().Changed("order-by") {
				edits = append(edits, func(e editor.TermsEditor) error { return e.SetOrderBy(orderBy) })
			}
			if cmd.Flags().Changed("direction") {
				edits = append(edits, func(e editor.TermsEditor) error {
					return e.SetOrderDirection(domain.OrderDirection(direction))
				})
			}
			if len(edits) == 0 {
				return fmt.Errorf("nothing to change: set --size, --order-by, or --direction")
			}

			for _, edit := range edits {
				e := editor.TermsEditor{
					State:    state,
					LayerID:  layerID,
					ColumnID: columnID,
					SetState: func(next domain.State) { state = next },
					MinSize:  rt.cfg.TermsMinSize,
					MaxSize:  rt.cfg.TermsMaxSize,
				}
				if err := edit(e); err != nil {
					return err
				}
			}
			if err := rt.saveState(state); err != nil {
				return err
			}

			l, _ := state.Layer(layerID)
			params, _ := l.Columns[columnID].TermsParams()
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
					"layer":          layerID,
					"column":         columnID,
					"size":           params.Size,
					"orderBy":        editor.EncodeOrder(params.OrderBy),
					"orderDirection": params.OrderDirection,
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Column %s: size=%d orderBy=%s direction=%s\n",
				columnID, params.Size, editor.EncodeOrder(params.OrderBy), params.OrderDirection)
			return nil
		},
	}

	addColumnFlags(cmd.Flags(), &layerID, &columnID)
	cmd.Flags().IntVar(&size, "size", 0, "Number of buckets")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "Order option (alphabetical or column$$$<id>)")
	cmd.Flags().StringVar(&direction, "direction", "", "Order direction (asc, desc)")
	cmd.Flags().BoolVar(&listOrders, "list-orders", false, "List the available order options and exit")
	return cmd
}
