package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lens-engine/internal/esaggs"
)

func newAggsCmd(rt *runtime) *cobra.Command {
	var layerID string

	cmd := &cobra.Command{
		Use:   "aggs",
		Short: "Print the aggregation fragments a layer translates into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireFlags(cmd, "layer"); err != nil {
				return err
			}
			state, err := rt.loadState()
			if err != nil {
				return err
			}
			configs, err := rt.manager.ToEsAggs(state, layerID)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return esaggs.MarshalConfigs(cmd.OutOrStdout(), configs)
			}
			rows := make([][]string, len(configs))
			for i, c := range configs {
				field, _ := c.Params["field"].(string)
				rows[i] = []string{c.ID, c.Type, string(c.Schema), field, describeOrder(c)}
			}
			return printTable(cmd.OutOrStdout(), []string{"id", "type", "schema", "field", "order"}, rows)
		},
	}

	addLayerFlags(cmd.Flags(), &layerID)
	return cmd
}

func describeOrder(c esaggs.Config) string {
	orderBy, ok := c.Params["orderBy"].(string)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s %v", orderBy, c.Params["order"])
}
