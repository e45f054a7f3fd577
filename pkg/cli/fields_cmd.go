package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lens-engine/internal/domain"
	"lens-engine/internal/service/operation"
)

func newFieldsCmd(rt *runtime) *cobra.Command {
	var indexPatternID string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the fields of an index pattern and the operations each supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := rt.loadState()
			if err != nil {
				return err
			}
			ip, err := resolveIndexPattern(state, indexPatternID)
			if err != nil {
				return err
			}

			type fieldRow struct {
				Name         string   `json:"name"`
				Type         string   `json:"type"`
				Aggregatable bool     `json:"aggregatable"`
				Searchable   bool     `json:"searchable"`
				Operations   []string `json:"operations"`
			}
			rows := make([]fieldRow, 0, len(ip.Fields))
			for _, f := range ip.Fields {
				ops := []string{}
				for _, op := range rt.registry.OperationTypesForField(f) {
					ops = append(ops, string(op))
				}
				rows = append(rows, fieldRow{
					Name:         f.Name,
					Type:         string(f.Type),
					Aggregatable: f.Aggregatable,
					Searchable:   f.Searchable,
					Operations:   ops,
				})
			}

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), rows)
			}
			table := make([][]string, len(rows))
			for i, r := range rows {
				table[i] = []string{r.Name, r.Type, strconv.FormatBool(r.Aggregatable), strings.Join(r.Operations, ",")}
			}
			return printTable(cmd.OutOrStdout(), []string{"name", "type", "aggregatable", "operations"}, table)
		},
	}

	cmd.Flags().StringVar(&indexPatternID, "index-pattern", "", "Index pattern ID (default: the workspace's current index pattern)")
	return cmd
}

func newOperationsCmd(rt *runtime) *cobra.Command {
	var (
		indexPatternID string
		fieldName      string
	)

	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List the column shapes that can be built from a field, or without one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := rt.loadState()
			if err != nil {
				return err
			}
			ip, err := resolveIndexPattern(state, indexPatternID)
			if err != nil {
				return err
			}

			var candidates []operation.Candidate
			if fieldName == "" {
				candidates = rt.registry.OperationsForDocument(ip)
			} else {
				field, ok := ip.Field(fieldName)
				if !ok {
					return domain.ErrNotFound("field %q not found in index pattern %q", fieldName, ip.ID)
				}
				candidates = rt.registry.OperationsForField(field)
			}

			type candidateRow struct {
				Operation  string `json:"operationType"`
				DataType   string `json:"dataType"`
				IsBucketed bool   `json:"isBucketed"`
				IsMetric   bool   `json:"isMetric"`
				Scale      string `json:"scale"`
			}
			rows := make([]candidateRow, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, candidateRow{
					Operation:  string(c.Operation),
					DataType:   string(c.Descriptor.DataType),
					IsBucketed: c.Descriptor.IsBucketed,
					IsMetric:   c.Descriptor.IsMetric,
					Scale:      string(c.Descriptor.Scale),
				})
			}

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), rows)
			}
			table := make([][]string, len(rows))
			for i, r := range rows {
				table[i] = []string{r.Operation, r.DataType, strconv.FormatBool(r.IsBucketed), strconv.FormatBool(r.IsMetric), r.Scale}
			}
			return printTable(cmd.OutOrStdout(), []string{"operation", "data type", "bucketed", "metric", "scale"}, table)
		},
	}

	cmd.Flags().StringVar(&indexPatternID, "index-pattern", "", "Index pattern ID (default: the workspace's current index pattern)")
	cmd.Flags().StringVar(&fieldName, "field", "", "Field name (omit to list operations that take no field)")
	return cmd
}

func resolveIndexPattern(state domain.State, id string) (domain.IndexPattern, error) {
	if id == "" {
		id = state.CurrentIndexPatternID
	}
	if id == "" {
		return domain.IndexPattern{}, domain.ErrValidation("no index pattern given and the workspace has no currentIndexPattern")
	}
	return state.IndexPattern(id)
}
