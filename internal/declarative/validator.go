package declarative

import (
	"errors"
	"fmt"
	"sort"

	"lens-engine/internal/domain"
	"lens-engine/internal/service/operation"
)

// ValidationError describes a single problem found in a workspace.
type ValidationError struct {
	Path    string // e.g. "layer[first].column[col1]"
	Message string
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// Validate checks referential integrity of the workspace and the structural
// invariants of every layer. Layers are reported in ID order.
func Validate(state domain.State, registry *operation.Registry) []ValidationError {
	var errs []ValidationError

	if state.CurrentIndexPatternID != "" {
		if _, ok := state.IndexPatterns[state.CurrentIndexPatternID]; !ok {
			addErr(&errs, "", "currentIndexPattern %q is not defined", state.CurrentIndexPatternID)
		}
	}

	layerIDs := make([]string, 0, len(state.Layers))
	for id := range state.Layers {
		layerIDs = append(layerIDs, id)
	}
	sort.Strings(layerIDs)

	for _, layerID := range layerIDs {
		layer := state.Layers[layerID]
		path := fmt.Sprintf("layer[%s]", layerID)
		ip, ipOK := state.IndexPatterns[layer.IndexPatternID]
		if !ipOK {
			addErr(&errs, path, "index pattern %q is not defined", layer.IndexPatternID)
		}
		for _, problem := range layer.Problems() {
			addErr(&errs, path, "%s", problem.Error())
		}

		for _, colID := range domain.SortedColumnIDs(layer.Columns) {
			col := layer.Columns[colID]
			if col == nil {
				continue
			}
			colPath := fmt.Sprintf("%s.column[%s]", path, colID)
			def, err := registry.Lookup(col.OperationType)
			if err != nil {
				addErr(&errs, colPath, "%s", err.Error())
				continue
			}
			if !ipOK || !registry.TakesField(col.OperationType) {
				continue
			}
			field, ok := ip.Field(col.SourceField)
			if !ok {
				addErr(&errs, colPath, "source field %q is not defined in index pattern %q", col.SourceField, ip.ID)
				continue
			}
			if len(def.PossibleOperationsForField(field)) == 0 {
				addErr(&errs, colPath, "operation %q cannot be applied to field %q", col.OperationType, field.Name)
			}
		}
	}
	return errs
}

// Join folds validation errors into one error, or nil when there are none.
func Join(verrs []ValidationError) error {
	errs := make([]error, len(verrs))
	for i, ve := range verrs {
		errs[i] = ve
	}
	return errors.Join(errs...)
}

func addErr(errs *[]ValidationError, path, msg string, args ...any) {
	*errs = append(*errs, ValidationError{
		Path:    path,
		Message: fmt.Sprintf(msg, args...),
	})
}
