package domain

import (
	"errors"
	"sort"
)

// Layer is an ordered set of columns built against one index pattern.
// The layer owns its columns; terms columns may refer to siblings by ID.
type Layer struct {
	IndexPatternID string
	ColumnOrder    []string
	Columns        map[string]*Column
}

// WithColumns returns a copy of the layer using the given column map and order.
// The receiver is left untouched.
func (l Layer) WithColumns(columns map[string]*Column, order []string) Layer {
	return Layer{
		IndexPatternID: l.IndexPatternID,
		ColumnOrder:    order,
		Columns:        columns,
	}
}

// CopyColumns returns a new map holding the same column pointers.
func (l Layer) CopyColumns() map[string]*Column {
	out := make(map[string]*Column, len(l.Columns))
	for id, c := range l.Columns {
		out[id] = c
	}
	return out
}

// SortedColumnIDs returns the column IDs in lexical order.
func SortedColumnIDs(columns map[string]*Column) []string {
	ids := make([]string, 0, len(columns))
	for id := range columns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks the structural invariants of the layer.
func (l Layer) Validate() error {
	return errors.Join(l.Problems()...)
}

// Problems lists every violated structural invariant of the layer.
func (l Layer) Problems() []error {
	var errs []error
	seen := make(map[string]bool, len(l.ColumnOrder))
	for _, id := range l.ColumnOrder {
		if seen[id] {
			errs = append(errs, ErrValidation("column %q appears more than once in column order", id))
			continue
		}
		seen[id] = true
		if _, ok := l.Columns[id]; !ok {
			errs = append(errs, ErrValidation("column order references unknown column %q", id))
		}
	}
	for _, id := range SortedColumnIDs(l.Columns) {
		col := l.Columns[id]
		if !seen[id] {
			errs = append(errs, ErrValidation("column %q is missing from column order", id))
		}
		if col == nil {
			errs = append(errs, ErrValidation("column %q is empty", id))
			continue
		}
		p, ok := col.TermsParams()
		if !ok {
			continue
		}
		if p.Size < 1 {
			errs = append(errs, ErrValidation("column %q: size must be positive", id))
		}
		if !p.OrderDirection.Valid() {
			errs = append(errs, ErrValidation("column %q: order direction must be asc or desc", id))
		}
		if ref, ok := p.OrderBy.(OrderByColumn); ok {
			target, exists := l.Columns[ref.ColumnID]
			switch {
			case !exists || target == nil:
				errs = append(errs, ErrValidation("column %q: orders by unknown column %q", id, ref.ColumnID))
			case !target.IsMetric:
				errs = append(errs, ErrValidation("column %q: orders by non-metric column %q", id, ref.ColumnID))
			}
		}
	}
	return errs
}

// State is the full editing state: the known index patterns and the layers built on them.
type State struct {
	CurrentIndexPatternID string
	IndexPatterns         map[string]IndexPattern
	Layers                map[string]Layer
}

// Layer returns the layer with the given ID.
func (s State) Layer(id string) (Layer, error) {
	l, ok := s.Layers[id]
	if !ok {
		return Layer{}, ErrNotFound("layer %q not found", id)
	}
	return l, nil
}

// IndexPattern returns the index pattern with the given ID.
func (s State) IndexPattern(id string) (IndexPattern, error) {
	p, ok := s.IndexPatterns[id]
	if !ok {
		return IndexPattern{}, ErrNotFound("index pattern %q not found", id)
	}
	return p, nil
}

// WithLayer returns a copy of the state with one layer replaced. Other
// layers and index patterns are shared with the receiver.
func (s State) WithLayer(id string, layer Layer) State {
	layers := make(map[string]Layer, len(s.Layers)+1)
	for k, v := range s.Layers {
		layers[k] = v
	}
	layers[id] = layer
	return State{
		CurrentIndexPatternID: s.CurrentIndexPatternID,
		IndexPatterns:         s.IndexPatterns,
		Layers:                layers,
	}
}
