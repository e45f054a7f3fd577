// Package layer applies column edits to layers. Every edit builds a complete
// new column map, lets every other column react to that snapshot, and
// swaps the map into a new state in one step.
package layer

import (
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"lens-engine/internal/domain"
	"lens-engine/internal/esaggs"
	"lens-engine/internal/service/operation"
)

// Manager edits layer columns. It holds no state of its own.
type Manager struct {
	registry *operation.Registry
	logger   *slog.Logger
	newID    func() string
}

// NewManager creates a Manager. Column IDs are random UUIDs.
func NewManager(registry *operation.Registry, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: registry,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// WithIDGenerator returns a copy of the manager that assigns column IDs with gen.
func (m *Manager) WithIDGenerator(gen func() string) *Manager {
	cp := *m
	cp.newID = gen
	return &cp
}

// AddColumnRequest describes a column to add to a layer.
type AddColumnRequest struct {
	LayerID   string
	Operation domain.OperationType
	// Field is empty for operations that do not take a field.
	Field             string
	SuggestedPriority *int
}

// AddColumn builds a new column and returns the new state and the column's ID.
func (m *Manager) AddColumn(state domain.State, req AddColumnRequest) (domain.State, string, error) {
	layer, err := state.Layer(req.LayerID)
	if err != nil {
		return state, "", err
	}
	ip, err := state.IndexPattern(layer.IndexPatternID)
	if err != nil {
		return state, "", err
	}
	def, err := m.registry.Lookup(req.Operation)
	if err != nil {
		return state, "", err
	}

	ctx := operation.BuildContext{
		IndexPattern:      ip,
		Columns:           layer.Columns,
		LayerID:           req.LayerID,
		SuggestedPriority: req.SuggestedPriority,
	}
	if m.registry.TakesField(req.Operation) {
		field, err := applicableField(def, ip, req.Field)
		if err != nil {
			return state, "", err
		}
		ctx.Field = &field
	} else if req.Field != "" {
		return state, "", domain.ErrValidation("operation %q does not take a field", req.Operation)
	}

	id := m.newID()
	if _, taken := layer.Columns[id]; taken {
		return state, "", domain.ErrValidation("column %q already exists in layer %q", id, req.LayerID)
	}
	columns := layer.CopyColumns()
	columns[id] = def.BuildColumn(ctx)
	order := append(append([]string(nil), layer.ColumnOrder...), id)

	m.logger.Debug("column added", "layer", req.LayerID, "column", id, "operation", req.Operation, "field", req.Field)
	return m.commit(state, req.LayerID, layer, columns, order, id), id, nil
}

// ChangeField points an existing column at another field of the layer's index pattern.
func (m *Manager) ChangeField(state domain.State, layerID, columnID, fieldName string) (domain.State, error) {
	layer, col, err := lookupColumn(state, layerID, columnID)
	if err != nil {
		return state, err
	}
	ip, err := state.IndexPattern(layer.IndexPatternID)
	if err != nil {
		return state, err
	}
	def, err := m.registry.Lookup(col.OperationType)
	if err != nil {
		return state, err
	}
	if !m.registry.TakesField(col.OperationType) {
		return state, domain.ErrValidation("operation %q does not take a field", col.OperationType)
	}
	field, err := applicableField(def, ip, fieldName)
	if err != nil {
		return state, err
	}

	updated := def.OnFieldChange(col, ip, field)
	if updated == col {
		if col.SourceField == fieldName {
			return state, nil
		}
		return state, domain.ErrValidation("column %q cannot move from field %q to %q", columnID, col.SourceField, fieldName)
	}
	return m.replace(state, layerID, layer, columnID, updated), nil
}

// UpdateColumn replaces one column of a layer with col.
func (m *Manager) UpdateColumn(state domain.State, layerID, columnID string, col *domain.Column) (domain.State, error) {
	layer, _, err := lookupColumn(state, layerID, columnID)
	if err != nil {
		return state, err
	}
	if col == nil {
		return state, domain.ErrValidation("column %q: replacement is empty", columnID)
	}
	if _, err := m.registry.Lookup(col.OperationType); err != nil {
		return state, err
	}
	return m.replace(state, layerID, layer, columnID, col), nil
}

// DeleteColumn removes a column from a layer.
func (m *Manager) DeleteColumn(state domain.State, layerID, columnID string) (domain.State, error) {
	layer, _, err := lookupColumn(state, layerID, columnID)
	if err != nil {
		return state, err
	}
	columns := layer.CopyColumns()
	delete(columns, columnID)
	order := make([]string, 0, len(layer.ColumnOrder))
	for _, id := range layer.ColumnOrder {
		if id != columnID {
			order = append(order, id)
		}
	}
	m.logger.Debug("column deleted", "layer", layerID, "column", columnID)
	return m.commit(state, layerID, layer, columns, order, ""), nil
}

// ToEsAggs translates the layer's columns into aggregation fragments in column order.
func (m *Manager) ToEsAggs(state domain.State, layerID string) ([]esaggs.Config, error) {
	layer, err := state.Layer(layerID)
	if err != nil {
		return nil, err
	}
	out := make([]esaggs.Config, 0, len(layer.ColumnOrder))
	for _, id := range layer.ColumnOrder {
		col, ok := layer.Columns[id]
		if !ok || col == nil {
			return nil, domain.ErrNotFound("column %q not found in layer %q", id, layerID)
		}
		def, err := m.registry.Lookup(col.OperationType)
		if err != nil {
			return nil, err
		}
		out = append(out, def.ToEsAggsConfig(col, id))
	}
	return out, nil
}

func (m *Manager) replace(state domain.State, layerID string, layer domain.Layer, columnID string, col *domain.Column) domain.State {
	columns := layer.CopyColumns()
	columns[columnID] = col
	m.logger.Debug("column updated", "layer", layerID, "column", columnID, "operation", col.OperationType)
	return m.commit(state, layerID, layer, columns, layer.ColumnOrder, columnID)
}

// commit lets every column except changedID react to the complete new
// column map, reorders the columns, and swaps the result into a new state.
func (m *Manager) commit(state domain.State, layerID string, layer domain.Layer, columns map[string]*domain.Column, insertion []string, changedID string) domain.State {
	adjusted := make(map[string]*domain.Column, len(columns))
	for _, id := range domain.SortedColumnIDs(columns) {
		col := columns[id]
		adjusted[id] = col
		if col == nil || id == changedID {
			continue
		}
		def, err := m.registry.Lookup(col.OperationType)
		if err != nil {
			continue
		}
		if next := def.OnOtherColumnChanged(col, columns); next != col {
			m.logger.Debug("column adjusted to sibling change", "layer", layerID, "column", id, "operation", col.OperationType)
			adjusted[id] = next
		}
	}
	return state.WithLayer(layerID, layer.WithColumns(adjusted, ColumnOrder(adjusted, insertion)))
}

// ColumnOrder puts bucketed columns first, sorted by suggested priority
// (unset last), followed by metrics. Ties keep the insertion order. IDs in
// columns but not in insertion are appended in lexical order.
func ColumnOrder(columns map[string]*domain.Column, insertion []string) []string {
	ids := make([]string, 0, len(columns))
	seen := make(map[string]bool, len(columns))
	for _, id := range insertion {
		if _, ok := columns[id]; ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range domain.SortedColumnIDs(columns) {
		if !seen[id] {
			ids = append(ids, id)
		}
	}

	var buckets, metrics []string
	for _, id := range ids {
		if columns[id] != nil && columns[id].IsBucketed {
			buckets = append(buckets, id)
		} else {
			metrics = append(metrics, id)
		}
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return priority(columns[buckets[i]]) < priority(columns[buckets[j]])
	})
	return append(buckets, metrics...)
}

func priority(c *domain.Column) int {
	if c.SuggestedPriority == nil {
		return int(^uint(0) >> 1)
	}
	return *c.SuggestedPriority
}

func lookupColumn(state domain.State, layerID, columnID string) (domain.Layer, *domain.Column, error) {
	layer, err := state.Layer(layerID)
	if err != nil {
		return domain.Layer{}, nil, err
	}
	col, ok := layer.Columns[columnID]
	if !ok || col == nil {
		return domain.Layer{}, nil, domain.ErrNotFound("column %q not found in layer %q", columnID, layerID)
	}
	return layer, col, nil
}

func applicableField(def operation.Definition, ip domain.IndexPattern, name string) (domain.Field, error) {
	if name == "" {
		return domain.Field{}, domain.ErrValidation("operation %q requires a field", def.Type())
	}
	field, ok := ip.Field(name)
	if !ok {
		return domain.Field{}, domain.ErrNotFound("field %q not found in index pattern %q", name, ip.ID)
	}
	if len(def.PossibleOperationsForField(field)) == 0 {
		return domain.Field{}, domain.ErrValidation("operation %q cannot be applied to field %q", def.Type(), name)
	}
	return field, nil
}
