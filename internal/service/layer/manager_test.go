package layer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lens-engine/internal/domain"
	"lens-engine/internal/service/operation"
	"lens-engine/internal/testutil"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	registry := operation.NewRegistry(operation.Options{})
	return NewManager(registry, testutil.DiscardLogger()).WithIDGenerator(testutil.SequentialIDs("col"))
}

func TestManager_AddColumn_TermsOrdersByExistingMetric(t *testing.T) {
	m := setupManager(t)
	state := testutil.EmptyLayerState()

	state, countID, err := m.AddColumn(state, AddColumnRequest{LayerID: testutil.LayerID, Operation: domain.OperationCount})
	require.NoError(t, err)
	assert.Equal(t, "col1", countID)

	state, termsID, err := m.AddColumn(state, AddColumnRequest{
		LayerID:   testutil.LayerID,
		Operation: domain.OperationTerms,
		Field:     "source",
	})
	require.NoError(t, err)
	assert.Equal(t, "col2", termsID)

	layer := state.Layers[testutil.LayerID]
	assert.Equal(t, []string{"col2", "col1"}, layer.ColumnOrder, "bucketed columns come first")
	params, ok := layer.Columns["col2"].TermsParams()
	require.True(t, ok)
	assert.Equal(t, domain.OrderByColumn{ColumnID: "col1"}, params.OrderBy)
	assert.Equal(t, operation.DefaultTermsSize, params.Size)
	require.NoError(t, layer.Validate())
}

func TestManager_AddColumn_DoesNotMutateInput(t *testing.T) {
	m := setupManager(t).WithIDGenerator(testutil.SequentialIDs("new"))
	before := testutil.TermsOverCountState()
	snapshot := testutil.TermsOverCountState()

	_, _, err := m.AddColumn(before, AddColumnRequest{LayerID: testutil.LayerID, Operation: domain.OperationSum, Field: "bytes"})
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(snapshot, before))
}

func TestManager_AddColumn_Errors(t *testing.T) {
	m := setupManager(t)
	state := testutil.EmptyLayerState()

	tests := []struct {
		name string
		req  AddColumnRequest
		want interface{}
	}{
		{"unknown layer", AddColumnRequest{LayerID: "nope", Operation: domain.OperationCount}, &domain.NotFoundError{}},
		{"unknown operation", AddColumnRequest{LayerID: testutil.LayerID, Operation: "median"}, &domain.NotFoundError{}},
		{"unknown field", AddColumnRequest{LayerID: testutil.LayerID, Operation: domain.OperationTerms, Field: "nope"}, &domain.NotFoundError{}},
		{"missing field", AddColumnRequest{LayerID: testutil.LayerID, Operation: domain.OperationTerms}, &domain.ValidationError{}},
		{"inapplicable field", AddColumnRequest{LayerID: testutil.LayerID, Operation: domain.OperationTerms, Field: "message"}, &domain.ValidationError{}},
		{"field on count", AddColumnRequest{LayerID: testutil.LayerID, Operation: domain.OperationCount, Field: "bytes"}, &domain.ValidationError{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := m.AddColumn(state, tc.req)
			require.Error(t, err)
			switch tc.want.(type) {
			case *domain.NotFoundError:
				var target *domain.NotFoundError
				assert.ErrorAs(t, err, &target)
			case *domain.ValidationError:
				var target *domain.ValidationError
				assert.ErrorAs(t, err, &target)
			}
		})
	}
}

func TestManager_DeleteColumn_ResetsOrdering(t *testing.T) {
	m := setupManager(t)
	state := testutil.TermsOverCountState()

	next, err := m.DeleteColumn(state, testutil.LayerID, "col2")
	require.NoError(t, err)

	layer := next.Layers[testutil.LayerID]
	assert.Equal(t, []string{"col1"}, layer.ColumnOrder)
	require.NotContains(t, layer.Columns, "col2")
	params, _ := layer.Columns["col1"].TermsParams()
	assert.Equal(t, domain.OrderByAlphabetical{}, params.OrderBy)
	assert.Equal(t, 3, params.Size)

	// The original state still references col2.
	orig, _ := state.Layers[testutil.LayerID].Columns["col1"].TermsParams()
	assert.Equal(t, domain.OrderByColumn{ColumnID: "col2"}, orig.OrderBy)
	assert.Contains(t, state.Layers[testutil.LayerID].Columns, "col2")
}

func TestManager_DeleteColumn_UnrelatedKeepsIdentity(t *testing.T) {
	m := setupManager(t).WithIDGenerator(testutil.SequentialIDs("new"))
	state, sumID, err := m.AddColumn(testutil.TermsOverCountState(), AddColumnRequest{
		LayerID: testutil.LayerID, Operation: domain.OperationSum, Field: "bytes",
	})
	require.NoError(t, err)
	terms := state.Layers[testutil.LayerID].Columns["col1"]

	next, err := m.DeleteColumn(state, testutil.LayerID, sumID)
	require.NoError(t, err)
	assert.Same(t, terms, next.Layers[testutil.LayerID].Columns["col1"])
}

func TestManager_UpdateColumn_MetricBecomesBucket(t *testing.T) {
	m := setupManager(t)
	state := testutil.TermsOverCountState()

	replacement := testutil.TermsColumn("dest", 5, domain.OrderByAlphabetical{})
	next, err := m.UpdateColumn(state, testutil.LayerID, "col2", replacement)
	require.NoError(t, err)

	layer := next.Layers[testutil.LayerID]
	assert.Same(t, replacement, layer.Columns["col2"])
	params, _ := layer.Columns["col1"].TermsParams()
	assert.Equal(t, domain.OrderByAlphabetical{}, params.OrderBy)
}

func TestManager_ChangeField(t *testing.T) {
	m := setupManager(t)
	state := testutil.TermsOverCountState()

	next, err := m.ChangeField(state, testutil.LayerID, "col1", "client_ip")
	require.NoError(t, err)

	col := next.Layers[testutil.LayerID].Columns["col1"]
	assert.Equal(t, "client_ip", col.SourceField)
	assert.Equal(t, domain.DataTypeIP, col.DataType)
	assert.Equal(t, "Top values of client_ip", col.Label)
	assert.Equal(t, state.Layers[testutil.LayerID].Columns["col1"].Params, col.Params)

	_, err = m.ChangeField(state, testutil.LayerID, "col1", "timestamp")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = m.ChangeField(state, testutil.LayerID, "col2", "bytes")
	assert.ErrorAs(t, err, &verr)
}

func TestManager_ToEsAggs(t *testing.T) {
	m := setupManager(t)
	configs, err := m.ToEsAggs(testutil.TermsOverCountState(), testutil.LayerID)
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "col1", configs[0].ID)
	assert.Equal(t, "terms", configs[0].Type)
	assert.Equal(t, "col2", configs[0].Params["orderBy"])
	assert.Equal(t, "col2", configs[1].ID)
	assert.Equal(t, "count", configs[1].Type)
}

func TestManager_AddColumn_RejectsIDCollision(t *testing.T) {
	m := setupManager(t)

	_, _, err := m.AddColumn(testutil.TermsOverCountState(), AddColumnRequest{
		LayerID: testutil.LayerID, Operation: domain.OperationCount,
	})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestColumnOrder(t *testing.T) {
	prio := func(p int) *int { return &p }
	columns := map[string]*domain.Column{
		"m1": {IsMetric: true},
		"b1": {IsBucketed: true},
		"b2": {IsBucketed: true, SuggestedPriority: prio(1)},
		"b3": {IsBucketed: true, SuggestedPriority: prio(0)},
		"m2": {IsMetric: true},
	}

	got := ColumnOrder(columns, []string{"m1", "b1", "b2", "m2", "b3"})
	assert.Equal(t, []string{"b3", "b2", "b1", "m1", "m2"}, got)

	// IDs missing from the insertion order are appended by ID.
	got = ColumnOrder(columns, []string{"m2"})
	assert.Equal(t, []string{"b3", "b2", "b1", "m2", "m1"}, got)
}

func TestManager_ChangeField_RestrictedHistogramRefusesMove(t *testing.T) {
	m := setupManager(t)
	state, id, err := m.AddColumn(testutil.EmptyLayerState(), AddColumnRequest{
		LayerID: testutil.LayerID, Operation: domain.OperationDateHistogram, Field: "rolled_ts",
	})
	require.NoError(t, err)

	_, err = m.ChangeField(state, testutil.LayerID, id, "timestamp")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), `cannot move from field "rolled_ts" to "timestamp"`)

	// Re-selecting the current field is a no-op.
	next, err := m.ChangeField(state, testutil.LayerID, id, "rolled_ts")
	require.NoError(t, err)
	assert.Same(t, state.Layers[testutil.LayerID].Columns[id], next.Layers[testutil.LayerID].Columns[id])
}

func TestManager_DeleteColumn_SkipsNilColumns(t *testing.T) {
	m := setupManager(t)
	state := testutil.TermsOverCountState()
	l := state.Layers[testutil.LayerID]
	l.Columns["ghost"] = nil
	l.ColumnOrder = append(l.ColumnOrder, "ghost")
	state.Layers[testutil.LayerID] = l

	var next domain.State
	require.NotPanics(t, func() {
		var err error
		next, err = m.DeleteColumn(state, testutil.LayerID, "col2")
		require.NoError(t, err)
	})
	params, _ := next.Layers[testutil.LayerID].Columns["col1"].TermsParams()
	assert.Equal(t, domain.OrderByAlphabetical{}, params.OrderBy)
}
