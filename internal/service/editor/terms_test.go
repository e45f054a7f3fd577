package editor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lens-engine/internal/domain"
	"lens-engine/internal/testutil"
)

func newEditor(state domain.State, got *domain.State, calls *int) TermsEditor {
	return TermsEditor{
		State:    state,
		LayerID:  testutil.LayerID,
		ColumnID: "col1",
		SetState: func(s domain.State) {
			*calls++
			*got = s
		},
	}
}

func TestTermsEditor_SetSize_OnlyTargetParamsChange(t *testing.T) {
	state := testutil.TermsOverCountState()
	var next domain.State
	var calls int

	require.NoError(t, newEditor(state, &next, &calls).SetSize(7))
	require.Equal(t, 1, calls)

	// Only col1's size differs between the two states.
	want := testutil.TermsOverCountState()
	col1 := want.Layers[testutil.LayerID].Columns["col1"]
	params, _ := col1.TermsParams()
	params.Size = 7
	col1.Params = params
	assert.Empty(t, cmp.Diff(want, next))

	// The prior state is untouched and siblings are shared, not copied.
	before, _ := state.Layers[testutil.LayerID].Columns["col1"].TermsParams()
	assert.Equal(t, 3, before.Size)
	assert.Same(t, state.Layers[testutil.LayerID].Columns["col2"], next.Layers[testutil.LayerID].Columns["col2"])
	assert.Equal(t, state.Layers[testutil.LayerID].ColumnOrder, next.Layers[testutil.LayerID].ColumnOrder)
}

func TestTermsEditor_SetSize_OutOfRange(t *testing.T) {
	var next domain.State
	var calls int
	e := newEditor(testutil.TermsOverCountState(), &next, &calls)

	var verr *domain.ValidationError
	assert.ErrorAs(t, e.SetSize(0), &verr)
	assert.ErrorAs(t, e.SetSize(DefaultMaxSize+1), &verr)
	assert.Zero(t, calls)

	e.MaxSize = 50
	require.NoError(t, e.SetSize(50))
	assert.Equal(t, 1, calls)
}

func TestTermsEditor_SetSize_EmptyRange(t *testing.T) {
	var next domain.State
	var calls int
	e := newEditor(testutil.TermsOverCountState(), &next, &calls)
	e.MinSize = 25

	err := e.SetSize(25)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "minimum 25 exceeds maximum 20")
	assert.Zero(t, calls)
}

func TestTermsEditor_SetOrderDirection(t *testing.T) {
	var next domain.State
	var calls int
	e := newEditor(testutil.TermsOverCountState(), &next, &calls)

	require.NoError(t, e.SetOrderDirection(domain.OrderDesc))
	params, _ := next.Layers[testutil.LayerID].Columns["col1"].TermsParams()
	assert.Equal(t, domain.OrderDesc, params.OrderDirection)

	var verr *domain.ValidationError
	assert.ErrorAs(t, e.SetOrderDirection("sideways"), &verr)
	assert.Equal(t, 1, calls)
}

func TestTermsEditor_SetOrderBy(t *testing.T) {
	var next domain.State
	var calls int
	e := newEditor(testutil.TermsOverCountState(), &next, &calls)

	require.NoError(t, e.SetOrderBy("alphabetical"))
	params, _ := next.Layers[testutil.LayerID].Columns["col1"].TermsParams()
	assert.Equal(t, domain.OrderByAlphabetical{}, params.OrderBy)

	e.State = next
	require.NoError(t, e.SetOrderBy("column$$$col2"))
	params, _ = next.Layers[testutil.LayerID].Columns["col1"].TermsParams()
	assert.Equal(t, domain.OrderByColumn{ColumnID: "col2"}, params.OrderBy)

	var verr *domain.ValidationError
	assert.ErrorAs(t, e.SetOrderBy("column$$$col1"), &verr, "a column cannot order by itself")
	assert.ErrorAs(t, e.SetOrderBy("column$$$missing"), &verr)
	assert.ErrorAs(t, e.SetOrderBy("bogus"), &verr)
	assert.Equal(t, 2, calls)
}

func TestTermsEditor_TargetErrors(t *testing.T) {
	state := testutil.TermsOverCountState()

	e := TermsEditor{State: state, LayerID: "missing", ColumnID: "col1"}
	var nf *domain.NotFoundError
	assert.ErrorAs(t, e.SetSize(4), &nf)

	e = TermsEditor{State: state, LayerID: testutil.LayerID, ColumnID: "nope"}
	assert.ErrorAs(t, e.SetSize(4), &nf)

	e = TermsEditor{State: state, LayerID: testutil.LayerID, ColumnID: "col2"}
	var verr *domain.ValidationError
	assert.ErrorAs(t, e.SetSize(4), &verr)
}

func TestOrderOptions(t *testing.T) {
	l := testutil.TermsOverCountState().Layers[testutil.LayerID]
	l.Columns["col3"] = &domain.Column{Label: "Sum of bytes", IsMetric: true, OperationType: domain.OperationSum}
	l.Columns["col4"] = testutil.TermsColumn("dest", 5, domain.OrderByAlphabetical{})
	l.ColumnOrder = []string{"col1", "col4", "col2", "col3"}

	assert.Equal(t, []OrderOption{
		{Value: "alphabetical", Text: "Alphabetical"},
		{Value: "column$$$col2", Text: "Count of documents"},
		{Value: "column$$$col3", Text: "Sum of bytes"},
	}, OrderOptions(l, "col1"))
}

func TestEncodeDecodeOrder(t *testing.T) {
	for _, o := range []domain.OrderBy{domain.OrderByAlphabetical{}, domain.OrderByColumn{ColumnID: "abc"}} {
		got, err := DecodeOrder(EncodeOrder(o))
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}

	_, err := DecodeOrder("column$$$")
	assert.Error(t, err)
}
