package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lens-engine/internal/domain"
	"lens-engine/internal/testutil"
)

func mustField(t *testing.T, name string) domain.Field {
	t.Helper()
	f, ok := testutil.LogsIndexPattern().Field(name)
	require.True(t, ok, "fixture field %q", name)
	return f
}

func TestDateHistogram_BuildColumn(t *testing.T) {
	dh := NewDateHistogram()
	field := mustField(t, "timestamp")

	col := dh.BuildColumn(BuildContext{Field: &field, SuggestedPriority: intPtr(0)})

	assert.Equal(t, domain.OperationDateHistogram, col.OperationType)
	assert.True(t, col.IsBucketed)
	assert.Equal(t, "Date histogram of timestamp", col.Label)
	assert.Equal(t, domain.DateHistogramParams{Interval: DefaultDateInterval}, col.Params)
	require.NotNil(t, col.SuggestedPriority)
	assert.Equal(t, 0, *col.SuggestedPriority)
}

func TestDateHistogram_RestrictedField(t *testing.T) {
	dh := NewDateHistogram()
	field := mustField(t, "rolled_ts")

	col := dh.BuildColumn(BuildContext{Field: &field})
	assert.Equal(t, domain.DateHistogramParams{Interval: "1h", TimeZone: "UTC", Restricted: true}, col.Params)

	cfg := dh.ToEsAggsConfig(col, "col1")
	assert.Equal(t, false, cfg.Params["useNormalizedEsInterval"])
	assert.Equal(t, "1h", cfg.Params["interval"])
	assert.Equal(t, "UTC", cfg.Params["time_zone"])

	// Moving a restricted histogram onto an unrestricted field is refused.
	same := dh.OnFieldChange(col, testutil.LogsIndexPattern(), mustField(t, "timestamp"))
	assert.Same(t, col, same)
}

func TestDateHistogram_OnFieldChange_KeepsInterval(t *testing.T) {
	dh := NewDateHistogram()
	col := &domain.Column{
		OperationType: domain.OperationDateHistogram,
		DataType:      domain.DataTypeDate,
		IsBucketed:    true,
		SourceField:   "timestamp",
		Params:        domain.DateHistogramParams{Interval: "w"},
	}
	other := domain.Field{Name: "created_at", Type: domain.DataTypeDate, Aggregatable: true}

	got := dh.OnFieldChange(col, testutil.LogsIndexPattern(), other)
	assert.Equal(t, "created_at", got.SourceField)
	assert.Equal(t, domain.DateHistogramParams{Interval: "w"}, got.Params)
	assert.Equal(t, "timestamp", col.SourceField)
}

func TestDateHistogram_PossibleOperationsForField(t *testing.T) {
	dh := NewDateHistogram()
	assert.Len(t, dh.PossibleOperationsForField(mustField(t, "timestamp")), 1)
	assert.Len(t, dh.PossibleOperationsForField(mustField(t, "rolled_ts")), 1)
	assert.Empty(t, dh.PossibleOperationsForField(mustField(t, "bytes")))
}

func TestFieldMetric_Restrictions(t *testing.T) {
	rolled := mustField(t, "rolled_bytes")

	assert.Len(t, NewSum().PossibleOperationsForField(rolled), 1)
	assert.Len(t, NewAvg().PossibleOperationsForField(rolled), 1)
	assert.Empty(t, NewMin().PossibleOperationsForField(rolled))
	assert.Empty(t, NewMax().PossibleOperationsForField(rolled))
	assert.Empty(t, NewSum().PossibleOperationsForField(mustField(t, "source")))
}

func TestFieldMetric_BuildAndTranslate(t *testing.T) {
	avg := NewAvg()
	field := mustField(t, "bytes")

	col := avg.BuildColumn(BuildContext{Field: &field})
	assert.Equal(t, "Average of bytes", col.Label)
	assert.True(t, col.IsMetric)
	assert.False(t, col.IsBucketed)
	assert.Nil(t, col.Params)

	cfg := avg.ToEsAggsConfig(col, "m1")
	assert.Equal(t, "avg", cfg.Type)
	assert.Equal(t, map[string]interface{}{"field": "bytes"}, cfg.Params)

	moved := avg.OnFieldChange(col, testutil.LogsIndexPattern(), mustField(t, "rolled_bytes"))
	assert.Equal(t, "Average of rolled_bytes", moved.Label)
	assert.Equal(t, "bytes", col.SourceField)
}

func TestCount(t *testing.T) {
	count := NewCount()

	assert.Empty(t, count.PossibleOperationsForField(mustField(t, "bytes")))
	assert.Len(t, count.PossibleOperationsForDocument(testutil.LogsIndexPattern()), 1)

	col := count.BuildColumn(BuildContext{})
	assert.Equal(t, "Count of documents", col.Label)
	assert.True(t, col.IsMetric)

	cfg := count.ToEsAggsConfig(col, "c")
	assert.Equal(t, "count", cfg.Type)
	assert.Empty(t, cfg.Params)
	assert.Same(t, col, count.OnOtherColumnChanged(col, nil))
}

func TestFilterRatio(t *testing.T) {
	fr := NewFilterRatio()
	col := fr.BuildColumn(BuildContext{})
	col.Params = domain.FilterRatioParams{
		Numerator:   domain.Query{Query: "status:500"},
		Denominator: domain.Query{Language: KueryLanguage},
	}

	cfg := fr.ToEsAggsConfig(col, "ratio")
	assert.Equal(t, "filters", cfg.Type)
	filters, ok := cfg.Params["filters"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, filters, 2)
	assert.Equal(t, map[string]interface{}{"language": "kuery", "query": "status:500"}, filters[0]["input"])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(Options{TermsDefaultSize: 3})

	def, err := r.Lookup(domain.OperationTerms)
	require.NoError(t, err)
	assert.Equal(t, "Top values", def.DisplayName())

	_, err = r.Lookup("percentile")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)

	assert.Equal(t,
		[]domain.OperationType{domain.OperationTerms, domain.OperationSum, domain.OperationAvg, domain.OperationMin, domain.OperationMax},
		r.OperationTypesForField(mustField(t, "bytes")))
	assert.Equal(t,
		[]domain.OperationType{domain.OperationDateHistogram},
		r.OperationTypesForField(mustField(t, "timestamp")))
	assert.Empty(t, r.OperationTypesForField(mustField(t, "message")))

	doc := r.OperationsForDocument(testutil.LogsIndexPattern())
	require.Len(t, doc, 2)
	assert.Equal(t, domain.OperationCount, doc[0].Operation)
	assert.Equal(t, domain.OperationFilterRatio, doc[1].Operation)

	assert.True(t, r.TakesField(domain.OperationTerms))
	assert.False(t, r.TakesField(domain.OperationCount))
	assert.False(t, r.TakesField("unknown"))
}

func TestNewRegistryWith_IgnoresDuplicates(t *testing.T) {
	first := NewTerms(3)
	r := NewRegistryWith(first, NewTerms(9), NewCount())

	require.Len(t, r.Definitions(), 2)
	def, err := r.Lookup(domain.OperationTerms)
	require.NoError(t, err)
	assert.Same(t, first, def)
}
