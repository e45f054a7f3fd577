package operation

import (
	"fmt"

	"lens-engine/internal/domain"
	"lens-engine/internal/esaggs"
)

// FieldMetric computes a single numeric aggregate over a number field.
type FieldMetric struct {
	noDocumentOperations
	noColumnReaction
	op          domain.OperationType
	displayName string
	labelPrefix string
}

func NewSum() *FieldMetric {
	return &FieldMetric{op: domain.OperationSum, displayName: "Sum", labelPrefix: "Sum of"}
}

func NewAvg() *FieldMetric {
	return &FieldMetric{op: domain.OperationAvg, displayName: "Average", labelPrefix: "Average of"}
}

func NewMin() *FieldMetric {
	return &FieldMetric{op: domain.OperationMin, displayName: "Minimum", labelPrefix: "Minimum of"}
}

func NewMax() *FieldMetric {
	return &FieldMetric{op: domain.OperationMax, displayName: "Maximum", labelPrefix: "Maximum of"}
}

func (m *FieldMetric) Type() domain.OperationType { return m.op }

func (m *FieldMetric) DisplayName() string { return m.displayName }

func (m *FieldMetric) PossibleOperationsForField(field domain.Field) []domain.OperationDescriptor {
	if !field.Aggregatable || field.Type != domain.DataTypeNumber {
		return nil
	}
	if _, ok := field.Restriction(m.op); !ok {
		return nil
	}
	return []domain.OperationDescriptor{metricDescriptor()}
}

func (m *FieldMetric) BuildColumn(ctx BuildContext) *domain.Column {
	return &domain.Column{
		Label:             m.label(ctx.Field.Name),
		DataType:          domain.DataTypeNumber,
		IsMetric:          true,
		OperationType:     m.op,
		SourceField:       ctx.Field.Name,
		SuggestedPriority: clonePriority(ctx.SuggestedPriority),
	}
}

func (m *FieldMetric) OnFieldChange(old *domain.Column, _ domain.IndexPattern, field domain.Field) *domain.Column {
	col := old.Clone()
	col.SourceField = field.Name
	col.Label = m.label(field.Name)
	return col
}

func (m *FieldMetric) ToEsAggsConfig(column *domain.Column, columnID string) esaggs.Config {
	return esaggs.Config{
		ID:      columnID,
		Enabled: true,
		Type:    string(m.op),
		Schema:  esaggs.SchemaMetric,
		Params:  map[string]interface{}{"field": column.SourceField},
	}
}

func (m *FieldMetric) label(field string) string {
	return fmt.Sprintf("%s %s", m.labelPrefix, field)
}

// Count counts documents. It does not take a field.
type Count struct {
	noFieldOperations
	noColumnReaction
}

func NewCount() *Count { return &Count{} }

func (c *Count) Type() domain.OperationType { return domain.OperationCount }

func (c *Count) DisplayName() string { return "Count" }

func (c *Count) PossibleOperationsForDocument(domain.IndexPattern) []domain.OperationDescriptor {
	return []domain.OperationDescriptor{metricDescriptor()}
}

func (c *Count) BuildColumn(ctx BuildContext) *domain.Column {
	return &domain.Column{
		Label:             "Count of documents",
		DataType:          domain.DataTypeNumber,
		IsMetric:          true,
		OperationType:     domain.OperationCount,
		SourceField:       "Records",
		SuggestedPriority: clonePriority(ctx.SuggestedPriority),
	}
}

func (c *Count) OnFieldChange(old *domain.Column, _ domain.IndexPattern, _ domain.Field) *domain.Column {
	return old
}

func (c *Count) ToEsAggsConfig(_ *domain.Column, columnID string) esaggs.Config {
	return esaggs.Config{
		ID:      columnID,
		Enabled: true,
		Type:    string(domain.OperationCount),
		Schema:  esaggs.SchemaMetric,
		Params:  map[string]interface{}{},
	}
}

// KueryLanguage is the query language filter_ratio queries default to.
const KueryLanguage = "kuery"

// FilterRatio divides the count of documents matching one query by the
// count matching another.
type FilterRatio struct {
	noFieldOperations
	noColumnReaction
}

func NewFilterRatio() *FilterRatio { return &FilterRatio{} }

func (f *FilterRatio) Type() domain.OperationType { return domain.OperationFilterRatio }

func (f *FilterRatio) DisplayName() string { return "Filter ratio" }

func (f *FilterRatio) PossibleOperationsForDocument(domain.IndexPattern) []domain.OperationDescriptor {
	return []domain.OperationDescriptor{metricDescriptor()}
}

func (f *FilterRatio) BuildColumn(ctx BuildContext) *domain.Column {
	return &domain.Column{
		Label:             "Filter ratio",
		DataType:          domain.DataTypeNumber,
		IsMetric:          true,
		OperationType:     domain.OperationFilterRatio,
		SuggestedPriority: clonePriority(ctx.SuggestedPriority),
		Params: domain.FilterRatioParams{
			Numerator:   domain.Query{Language: KueryLanguage},
			Denominator: domain.Query{Language: KueryLanguage},
		},
	}
}

func (f *FilterRatio) OnFieldChange(old *domain.Column, _ domain.IndexPattern, _ domain.Field) *domain.Column {
	return old
}

func (f *FilterRatio) ToEsAggsConfig(column *domain.Column, columnID string) esaggs.Config {
	params, _ := column.Params.(domain.FilterRatioParams)
	return esaggs.Config{
		ID:      columnID,
		Enabled: true,
		Type:    "filters",
		Schema:  esaggs.SchemaMetric,
		Params: map[string]interface{}{
			"filters": []map[string]interface{}{
				{"input": queryInput(params.Numerator), "label": ""},
				{"input": queryInput(params.Denominator), "label": ""},
			},
		},
	}
}

func queryInput(q domain.Query) map[string]interface{} {
	lang := q.Language
	if lang == "" {
		lang = KueryLanguage
	}
	return map[string]interface{}{"language": lang, "query": q.Query}
}

func metricDescriptor() domain.OperationDescriptor {
	return domain.OperationDescriptor{
		DataType: domain.DataTypeNumber,
		IsMetric: true,
		Scale:    domain.ScaleRatio,
	}
}
