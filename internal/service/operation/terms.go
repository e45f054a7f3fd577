package operation

import (
	"fmt"

	"lens-engine/internal/domain"
	"lens-engine/internal/esaggs"
)

// DefaultTermsSize is the bucket count a new terms column requests.
const DefaultTermsSize = 5

var termsSupportedTypes = map[domain.DataType]bool{
	domain.DataTypeString:  true,
	domain.DataTypeBoolean: true,
	domain.DataTypeNumber:  true,
	domain.DataTypeIP:      true,
}

// Terms buckets documents by the top values of a field.
type Terms struct {
	noDocumentOperations
	defaultSize int
}

// NewTerms creates the terms operation. A non-positive defaultSize falls
// back to DefaultTermsSize.
func NewTerms(defaultSize int) *Terms {
	if defaultSize <= 0 {
		defaultSize = DefaultTermsSize
	}
	return &Terms{defaultSize: defaultSize}
}

func (t *Terms) Type() domain.OperationType { return domain.OperationTerms }

func (t *Terms) DisplayName() string { return "Top values" }

// PossibleOperationsForField returns a single ordinal bucket descriptor when
// the field can be aggregated by terms, and nothing otherwise.
func (t *Terms) PossibleOperationsForField(field domain.Field) []domain.OperationDescriptor {
	if !field.Aggregatable || !termsSupportedTypes[field.Type] {
		return nil
	}
	if _, ok := field.Restriction(domain.OperationTerms); !ok {
		return nil
	}
	return []domain.OperationDescriptor{{
		DataType:   field.Type,
		IsBucketed: true,
		IsMetric:   false,
		Scale:      domain.ScaleOrdinal,
	}}
}

// BuildColumn creates a terms column on ctx.Field. It sorts by the first
// existing metric column (by ID) when there is one, alphabetically otherwise.
func (t *Terms) BuildColumn(ctx BuildContext) *domain.Column {
	var orderBy domain.OrderBy = domain.OrderByAlphabetical{}
	for _, id := range domain.SortedColumnIDs(ctx.Columns) {
		if col := ctx.Columns[id]; col != nil && col.IsMetric {
			orderBy = domain.OrderByColumn{ColumnID: id}
			break
		}
	}
	return &domain.Column{
		Label:             termsLabel(ctx.Field.Name),
		DataType:          ctx.Field.Type,
		IsBucketed:        true,
		IsMetric:          false,
		OperationType:     domain.OperationTerms,
		SourceField:       ctx.Field.Name,
		SuggestedPriority: clonePriority(ctx.SuggestedPriority),
		Params: domain.TermsParams{
			Size:           t.defaultSize,
			OrderBy:        orderBy,
			OrderDirection: domain.OrderAsc,
		},
	}
}

// OnFieldChange points the column at a new field. Params are carried over as is.
func (t *Terms) OnFieldChange(old *domain.Column, _ domain.IndexPattern, field domain.Field) *domain.Column {
	col := old.Clone()
	col.SourceField = field.Name
	col.DataType = field.Type
	col.Label = termsLabel(field.Name)
	return col
}

// OnOtherColumnChanged falls back to alphabetical ordering once the column
// it sorts by is gone or is no longer a metric. In every other case the
// same pointer is returned.
func (t *Terms) OnOtherColumnChanged(column *domain.Column, columns map[string]*domain.Column) *domain.Column {
	params, ok := column.TermsParams()
	if !ok {
		return column
	}
	switch orderBy := params.OrderBy.(type) {
	case domain.OrderByAlphabetical:
		return column
	case domain.OrderByColumn:
		if target, ok := columns[orderBy.ColumnID]; ok && target != nil && target.IsMetric {
			return column
		}
	}
	col := column.Clone()
	params.OrderBy = domain.OrderByAlphabetical{}
	col.Params = params
	return col
}

func (t *Terms) ToEsAggsConfig(column *domain.Column, columnID string) esaggs.Config {
	params, _ := column.TermsParams()
	return esaggs.Config{
		ID:      columnID,
		Enabled: true,
		Type:    string(domain.OperationTerms),
		Schema:  esaggs.SchemaSegment,
		Params: map[string]interface{}{
			"field":              column.SourceField,
			"orderBy":            termsOrderKey(params.OrderBy),
			"order":              string(params.OrderDirection),
			"size":               params.Size,
			"otherBucket":        false,
			"otherBucketLabel":   "Other",
			"missingBucket":      false,
			"missingBucketLabel": "Missing",
		},
	}
}

func termsOrderKey(orderBy domain.OrderBy) string {
	switch o := orderBy.(type) {
	case domain.OrderByColumn:
		return o.ColumnID
	default:
		return esaggs.KeyOrder
	}
}

func termsLabel(field string) string {
	return fmt.Sprintf("Top values of %s", field)
}
