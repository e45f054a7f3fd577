package operation

import (
	"fmt"

	"lens-engine/internal/domain"
	"lens-engine/internal/esaggs"
)

// DefaultDateInterval is the interval of an unrestricted date histogram.
const DefaultDateInterval = "d"

// DateHistogram buckets documents into fixed time intervals.
type DateHistogram struct {
	noDocumentOperations
	noColumnReaction
}

// NewDateHistogram creates the date_histogram operation.
func NewDateHistogram() *DateHistogram { return &DateHistogram{} }

func (d *DateHistogram) Type() domain.OperationType { return domain.OperationDateHistogram }

func (d *DateHistogram) DisplayName() string { return "Date histogram" }

func (d *DateHistogram) PossibleOperationsForField(field domain.Field) []domain.OperationDescriptor {
	if !field.Aggregatable || field.Type != domain.DataTypeDate {
		return nil
	}
	if _, ok := field.Restriction(domain.OperationDateHistogram); !ok {
		return nil
	}
	return []domain.OperationDescriptor{{
		DataType:   domain.DataTypeDate,
		IsBucketed: true,
		Scale:      domain.ScaleInterval,
	}}
}

func (d *DateHistogram) BuildColumn(ctx BuildContext) *domain.Column {
	return &domain.Column{
		Label:             dateHistogramLabel(ctx.Field.Name),
		DataType:          domain.DataTypeDate,
		IsBucketed:        true,
		OperationType:     domain.OperationDateHistogram,
		SourceField:       ctx.Field.Name,
		SuggestedPriority: clonePriority(ctx.SuggestedPriority),
		Params:            dateHistogramParams(*ctx.Field),
	}
}

// OnFieldChange moves the histogram to a new field. A column whose interval
// was forced by a restriction keeps its field unless the new field carries
// the same restriction.
func (d *DateHistogram) OnFieldChange(old *domain.Column, _ domain.IndexPattern, field domain.Field) *domain.Column {
	params, _ := old.Params.(domain.DateHistogramParams)
	next := dateHistogramParams(field)
	if params.Restricted || next.Restricted {
		if params.Restricted != next.Restricted || params.Interval != next.Interval || params.TimeZone != next.TimeZone {
			return old
		}
	} else {
		next = params
	}
	col := old.Clone()
	col.SourceField = field.Name
	col.Label = dateHistogramLabel(field.Name)
	col.Params = next
	return col
}

func (d *DateHistogram) ToEsAggsConfig(column *domain.Column, columnID string) esaggs.Config {
	params, _ := column.Params.(domain.DateHistogramParams)
	out := map[string]interface{}{
		"field":                   column.SourceField,
		"useNormalizedEsInterval": !params.Restricted,
		"interval":                params.Interval,
		"drop_partials":           false,
		"min_doc_count":           1,
		"extended_bounds":         map[string]interface{}{},
	}
	if params.TimeZone != "" {
		out["time_zone"] = params.TimeZone
	}
	return esaggs.Config{
		ID:      columnID,
		Enabled: true,
		Type:    string(domain.OperationDateHistogram),
		Schema:  esaggs.SchemaSegment,
		Params:  out,
	}
}

func dateHistogramParams(field domain.Field) domain.DateHistogramParams {
	if r, ok := field.AggregationRestrictions[domain.OperationDateHistogram]; ok {
		interval := r.Interval
		if interval == "" {
			interval = DefaultDateInterval
		}
		return domain.DateHistogramParams{Interval: interval, TimeZone: r.TimeZone, Restricted: true}
	}
	return domain.DateHistogramParams{Interval: DefaultDateInterval}
}

func dateHistogramLabel(field string) string {
	return fmt.Sprintf("Date histogram of %s", field)
}
