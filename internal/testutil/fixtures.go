// Package testutil provides shared fixtures for layer-editing tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"

	"lens-engine/internal/domain"
)

// Fixture IDs.
const (
	IndexPatternID = "logs"
	LayerID        = "first"
)

// LogsIndexPattern returns an index pattern covering every field shape the
// operations care about, including rollup-restricted fields.
func LogsIndexPattern() domain.IndexPattern {
	return domain.IndexPattern{
		ID:            IndexPatternID,
		Title:         "logs-*",
		TimeFieldName: "timestamp",
		Fields: []domain.Field{
			{Name: "timestamp", Type: domain.DataTypeDate, Aggregatable: true, Searchable: true},
			{Name: "source", Type: domain.DataTypeString, Aggregatable: true, Searchable: true},
			{Name: "dest", Type: domain.DataTypeString, Aggregatable: true, Searchable: true},
			{Name: "bytes", Type: domain.DataTypeNumber, Aggregatable: true, Searchable: true},
			{Name: "message", Type: domain.DataTypeString, Aggregatable: false, Searchable: true},
			{Name: "client_ip", Type: domain.DataTypeIP, Aggregatable: true, Searchable: true},
			{Name: "is_bot", Type: domain.DataTypeBoolean, Aggregatable: true, Searchable: true},
			{
				Name: "rolled_bytes", Type: domain.DataTypeNumber, Aggregatable: true, Searchable: true,
				AggregationRestrictions: map[domain.OperationType]domain.AggregationRestriction{
					domain.OperationSum: {Agg: "sum"},
					domain.OperationAvg: {Agg: "avg"},
				},
			},
			{
				Name: "rolled_ts", Type: domain.DataTypeDate, Aggregatable: true, Searchable: true,
				AggregationRestrictions: map[domain.OperationType]domain.AggregationRestriction{
					domain.OperationDateHistogram: {Agg: "date_histogram", Interval: "1h", TimeZone: "UTC"},
				},
			},
		},
	}
}

// TermsColumn returns a terms column on field with the given ordering.
func TermsColumn(field string, size int, orderBy domain.OrderBy) *domain.Column {
	return &domain.Column{
		Label:         "Top values of " + field,
		DataType:      domain.DataTypeString,
		IsBucketed:    true,
		OperationType: domain.OperationTerms,
		SourceField:   field,
		Params: domain.TermsParams{
			Size:           size,
			OrderBy:        orderBy,
			OrderDirection: domain.OrderAsc,
		},
	}
}

// CountColumn returns a document count column.
func CountColumn() *domain.Column {
	return &domain.Column{
		Label:         "Count of documents",
		DataType:      domain.DataTypeNumber,
		IsMetric:      true,
		OperationType: domain.OperationCount,
		SourceField:   "Records",
	}
}

// TermsOverCountState returns a state with one layer: col1 is a terms column
// on source ordered by col2, a count metric.
func TermsOverCountState() domain.State {
	return domain.State{
		CurrentIndexPatternID: IndexPatternID,
		IndexPatterns:         map[string]domain.IndexPattern{IndexPatternID: LogsIndexPattern()},
		Layers: map[string]domain.Layer{
			LayerID: {
				IndexPatternID: IndexPatternID,
				ColumnOrder:    []string{"col1", "col2"},
				Columns: map[string]*domain.Column{
					"col1": TermsColumn("source", 3, domain.OrderByColumn{ColumnID: "col2"}),
					"col2": CountColumn(),
				},
			},
		},
	}
}

// EmptyLayerState returns a state with one layer that has no columns.
func EmptyLayerState() domain.State {
	return domain.State{
		CurrentIndexPatternID: IndexPatternID,
		IndexPatterns:         map[string]domain.IndexPattern{IndexPatternID: LogsIndexPattern()},
		Layers: map[string]domain.Layer{
			LayerID: {IndexPatternID: IndexPatternID, ColumnOrder: []string{}, Columns: map[string]*domain.Column{}},
		},
	}
}

// SequentialIDs returns a generator yielding prefix1, prefix2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
