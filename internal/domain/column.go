package domain

// OperationType identifies the operation that produces a column.
type OperationType string

const (
	OperationTerms         OperationType = "terms"
	OperationDateHistogram OperationType = "date_histogram"
	OperationSum           OperationType = "sum"
	OperationAvg           OperationType = "avg"
	OperationMin           OperationType = "min"
	OperationMax           OperationType = "max"
	OperationCount         OperationType = "count"
	OperationFilterRatio   OperationType = "filter_ratio"
)

// Scale describes how column values relate to each other.
type Scale string

const (
	ScaleOrdinal  Scale = "ordinal"
	ScaleInterval Scale = "interval"
	ScaleRatio    Scale = "ratio"
)

// OperationDescriptor is the shape of a column an operation can produce.
type OperationDescriptor struct {
	DataType   DataType
	IsBucketed bool
	IsMetric   bool
	Scale      Scale
}

// Column is the configuration of one column in a layer.
type Column struct {
	Label             string
	DataType          DataType
	IsBucketed        bool
	IsMetric          bool
	OperationType     OperationType
	SourceField       string
	SuggestedPriority *int
	// Params is nil for operations without parameters (count and the field metrics).
	Params Params
}

// Clone returns a shallow copy of the column. Params are values and are
// safe to share.
func (c *Column) Clone() *Column {
	cp := *c
	if c.SuggestedPriority != nil {
		p := *c.SuggestedPriority
		cp.SuggestedPriority = &p
	}
	return &cp
}

// TermsParams returns the terms params of the column, if it has them.
func (c *Column) TermsParams() (TermsParams, bool) {
	p, ok := c.Params.(TermsParams)
	return p, ok
}

// Params is the closed set of operation-specific parameters.
type Params interface {
	isParams()
}

// OrderDirection is the sort direction of a bucket aggregation.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// Valid reports whether d is asc or desc.
func (d OrderDirection) Valid() bool {
	return d == OrderAsc || d == OrderDesc
}

// OrderBy is the closed sum type of terms ordering targets:
// OrderByAlphabetical or OrderByColumn.
type OrderBy interface {
	isOrderBy()
}

// OrderByAlphabetical sorts buckets by their key.
type OrderByAlphabetical struct{}

// OrderByColumn sorts buckets by the value of a sibling metric column.
// ColumnID is a non-owning reference and is revalidated whenever the
// layer's columns change.
type OrderByColumn struct {
	ColumnID string
}

func (OrderByAlphabetical) isOrderBy() {}
func (OrderByColumn) isOrderBy()       {}

// TermsParams configures a terms column.
type TermsParams struct {
	Size           int
	OrderBy        OrderBy
	OrderDirection OrderDirection
}

// DateHistogramParams configures a date_histogram column.
type DateHistogramParams struct {
	Interval string
	TimeZone string
	// Restricted is set when the interval was forced by an aggregation restriction.
	Restricted bool
}

// Query is a filter expression in a query language.
type Query struct {
	Language string
	Query    string
}

// FilterRatioParams configures a filter_ratio column.
type FilterRatioParams struct {
	Numerator   Query
	Denominator Query
}

func (TermsParams) isParams()         {}
func (DateHistogramParams) isParams() {}
func (FilterRatioParams) isParams()   {}
