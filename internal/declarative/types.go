// Package declarative reads and writes Lens workspace files: YAML
// documents holding index patterns and the layers built on them.
package declarative

const (
	// SupportedAPIVersion is the only apiVersion workspace files may declare.
	SupportedAPIVersion = "lens/v1"
	// KindWorkspace is the kind of a workspace document.
	KindWorkspace = "Workspace"
)

// WorkspaceDoc is the top-level YAML document.
type WorkspaceDoc struct {
	APIVersion          string            `yaml:"apiVersion"`
	Kind                string            `yaml:"kind"`
	CurrentIndexPattern string            `yaml:"currentIndexPattern,omitempty"`
	IndexPatterns       []IndexPatternDoc `yaml:"indexPatterns"`
	Layers              []LayerDoc        `yaml:"layers"`
}

// IndexPatternDoc describes one index pattern.
type IndexPatternDoc struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	TimeField string     `yaml:"timeField,omitempty"`
	Fields    []FieldDoc `yaml:"fields"`
}

// FieldDoc describes one field of an index pattern.
type FieldDoc struct {
	Name         string                    `yaml:"name"`
	Type         string                    `yaml:"type"`
	Aggregatable bool                      `yaml:"aggregatable"`
	Searchable   bool                      `yaml:"searchable"`
	Restrictions map[string]RestrictionDoc `yaml:"aggregationRestrictions,omitempty"`
}

// RestrictionDoc holds the forced parameters for one aggregation kind.
type RestrictionDoc struct {
	Agg      string `yaml:"agg,omitempty"`
	Interval string `yaml:"interval,omitempty"`
	TimeZone string `yaml:"timeZone,omitempty"`
}

// LayerDoc describes one layer.
type LayerDoc struct {
	ID           string               `yaml:"id"`
	IndexPattern string               `yaml:"indexPattern"`
	ColumnOrder  []string             `yaml:"columnOrder"`
	Columns      map[string]ColumnDoc `yaml:"columns"`
}

// ColumnDoc describes one column. Params are interpreted according to Operation.
type ColumnDoc struct {
	Operation         string     `yaml:"operationType"`
	Label             string     `yaml:"label"`
	DataType          string     `yaml:"dataType"`
	IsBucketed        bool       `yaml:"isBucketed"`
	IsMetric          bool       `yaml:"isMetric"`
	SourceField       string     `yaml:"sourceField,omitempty"`
	SuggestedPriority *int       `yaml:"suggestedPriority,omitempty"`
	Params            *ParamsDoc `yaml:"params,omitempty"`
}

// ParamsDoc is the union of every operation's params.
type ParamsDoc struct {
	// terms
	Size           int         `yaml:"size,omitempty"`
	OrderBy        *OrderByDoc `yaml:"orderBy,omitempty"`
	OrderDirection string      `yaml:"orderDirection,omitempty"`

	// date_histogram
	Interval   string `yaml:"interval,omitempty"`
	TimeZone   string `yaml:"timeZone,omitempty"`
	Restricted bool   `yaml:"restricted,omitempty"`

	// filter_ratio
	Numerator   *QueryDoc `yaml:"numerator,omitempty"`
	Denominator *QueryDoc `yaml:"denominator,omitempty"`
}

// OrderByDoc is the tagged ordering of a terms column.
type OrderByDoc struct {
	Type     string `yaml:"type"`
	ColumnID string `yaml:"columnId,omitempty"`
}

// QueryDoc is a filter query.
type QueryDoc struct {
	Language string `yaml:"language,omitempty"`
	Query    string `yaml:"query"`
}
