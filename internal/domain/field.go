package domain

// DataType is the primitive type of a field or column value.
type DataType string

const (
	DataTypeString   DataType = "string"
	DataTypeNumber   DataType = "number"
	DataTypeDate     DataType = "date"
	DataTypeBoolean  DataType = "boolean"
	DataTypeIP       DataType = "ip"
	DataTypeDocument DataType = "document"
)

// AggregationRestriction carries the forced parameters for one aggregation
// kind on a restricted (typically rollup) field.
type AggregationRestriction struct {
	Agg      string
	Interval string
	TimeZone string
}

// Field describes one field of an index pattern.
type Field struct {
	Name         string
	Type         DataType
	Aggregatable bool
	Searchable   bool
	// AggregationRestrictions is nil for unrestricted fields. When set, only
	// the listed operation types may be applied to the field.
	AggregationRestrictions map[OperationType]AggregationRestriction
}

// Restriction returns the restriction for op and whether the field permits op.
// Unrestricted fields permit every operation with a zero restriction.
func (f Field) Restriction(op OperationType) (AggregationRestriction, bool) {
	if f.AggregationRestrictions == nil {
		return AggregationRestriction{}, true
	}
	r, ok := f.AggregationRestrictions[op]
	return r, ok
}

// IndexPattern is a named set of fields that columns are built against.
type IndexPattern struct {
	ID            string
	Title         string
	TimeFieldName string
	Fields        []Field
}

// Field looks up a field by name.
func (p IndexPattern) Field(name string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
