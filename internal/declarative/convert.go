package declarative

import (
	"sort"

	"lens-engine/internal/domain"
)

const (
	orderTypeAlphabetical = "alphabetical"
	orderTypeColumn       = "column"
)

// ToState converts a decoded workspace document into editing state.
func ToState(doc *WorkspaceDoc) (domain.State, error) {
	state := domain.State{
		CurrentIndexPatternID: doc.CurrentIndexPattern,
		IndexPatterns:         make(map[string]domain.IndexPattern, len(doc.IndexPatterns)),
		Layers:                make(map[string]domain.Layer, len(doc.Layers)),
	}

	for _, ipd := range doc.IndexPatterns {
		if ipd.ID == "" {
			return domain.State{}, domain.ErrValidation("index pattern id is required")
		}
		if _, dup := state.IndexPatterns[ipd.ID]; dup {
			return domain.State{}, domain.ErrValidation("duplicate index pattern %q", ipd.ID)
		}
		ip := domain.IndexPattern{ID: ipd.ID, Title: ipd.Title, TimeFieldName: ipd.TimeField}
		for _, fd := range ipd.Fields {
			ip.Fields = append(ip.Fields, fieldFromDoc(fd))
		}
		state.IndexPatterns[ipd.ID] = ip
	}

	for _, ld := range doc.Layers {
		if ld.ID == "" {
			return domain.State{}, domain.ErrValidation("layer id is required")
		}
		if _, dup := state.Layers[ld.ID]; dup {
			return domain.State{}, domain.ErrValidation("duplicate layer %q", ld.ID)
		}
		layer := domain.Layer{
			IndexPatternID: ld.IndexPattern,
			ColumnOrder:    append([]string(nil), ld.ColumnOrder...),
			Columns:        make(map[string]*domain.Column, len(ld.Columns)),
		}
		for id, cd := range ld.Columns {
			col, err := columnFromDoc(cd)
			if err != nil {
				return domain.State{}, domain.ErrValidation("layer %q column %q: %v", ld.ID, id, err)
			}
			layer.Columns[id] = col
		}
		state.Layers[ld.ID] = layer
	}
	return state, nil
}

// FromState converts editing state into a workspace document. Index
// patterns and layers are written in ID order.
func FromState(state domain.State) *WorkspaceDoc {
	doc := &WorkspaceDoc{
		APIVersion:          SupportedAPIVersion,
		Kind:                KindWorkspace,
		CurrentIndexPattern: state.CurrentIndexPatternID,
	}

	ipIDs := make([]string, 0, len(state.IndexPatterns))
	for id := range state.IndexPatterns {
		ipIDs = append(ipIDs, id)
	}
	sort.Strings(ipIDs)
	for _, id := range ipIDs {
		ip := state.IndexPatterns[id]
		ipd := IndexPatternDoc{ID: id, Title: ip.Title, TimeField: ip.TimeFieldName}
		for _, f := range ip.Fields {
			ipd.Fields = append(ipd.Fields, fieldToDoc(f))
		}
		doc.IndexPatterns = append(doc.IndexPatterns, ipd)
	}

	layerIDs := make([]string, 0, len(state.Layers))
	for id := range state.Layers {
		layerIDs = append(layerIDs, id)
	}
	sort.Strings(layerIDs)
	for _, id := range layerIDs {
		l := state.Layers[id]
		ld := LayerDoc{
			ID:           id,
			IndexPattern: l.IndexPatternID,
			ColumnOrder:  append([]string{}, l.ColumnOrder...),
			Columns:      make(map[string]ColumnDoc, len(l.Columns)),
		}
		for cid, col := range l.Columns {
			if col != nil {
				ld.Columns[cid] = columnToDoc(col)
			}
		}
		doc.Layers = append(doc.Layers, ld)
	}
	return doc
}

func fieldFromDoc(fd FieldDoc) domain.Field {
	f := domain.Field{
		Name:         fd.Name,
		Type:         domain.DataType(fd.Type),
		Aggregatable: fd.Aggregatable,
		Searchable:   fd.Searchable,
	}
	if fd.Restrictions != nil {
		f.AggregationRestrictions = make(map[domain.OperationType]domain.AggregationRestriction, len(fd.Restrictions))
		for op, r := range fd.Restrictions {
			f.AggregationRestrictions[domain.OperationType(op)] = domain.AggregationRestriction{
				Agg: r.Agg, Interval: r.Interval, TimeZone: r.TimeZone,
			}
		}
	}
	return f
}

func fieldToDoc(f domain.Field) FieldDoc {
	fd := FieldDoc{
		Name:         f.Name,
		Type:         string(f.Type),
		Aggregatable: f.Aggregatable,
		Searchable:   f.Searchable,
	}
	if f.AggregationRestrictions != nil {
		fd.Restrictions = make(map[string]RestrictionDoc, len(f.AggregationRestrictions))
		for op, r := range f.AggregationRestrictions {
			fd.Restrictions[string(op)] = RestrictionDoc{Agg: r.Agg, Interval: r.Interval, TimeZone: r.TimeZone}
		}
	}
	return fd
}

func columnFromDoc(cd ColumnDoc) (*domain.Column, error) {
	col := &domain.Column{
		Label:             cd.Label,
		DataType:          domain.DataType(cd.DataType),
		IsBucketed:        cd.IsBucketed,
		IsMetric:          cd.IsMetric,
		OperationType:     domain.OperationType(cd.Operation),
		SourceField:       cd.SourceField,
		SuggestedPriority: cd.SuggestedPriority,
	}
	p := cd.Params
	if p == nil {
		p = &ParamsDoc{}
	}

	switch col.OperationType {
	case domain.OperationTerms:
		orderBy, err := orderByFromDoc(p.OrderBy)
		if err != nil {
			return nil, err
		}
		col.Params = domain.TermsParams{
			Size:           p.Size,
			OrderBy:        orderBy,
			OrderDirection: domain.OrderDirection(p.OrderDirection),
		}
	case domain.OperationDateHistogram:
		col.Params = domain.DateHistogramParams{Interval: p.Interval, TimeZone: p.TimeZone, Restricted: p.Restricted}
	case domain.OperationFilterRatio:
		col.Params = domain.FilterRatioParams{Numerator: queryFromDoc(p.Numerator), Denominator: queryFromDoc(p.Denominator)}
	case domain.OperationCount, domain.OperationSum, domain.OperationAvg, domain.OperationMin, domain.OperationMax:
	default:
		return nil, domain.ErrValidation("unknown operation type %q", cd.Operation)
	}
	return col, nil
}

func columnToDoc(col *domain.Column) ColumnDoc {
	cd := ColumnDoc{
		Operation:         string(col.OperationType),
		Label:             col.Label,
		DataType:          string(col.DataType),
		IsBucketed:        col.IsBucketed,
		IsMetric:          col.IsMetric,
		SourceField:       col.SourceField,
		SuggestedPriority: col.SuggestedPriority,
	}
	switch p := col.Params.(type) {
	case domain.TermsParams:
		cd.Params = &ParamsDoc{Size: p.Size, OrderBy: orderByToDoc(p.OrderBy), OrderDirection: string(p.OrderDirection)}
	case domain.DateHistogramParams:
		cd.Params = &ParamsDoc{Interval: p.Interval, TimeZone: p.TimeZone, Restricted: p.Restricted}
	case domain.FilterRatioParams:
		cd.Params = &ParamsDoc{
			Numerator:   &QueryDoc{Language: p.Numerator.Language, Query: p.Numerator.Query},
			Denominator: &QueryDoc{Language: p.Denominator.Language, Query: p.Denominator.Query},
		}
	}
	return cd
}

func orderByFromDoc(d *OrderByDoc) (domain.OrderBy, error) {
	if d == nil {
		return domain.OrderByAlphabetical{}, nil
	}
	switch d.Type {
	case orderTypeAlphabetical:
		return domain.OrderByAlphabetical{}, nil
	case orderTypeColumn:
		if d.ColumnID == "" {
			return nil, domain.ErrValidation("orderBy of type column requires columnId")
		}
		return domain.OrderByColumn{ColumnID: d.ColumnID}, nil
	default:
		return nil, domain.ErrValidation("unknown orderBy type %q", d.Type)
	}
}

func orderByToDoc(o domain.OrderBy) *OrderByDoc {
	switch v := o.(type) {
	case domain.OrderByColumn:
		return &OrderByDoc{Type: orderTypeColumn, ColumnID: v.ColumnID}
	default:
		return &OrderByDoc{Type: orderTypeAlphabetical}
	}
}

func queryFromDoc(q *QueryDoc) domain.Query {
	if q == nil {
		return domain.Query{}
	}
	return domain.Query{Language: q.Language, Query: q.Query}
}
