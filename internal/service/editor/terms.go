// Package editor implements the parameter editors for layer columns.
// Editors never mutate the state they are given. Each edit hands one
// complete replacement state to the SetState callback.
package editor

import (
	"strings"

	"lens-engine/internal/domain"
)

// Size bounds offered by the terms size range.
const (
	DefaultMinSize = 1
	DefaultMaxSize = 20
)

const (
	alphabeticalToken = "alphabetical"
	columnTokenPrefix = "column$$$"
)

// EncodeOrder turns an ordering into the option token the editor offers.
func EncodeOrder(orderBy domain.OrderBy) string {
	switch o := orderBy.(type) {
	case domain.OrderByColumn:
		return columnTokenPrefix + o.ColumnID
	default:
		return alphabeticalToken
	}
}

// DecodeOrder parses an option token produced by EncodeOrder.
func DecodeOrder(token string) (domain.OrderBy, error) {
	if token == alphabeticalToken {
		return domain.OrderByAlphabetical{}, nil
	}
	if id, ok := strings.CutPrefix(token, columnTokenPrefix); ok && id != "" {
		return domain.OrderByColumn{ColumnID: id}, nil
	}
	return nil, domain.ErrValidation("unknown order option %q", token)
}

// OrderOption is one entry of the order-by selector.
type OrderOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// OrderOptions lists the ordering targets for a terms column: alphabetical,
// then every sibling metric column in column order.
func OrderOptions(layer domain.Layer, columnID string) []OrderOption {
	opts := []OrderOption{{Value: alphabeticalToken, Text: "Alphabetical"}}
	for _, id := range layer.ColumnOrder {
		col := layer.Columns[id]
		if id == columnID || col == nil || !col.IsMetric {
			continue
		}
		opts = append(opts, OrderOption{
			Value: EncodeOrder(domain.OrderByColumn{ColumnID: id}),
			Text:  col.Label,
		})
	}
	return opts
}

// TermsEditor edits the params of one terms column.
type TermsEditor struct {
	State    domain.State
	LayerID  string
	ColumnID string
	SetState func(domain.State)
	MinSize  int
	MaxSize  int
}

// SetOrderBy applies an order option token.
func (e TermsEditor) SetOrderBy(token string) error {
	orderBy, err := DecodeOrder(token)
	if err != nil {
		return err
	}
	layer, _, err := e.target()
	if err != nil {
		return err
	}
	if ref, ok := orderBy.(domain.OrderByColumn); ok {
		if !offered(OrderOptions(layer, e.ColumnID), token) {
			return domain.ErrValidation("column %q cannot order by %q", e.ColumnID, ref.ColumnID)
		}
	}
	return e.update(func(p *domain.TermsParams) { p.OrderBy = orderBy })
}

// SetOrderDirection sets asc or desc.
func (e TermsEditor) SetOrderDirection(dir domain.OrderDirection) error {
	if !dir.Valid() {
		return domain.ErrValidation("order direction must be asc or desc, got %q", dir)
	}
	return e.update(func(p *domain.TermsParams) { p.OrderDirection = dir })
}

// SetSize sets the number of requested buckets.
func (e TermsEditor) SetSize(size int) error {
	lo, hi, err := e.bounds()
	if err != nil {
		return err
	}
	if size < lo || size > hi {
		return domain.ErrValidation("size must be between %d and %d, got %d", lo, hi, size)
	}
	return e.update(func(p *domain.TermsParams) { p.Size = size })
}

func (e TermsEditor) bounds() (int, int, error) {
	lo, hi := e.MinSize, e.MaxSize
	if lo <= 0 {
		lo = DefaultMinSize
	}
	if hi <= 0 {
		hi = DefaultMaxSize
	}
	if lo > hi {
		return 0, 0, domain.ErrValidation("size range is empty: minimum %d exceeds maximum %d", lo, hi)
	}
	return lo, hi, nil
}

func (e TermsEditor) target() (domain.Layer, *domain.Column, error) {
	layer, err := e.State.Layer(e.LayerID)
	if err != nil {
		return domain.Layer{}, nil, err
	}
	col, ok := layer.Columns[e.ColumnID]
	if !ok || col == nil {
		return domain.Layer{}, nil, domain.ErrNotFound("column %q not found in layer %q", e.ColumnID, e.LayerID)
	}
	if _, ok := col.TermsParams(); !ok {
		return domain.Layer{}, nil, domain.ErrValidation("column %q is not a terms column", e.ColumnID)
	}
	return layer, col, nil
}

// update replaces the layer's column map with one where only the target
// column's params differ, and hands the new state to SetState.
func (e TermsEditor) update(edit func(*domain.TermsParams)) error {
	layer, col, err := e.target()
	if err != nil {
		return err
	}
	params, _ := col.TermsParams()
	edit(&params)

	next := col.Clone()
	next.Params = params
	columns := layer.CopyColumns()
	columns[e.ColumnID] = next

	if e.SetState != nil {
		e.SetState(e.State.WithLayer(e.LayerID, layer.WithColumns(columns, layer.ColumnOrder)))
	}
	return nil
}

func offered(opts []OrderOption, token string) bool {
	for _, o := range opts {
		if o.Value == token {
			return true
		}
	}
	return false
}
