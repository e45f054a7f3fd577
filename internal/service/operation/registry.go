package operation

import (
	"lens-engine/internal/domain"
)

// Options tunes the operations a Registry is built with.
type Options struct {
	TermsDefaultSize int
}

// Registry holds the operation definitions in display order.
type Registry struct {
	defs   []Definition
	byType map[domain.OperationType]Definition
}

// NewRegistry creates a registry with every built-in operation.
func NewRegistry(opts Options) *Registry {
	return NewRegistryWith(
		NewTerms(opts.TermsDefaultSize),
		NewDateHistogram(),
		NewSum(),
		NewAvg(),
		NewMin(),
		NewMax(),
		NewCount(),
		NewFilterRatio(),
	)
}

// NewRegistryWith creates a registry from explicit definitions. Later
// definitions of an already registered type are ignored.
func NewRegistryWith(defs ...Definition) *Registry {
	r := &Registry{byType: make(map[domain.OperationType]Definition, len(defs))}
	for _, d := range defs {
		if _, dup := r.byType[d.Type()]; dup {
			continue
		}
		r.defs = append(r.defs, d)
		r.byType[d.Type()] = d
	}
	return r
}

// Lookup returns the definition for op.
func (r *Registry) Lookup(op domain.OperationType) (Definition, error) {
	d, ok := r.byType[op]
	if !ok {
		return nil, domain.ErrNotFound("operation %q not found", op)
	}
	return d, nil
}

// Definitions returns the registered definitions in display order.
func (r *Registry) Definitions() []Definition {
	return append([]Definition(nil), r.defs...)
}

// Candidate pairs an operation type with a column shape it can produce.
type Candidate struct {
	Operation  domain.OperationType
	Descriptor domain.OperationDescriptor
}

// OperationsForField returns every column shape any operation can build from field.
func (r *Registry) OperationsForField(field domain.Field) []Candidate {
	var out []Candidate
	for _, d := range r.defs {
		for _, desc := range d.PossibleOperationsForField(field) {
			out = append(out, Candidate{Operation: d.Type(), Descriptor: desc})
		}
	}
	return out
}

// OperationsForDocument returns the column shapes buildable without a field.
func (r *Registry) OperationsForDocument(ip domain.IndexPattern) []Candidate {
	var out []Candidate
	for _, d := range r.defs {
		for _, desc := range d.PossibleOperationsForDocument(ip) {
			out = append(out, Candidate{Operation: d.Type(), Descriptor: desc})
		}
	}
	return out
}

// OperationTypesForField returns the distinct operation types applicable to field.
func (r *Registry) OperationTypesForField(field domain.Field) []domain.OperationType {
	var out []domain.OperationType
	seen := map[domain.OperationType]bool{}
	for _, c := range r.OperationsForField(field) {
		if !seen[c.Operation] {
			seen[c.Operation] = true
			out = append(out, c.Operation)
		}
	}
	return out
}

// TakesField reports whether op is built from a field.
func (r *Registry) TakesField(op domain.OperationType) bool {
	d, ok := r.byType[op]
	if !ok {
		return false
	}
	return len(d.PossibleOperationsForDocument(domain.IndexPattern{})) == 0
}
