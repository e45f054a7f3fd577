// Package operation implements the column operations a layer can be built from.
//
// Every operation is a set of pure functions over domain values. Inputs are
// never mutated; when an operation has nothing to change it returns the
// column pointer it was given so callers can detect no-ops by identity.
package operation

import (
	"lens-engine/internal/domain"
	"lens-engine/internal/esaggs"
)

// BuildContext carries everything needed to build a new column.
type BuildContext struct {
	// Field is nil for operations that do not take a field (count, filter_ratio).
	Field             *domain.Field
	IndexPattern      domain.IndexPattern
	Columns           map[string]*domain.Column
	LayerID           string
	SuggestedPriority *int
}

// Definition is the contract every operation implements.
type Definition interface {
	Type() domain.OperationType
	DisplayName() string
	// PossibleOperationsForField returns the columns this operation can build from field.
	PossibleOperationsForField(field domain.Field) []domain.OperationDescriptor
	// PossibleOperationsForDocument returns the columns this operation can build without a field.
	PossibleOperationsForDocument(ip domain.IndexPattern) []domain.OperationDescriptor
	BuildColumn(ctx BuildContext) *domain.Column
	OnFieldChange(old *domain.Column, ip domain.IndexPattern, field domain.Field) *domain.Column
	OnOtherColumnChanged(column *domain.Column, columns map[string]*domain.Column) *domain.Column
	ToEsAggsConfig(column *domain.Column, columnID string) esaggs.Config
}

// noColumnReaction is embedded by operations that ignore sibling changes.
type noColumnReaction struct{}

func (noColumnReaction) OnOtherColumnChanged(column *domain.Column, _ map[string]*domain.Column) *domain.Column {
	return column
}

type noDocumentOperations struct{}

func (noDocumentOperations) PossibleOperationsForDocument(domain.IndexPattern) []domain.OperationDescriptor {
	return nil
}

type noFieldOperations struct{}

func (noFieldOperations) PossibleOperationsForField(domain.Field) []domain.OperationDescriptor {
	return nil
}

func intPtr(v int) *int { return &v }

func clonePriority(p *int) *int {
	if p == nil {
		return nil
	}
	return intPtr(*p)
}
