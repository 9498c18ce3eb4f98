package validators

import (
	"revshare/domain/core/entities"
	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// GraphValidator checks a full batch of graph inputs before assembly.
// Where the aggregate stops at the first structural defect, this
// validator walks the whole batch and reports every defect at once, so
// an ingest run can surface all the problems in a dataset in one pass.
type GraphValidator struct{}

// NewGraphValidator creates a new graph validator
func NewGraphValidator() *GraphValidator {
	return &GraphValidator{}
}

// ValidateInputs checks node uniqueness and edge endpoints across the
// batch. It returns a *pkgerrors.ValidationErrors listing every
// distinct problem found, or nil when the inputs form a valid graph.
func (v *GraphValidator) ValidateInputs(nodes []*entities.Node, edges []*entities.Edge) error {
	verrs := pkgerrors.NewValidationErrors()

	seen := make(map[valueobjects.NodeID]struct{}, len(nodes))
	for _, node := range nodes {
		if node == nil {
			verrs.Add("nodes", "node cannot be nil")
			continue
		}
		if _, dup := seen[node.ID()]; dup {
			verrs.AddError(pkgerrors.NewDuplicateNodeError(node.ID().String()))
			continue
		}
		seen[node.ID()] = struct{}{}
	}

	for _, edge := range edges {
		if edge == nil {
			verrs.Add("edges", "edge cannot be nil")
			continue
		}
		if edge.FromID().Equals(edge.ToID()) {
			verrs.AddError(pkgerrors.NewSelfReferentialEdgeError(edge.FromID().String()))
			continue
		}
		if _, ok := seen[edge.FromID()]; !ok {
			verrs.AddError(pkgerrors.NewDanglingEdgeError(
				edge.FromID().String(), edge.ToID().String(), edge.FromID().String()))
		}
		if _, ok := seen[edge.ToID()]; !ok {
			verrs.AddError(pkgerrors.NewDanglingEdgeError(
				edge.FromID().String(), edge.ToID().String(), edge.ToID().String()))
		}
	}

	if verrs.HasErrors() {
		return verrs
	}
	return nil
}
