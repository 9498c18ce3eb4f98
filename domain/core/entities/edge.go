package entities

import (
	"github.com/shopspring/decimal"

	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// Edge is a directed citation: the from-node cites the to-node, so
// revenue flows from the citing node toward the cited one. The weight
// scales the cited node's share and must be strictly positive.
type Edge struct {
	fromID valueobjects.NodeID
	toID   valueobjects.NodeID
	weight decimal.Decimal
}

// NewEdge creates a citation edge with full validation
func NewEdge(fromID, toID string, weight decimal.Decimal) (*Edge, error) {
	from, err := valueobjects.NewNodeID(fromID)
	if err != nil {
		return nil, err
	}

	to, err := valueobjects.NewNodeID(toID)
	if err != nil {
		return nil, err
	}

	if from.Equals(to) {
		return nil, pkgerrors.NewSelfReferentialEdgeError(from.String())
	}

	if !weight.IsPositive() {
		return nil, pkgerrors.NewValidationErrorf("edge %s -> %s weight must be positive, got %s", from.String(), to.String(), weight.String()).
			WithCode(pkgerrors.CodeInvalidEdgeWeight).
			WithDetail("from_id", from.String()).
			WithDetail("to_id", to.String())
	}

	return &Edge{
		fromID: from,
		toID:   to,
		weight: weight,
	}, nil
}

// FromID returns the citing node
func (e *Edge) FromID() valueobjects.NodeID {
	return e.fromID
}

// ToID returns the cited node
func (e *Edge) ToID() valueobjects.NodeID {
	return e.toID
}

// Weight returns the citation weight
func (e *Edge) Weight() decimal.Decimal {
	return e.weight
}
