package entities

import (
	"time"

	"github.com/shopspring/decimal"

	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// Node is a revenue-bearing unit of work in the citation graph: a task,
// article, or dataset whose creator earns a share of distributed
// revenue. Nodes are immutable snapshots; all fields are validated at
// construction and never change afterwards.
type Node struct {
	// Private fields ensure encapsulation
	id               valueobjects.NodeID
	creatorID        valueobjects.UserID
	createdAt        time.Time
	citationCount    int
	creativityFactor decimal.Decimal
	propagationRate  decimal.Decimal
	estimatedHours   *decimal.Decimal
	actualHours      *decimal.Decimal
}

// NodeOption configures optional node fields at construction
type NodeOption func(*Node)

// WithCitationCount sets the declared citation count. The engine treats
// it as a floor: the observed in-degree can only raise it.
func WithCitationCount(count int) NodeOption {
	return func(n *Node) {
		n.citationCount = count
	}
}

// WithCreativityFactor sets the creativity multiplier, default 1
func WithCreativityFactor(factor decimal.Decimal) NodeOption {
	return func(n *Node) {
		n.creativityFactor = factor
	}
}

// WithPropagationRate sets the share of incoming revenue the node
// passes upstream, default 0.
func WithPropagationRate(rate decimal.Decimal) NodeOption {
	return func(n *Node) {
		n.propagationRate = rate
	}
}

// WithEstimatedHours records the estimated effort for difficulty
// compensation.
func WithEstimatedHours(hours decimal.Decimal) NodeOption {
	return func(n *Node) {
		h := hours
		n.estimatedHours = &h
	}
}

// WithActualHours records the actual effort for difficulty compensation
func WithActualHours(hours decimal.Decimal) NodeOption {
	return func(n *Node) {
		h := hours
		n.actualHours = &h
	}
}

// NewNode creates a node with full business rule validation
func NewNode(id, creatorID string, createdAt time.Time, opts ...NodeOption) (*Node, error) {
	nodeID, err := valueobjects.NewNodeID(id)
	if err != nil {
		return nil, err
	}

	userID, err := valueobjects.NewUserID(creatorID)
	if err != nil {
		return nil, err
	}

	node := &Node{
		id:               nodeID,
		creatorID:        userID,
		createdAt:        createdAt,
		citationCount:    0,
		creativityFactor: decimal.NewFromInt(1),
		propagationRate:  decimal.Zero,
	}

	for _, opt := range opts {
		opt(node)
	}

	if err := node.validate(); err != nil {
		return nil, err
	}

	return node, nil
}

// validate enforces the field invariants after options are applied
func (n *Node) validate() error {
	if n.citationCount < 0 {
		return pkgerrors.NewValidationErrorf("node %q citation count must be non-negative, got %d", n.id.String(), n.citationCount).
			WithCode(pkgerrors.CodeNegativeCitationCount).
			WithDetail("node_id", n.id.String())
	}

	if n.creativityFactor.IsNegative() {
		return pkgerrors.NewValidationErrorf("node %q creativity factor must be non-negative, got %s", n.id.String(), n.creativityFactor.String()).
			WithCode(pkgerrors.CodeNegativeCreativity).
			WithDetail("node_id", n.id.String())
	}

	one := decimal.NewFromInt(1)
	if n.propagationRate.IsNegative() || n.propagationRate.GreaterThan(one) {
		return pkgerrors.NewValidationErrorf("node %q propagation rate must be within [0, 1], got %s", n.id.String(), n.propagationRate.String()).
			WithCode(pkgerrors.CodeInvalidPropagationRate).
			WithDetail("node_id", n.id.String())
	}

	if n.estimatedHours != nil && n.estimatedHours.IsNegative() {
		return pkgerrors.NewValidationErrorf("node %q estimated hours must be non-negative, got %s", n.id.String(), n.estimatedHours.String()).
			WithCode(pkgerrors.CodeNegativeHours).
			WithDetail("node_id", n.id.String())
	}

	if n.actualHours != nil && n.actualHours.IsNegative() {
		return pkgerrors.NewValidationErrorf("node %q actual hours must be non-negative, got %s", n.id.String(), n.actualHours.String()).
			WithCode(pkgerrors.CodeNegativeHours).
			WithDetail("node_id", n.id.String())
	}

	return nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// CreatorID returns the creator credited for this node's revenue
func (n *Node) CreatorID() valueobjects.UserID {
	return n.creatorID
}

// CreatedAt returns when the underlying work was created
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// CitationCount returns the declared citation count
func (n *Node) CitationCount() int {
	return n.citationCount
}

// CreativityFactor returns the creativity multiplier
func (n *Node) CreativityFactor() decimal.Decimal {
	return n.creativityFactor
}

// PropagationRate returns the declared upstream propagation rate
func (n *Node) PropagationRate() decimal.Decimal {
	return n.propagationRate
}

// EstimatedHours returns the estimated effort, if recorded
func (n *Node) EstimatedHours() (decimal.Decimal, bool) {
	if n.estimatedHours == nil {
		return decimal.Decimal{}, false
	}
	return *n.estimatedHours, true
}

// ActualHours returns the actual effort, if recorded
func (n *Node) ActualHours() (decimal.Decimal, bool) {
	if n.actualHours == nil {
		return decimal.Decimal{}, false
	}
	return *n.actualHours, true
}
