package valueobjects

import (
	pkgerrors "revshare/pkg/errors"
)

// AllocationSource tells whether an amount was retained by the node
// that received revenue or arrived through citation propagation.
type AllocationSource string

const (
	SourceDirect      AllocationSource = "direct"
	SourcePropagation AllocationSource = "propagation"
)

// SourceForLevel derives the source from the propagation level: only
// the entry node of a run (level zero) earns direct revenue.
func SourceForLevel(level int) AllocationSource {
	if level == 0 {
		return SourceDirect
	}
	return SourcePropagation
}

// Allocation is one penny-exact credit produced by a distribution run.
// It is immutable once built.
type Allocation struct {
	triggerID TriggerID
	nodeID    NodeID
	userID    UserID
	amount    Money
	source    AllocationSource
	level     int
}

// NewAllocation builds an allocation, deriving the source from the
// propagation level.
func NewAllocation(triggerID TriggerID, nodeID NodeID, userID UserID, amount Money, level int) (Allocation, error) {
	if triggerID.IsZero() {
		return Allocation{}, pkgerrors.NewValidationError("allocation trigger id cannot be empty").
			WithCode(pkgerrors.CodeEmptyIdentifier)
	}
	if nodeID.IsZero() {
		return Allocation{}, pkgerrors.NewValidationError("allocation node id cannot be empty").
			WithCode(pkgerrors.CodeEmptyIdentifier)
	}
	if userID.IsZero() {
		return Allocation{}, pkgerrors.NewValidationError("allocation user id cannot be empty").
			WithCode(pkgerrors.CodeEmptyIdentifier)
	}
	if amount.IsNegative() {
		return Allocation{}, pkgerrors.NewNegativeAmountError(amount.String())
	}
	if level < 0 {
		return Allocation{}, pkgerrors.NewValidationErrorf("allocation level must be non-negative, got %d", level)
	}

	return Allocation{
		triggerID: triggerID,
		nodeID:    nodeID,
		userID:    userID,
		amount:    amount,
		source:    SourceForLevel(level),
		level:     level,
	}, nil
}

// TriggerID returns the revenue event this allocation belongs to
func (a Allocation) TriggerID() TriggerID {
	return a.triggerID
}

// NodeID returns the node whose citation position earned the credit
func (a Allocation) NodeID() NodeID {
	return a.nodeID
}

// UserID returns the creator being credited
func (a Allocation) UserID() UserID {
	return a.userID
}

// Amount returns the credited amount
func (a Allocation) Amount() Money {
	return a.amount
}

// Source returns where the credit came from
func (a Allocation) Source() AllocationSource {
	return a.source
}

// Level returns the propagation depth at which the credit was emitted,
// zero for the entry node.
func (a Allocation) Level() int {
	return a.level
}
