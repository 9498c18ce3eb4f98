package config

import (
	"github.com/shopspring/decimal"

	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// DistributionPolicy holds the tunable business rules of a distribution
// run. The zero value is not valid; start from DefaultDistributionPolicy
// and override fields as needed.
type DistributionPolicy struct {
	// MaxPropagationDepth caps how many citation hops revenue may
	// travel from the entry node. At the cap a node retains everything.
	MaxPropagationDepth int

	// MinPropagationAmount is the smallest pool worth forwarding. A
	// computed pool below it collapses to zero and stays with the
	// current node.
	MinPropagationAmount valueobjects.Money

	// MaxRetentionMultiplier caps the difficulty compensation applied
	// to a node's retention share.
	MaxRetentionMultiplier decimal.Decimal
}

// DefaultDistributionPolicy returns the standard policy
func DefaultDistributionPolicy() DistributionPolicy {
	return DistributionPolicy{
		MaxPropagationDepth:    5,
		MinPropagationAmount:   valueobjects.OneCent(),
		MaxRetentionMultiplier: decimal.RequireFromString("1.75"),
	}
}

// Validate checks if the policy is internally consistent
func (p DistributionPolicy) Validate() error {
	if p.MaxPropagationDepth < 0 {
		return pkgerrors.NewValidationErrorf("max propagation depth must be non-negative, got %d", p.MaxPropagationDepth).
			WithCode(pkgerrors.CodeInvalidPolicy).
			WithDetail("field", "max_propagation_depth")
	}

	if p.MinPropagationAmount.IsNegative() {
		return pkgerrors.NewValidationErrorf("min propagation amount must be non-negative, got %s", p.MinPropagationAmount.String()).
			WithCode(pkgerrors.CodeInvalidPolicy).
			WithDetail("field", "min_propagation_amount")
	}

	if !p.MaxRetentionMultiplier.IsPositive() {
		return pkgerrors.NewValidationErrorf("max retention multiplier must be positive, got %s", p.MaxRetentionMultiplier.String()).
			WithCode(pkgerrors.CodeInvalidPolicy).
			WithDetail("field", "max_retention_multiplier")
	}

	return nil
}
