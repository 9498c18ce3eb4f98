package services

import (
	"time"

	"github.com/shopspring/decimal"

	"revshare/domain/core/entities"
	pkgerrors "revshare/pkg/errors"
)

var (
	decimalOne  = decimal.NewFromInt(1)
	daysPerYear = decimal.NewFromInt(365)
)

// TimePriorityFactor computes the freshness weight of a work created at
// the given instant, evaluated at now: 1 / (1 + age_days / 365). A work
// created today weighs 1, a year-old work 0.5, a two-year-old work 1/3.
// Creation instants in the future clamp to age zero.
func TimePriorityFactor(createdAt, now time.Time) decimal.Decimal {
	days := elapsedDays(createdAt, now)
	age := decimal.NewFromInt(days).Div(daysPerYear)
	return decimalOne.Div(decimalOne.Add(age))
}

// elapsedDays returns whole days between createdAt and now, never
// negative.
func elapsedDays(createdAt, now time.Time) int64 {
	if createdAt.After(now) {
		return 0
	}
	return int64(now.Sub(createdAt) / (24 * time.Hour))
}

// ReferenceWeight computes the weight a cited work contributes to
// apportionment: citations x time priority x creativity.
func ReferenceWeight(createdAt, now time.Time, citationCount int, creativityFactor decimal.Decimal) (decimal.Decimal, error) {
	if citationCount < 0 {
		return decimal.Decimal{}, pkgerrors.NewValidationErrorf("citation count must be non-negative, got %d", citationCount).
			WithCode(pkgerrors.CodeNegativeCitationCount)
	}
	if creativityFactor.IsNegative() {
		return decimal.Decimal{}, pkgerrors.NewValidationErrorf("creativity factor must be non-negative, got %s", creativityFactor.String()).
			WithCode(pkgerrors.CodeNegativeCreativity)
	}

	citations := decimal.NewFromInt(int64(citationCount))
	return citations.Mul(TimePriorityFactor(createdAt, now)).Mul(creativityFactor), nil
}

// WeightCalculator evaluates reference weights against a fixed instant,
// so one run of the engine sees one consistent notion of "now".
type WeightCalculator struct {
	now time.Time
}

// NewWeightCalculator creates a calculator anchored at the wall clock
func NewWeightCalculator() *WeightCalculator {
	return NewWeightCalculatorAt(time.Now().UTC())
}

// NewWeightCalculatorAt creates a calculator anchored at a fixed
// instant, which is what deterministic runs and tests want.
func NewWeightCalculatorAt(now time.Time) *WeightCalculator {
	return &WeightCalculator{now: now.UTC()}
}

// Now returns the evaluation instant
func (c *WeightCalculator) Now() time.Time {
	return c.now
}

// TimePriorityFactor computes freshness against the evaluation instant
func (c *WeightCalculator) TimePriorityFactor(createdAt time.Time) decimal.Decimal {
	return TimePriorityFactor(createdAt, c.now)
}

// ReferenceWeight computes a weight against the evaluation instant
func (c *WeightCalculator) ReferenceWeight(createdAt time.Time, citationCount int, creativityFactor decimal.Decimal) (decimal.Decimal, error) {
	return ReferenceWeight(createdAt, c.now, citationCount, creativityFactor)
}

// NodeWeight computes a node's reference weight using an effective
// citation count the caller has already resolved (declared vs observed).
func (c *WeightCalculator) NodeWeight(node *entities.Node, effectiveCitations int) (decimal.Decimal, error) {
	return ReferenceWeight(node.CreatedAt(), c.now, effectiveCitations, node.CreativityFactor())
}
