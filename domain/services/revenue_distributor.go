package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"revshare/domain/config"
	"revshare/domain/core/aggregates"
	"revshare/domain/core/entities"
	"revshare/domain/core/valueobjects"
	pkgerrors "revshare/pkg/errors"
)

// RevenueDistributor walks the citation graph and splits a revenue
// event into penny-exact allocations. Every run over the same graph,
// policy, and evaluation instant yields the same allocation list in the
// same order; the sum of allocations always equals the quantized input
// amount.
type RevenueDistributor struct {
	graph   *aggregates.CitationGraph
	policy  config.DistributionPolicy
	weights *WeightCalculator
}

// DistributorOption configures a RevenueDistributor
type DistributorOption func(*RevenueDistributor)

// WithPolicy overrides the default distribution policy
func WithPolicy(policy config.DistributionPolicy) DistributorOption {
	return func(d *RevenueDistributor) {
		d.policy = policy
	}
}

// WithClock anchors weight evaluation at a fixed instant
func WithClock(now time.Time) DistributorOption {
	return func(d *RevenueDistributor) {
		d.weights = NewWeightCalculatorAt(now)
	}
}

// NewRevenueDistributor creates a distributor over a validated graph
func NewRevenueDistributor(graph *aggregates.CitationGraph, opts ...DistributorOption) (*RevenueDistributor, error) {
	if graph == nil {
		return nil, pkgerrors.NewValidationError("citation graph cannot be nil")
	}

	d := &RevenueDistributor{
		graph:  graph,
		policy: config.DefaultDistributionPolicy(),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.weights == nil {
		d.weights = NewWeightCalculator()
	}

	if err := d.policy.Validate(); err != nil {
		return nil, err
	}

	return d, nil
}

// Now returns the evaluation instant weights are computed against
func (d *RevenueDistributor) Now() time.Time {
	return d.weights.Now()
}

// Policy returns the active distribution policy
func (d *RevenueDistributor) Policy() config.DistributionPolicy {
	return d.policy
}

// Graph returns the citation graph the distributor runs over
func (d *RevenueDistributor) Graph() *aggregates.CitationGraph {
	return d.graph
}

// Distribute splits a revenue event across the graph, starting at the
// entry node. The total is quantized to cents half-up before anything
// else; allocations below one cent are dropped from the result.
func (d *RevenueDistributor) Distribute(triggerID valueobjects.TriggerID, entryNodeID valueobjects.NodeID, total valueobjects.Money) ([]valueobjects.Allocation, error) {
	if total.IsNegative() {
		return nil, pkgerrors.NewNegativeAmountError(total.String())
	}

	amount := total.QuantizeHalfUp()
	allocations := make([]valueobjects.Allocation, 0)
	path := make(map[valueobjects.NodeID]struct{})

	if err := d.visit(triggerID, entryNodeID, amount, 0, path, &allocations); err != nil {
		return nil, err
	}

	result := allocations[:0]
	for _, alloc := range allocations {
		if alloc.Amount().GreaterThanOrEqual(valueobjects.OneCent()) {
			result = append(result, alloc)
		}
	}
	return result, nil
}

// visit processes one node of the recursion: decide the propagation
// rate, retain, apportion the pool upstream, recurse.
func (d *RevenueDistributor) visit(
	triggerID valueobjects.TriggerID,
	nodeID valueobjects.NodeID,
	amount valueobjects.Money,
	level int,
	path map[valueobjects.NodeID]struct{},
	out *[]valueobjects.Allocation,
) error {
	if amount.LessThan(valueobjects.OneCent()) {
		return nil
	}

	node, err := d.graph.GetNode(nodeID)
	if err != nil {
		return err
	}

	// A node already on the current path, or a node at the depth cap,
	// keeps everything it receives.
	var rate decimal.Decimal
	_, onPath := path[nodeID]
	switch {
	case onPath:
		rate = decimal.Zero
	case level >= d.policy.MaxPropagationDepth:
		rate = decimal.Zero
	default:
		rate = d.effectivePropagationRate(node)
	}

	pool := amount.Mul(rate).FloorToCents()
	if pool.LessThan(d.policy.MinPropagationAmount) {
		pool = valueobjects.ZeroMoney()
	}

	retention := amount.Sub(pool)
	if retention.GreaterThanOrEqual(valueobjects.OneCent()) {
		if err := emit(out, triggerID, node, retention, level); err != nil {
			return err
		}
	}

	if pool.LessThan(valueobjects.OneCent()) {
		return nil
	}

	edges := d.graph.OutgoingEdges(nodeID)
	if len(edges) == 0 {
		// Nothing upstream to forward to; the pool stays here.
		return emit(out, triggerID, node, pool, level)
	}

	targets, err := d.weightedTargets(edges)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		// Every upstream weight vanished; the pool stays here.
		return emit(out, triggerID, node, pool, level)
	}

	shares := apportion(pool, targets)

	childPath := make(map[valueobjects.NodeID]struct{}, len(path)+1)
	for id := range path {
		childPath[id] = struct{}{}
	}
	childPath[nodeID] = struct{}{}

	for _, share := range shares {
		child := share.amount.QuantizeHalfUp()
		if child.LessThan(valueobjects.OneCent()) {
			continue
		}
		if err := d.visit(triggerID, share.nodeID, child, level+1, childPath, out); err != nil {
			return err
		}
	}

	return nil
}

// weightedTargets resolves the apportionment weight of every citation
// leaving a node: reference weight of the cited work times the edge
// weight. Targets whose combined weight is not positive are dropped.
func (d *RevenueDistributor) weightedTargets(edges []*entities.Edge) ([]weightedTarget, error) {
	targets := make([]weightedTarget, 0, len(edges))

	for _, edge := range edges {
		upstream, err := d.graph.GetNode(edge.ToID())
		if err != nil {
			return nil, err
		}

		// The declared citation count is a floor; the in-degree
		// observed in this dataset can only raise it.
		citations := upstream.CitationCount()
		if observed := d.graph.IncomingCitationCount(upstream.ID()); observed > citations {
			citations = observed
		}

		weight, err := d.weights.NodeWeight(upstream, citations)
		if err != nil {
			return nil, err
		}

		combined := weight.Mul(edge.Weight())
		if combined.Sign() <= 0 {
			continue
		}
		targets = append(targets, weightedTarget{nodeID: upstream.ID(), weight: combined})
	}

	return targets, nil
}

// emit appends an allocation crediting the node's creator
func emit(out *[]valueobjects.Allocation, triggerID valueobjects.TriggerID, node *entities.Node, amount valueobjects.Money, level int) error {
	alloc, err := valueobjects.NewAllocation(triggerID, node.ID(), node.CreatorID(), amount, level)
	if err != nil {
		return err
	}
	*out = append(*out, alloc)
	return nil
}

// effectivePropagationRate applies difficulty compensation to a node's
// declared rate: base retention scales by actual/estimated hours capped
// at the policy multiplier, then the result clamps to [0, 1].
func (d *RevenueDistributor) effectivePropagationRate(node *entities.Node) decimal.Decimal {
	baseRetention := decimalOne.Sub(node.PropagationRate())

	difficulty := decimalOne
	if est, ok := node.EstimatedHours(); ok {
		if act, ok := node.ActualHours(); ok && est.IsPositive() && act.IsPositive() {
			difficulty = act.Div(est)
		}
	}
	if difficulty.GreaterThan(d.policy.MaxRetentionMultiplier) {
		difficulty = d.policy.MaxRetentionMultiplier
	}

	retention := baseRetention.Mul(difficulty)
	if retention.IsNegative() {
		retention = decimal.Zero
	}
	if retention.GreaterThan(decimalOne) {
		retention = decimalOne
	}

	return decimalOne.Sub(retention)
}

// weightedTarget is one upstream candidate in an apportionment
type weightedTarget struct {
	nodeID valueobjects.NodeID
	weight decimal.Decimal
}

// nodeShare is the merged amount apportioned to one upstream node
type nodeShare struct {
	nodeID valueobjects.NodeID
	amount valueobjects.Money
}

// apportion splits a pool across weighted targets with the largest
// remainder method: floor every proportional share to cents, then hand
// the leftover cents out one at a time, biggest fractional remainder
// first, node id breaking ties. Cents wrap around the item list if
// there are more cents than items. Shares land merged per node, sorted
// by node id, and always sum to exactly the pool.
func apportion(pool valueobjects.Money, targets []weightedTarget) []nodeShare {
	totalWeight := decimal.Zero
	for _, t := range targets {
		totalWeight = totalWeight.Add(t.weight)
	}

	type rawShare struct {
		nodeID    valueobjects.NodeID
		floored   valueobjects.Money
		remainder decimal.Decimal
	}

	raws := make([]rawShare, 0, len(targets))
	floorSum := valueobjects.ZeroMoney()
	for _, t := range targets {
		raw := pool.Decimal().Mul(t.weight).Div(totalWeight)
		floored := valueobjects.NewMoneyFromDecimal(raw).FloorToCents()
		raws = append(raws, rawShare{
			nodeID:    t.nodeID,
			floored:   floored,
			remainder: raw.Sub(floored.Decimal()),
		})
		floorSum = floorSum.Add(floored)
	}

	remainingCents := pool.Sub(floorSum).Cents()

	sort.Slice(raws, func(i, j int) bool {
		if !raws[i].remainder.Equal(raws[j].remainder) {
			return raws[i].remainder.GreaterThan(raws[j].remainder)
		}
		return raws[i].nodeID.Less(raws[j].nodeID)
	})

	for i := int64(0); i < remainingCents; i++ {
		idx := i % int64(len(raws))
		raws[idx].floored = raws[idx].floored.Add(valueobjects.OneCent())
	}

	merged := make(map[valueobjects.NodeID]valueobjects.Money, len(raws))
	order := make([]valueobjects.NodeID, 0, len(raws))
	for _, r := range raws {
		if existing, ok := merged[r.nodeID]; ok {
			merged[r.nodeID] = existing.Add(r.floored)
			continue
		}
		merged[r.nodeID] = r.floored
		order = append(order, r.nodeID)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].Less(order[j]) })

	shares := make([]nodeShare, 0, len(order))
	for _, id := range order {
		shares = append(shares, nodeShare{nodeID: id, amount: merged[id]})
	}
	return shares
}
