package ingest

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"revshare/domain/core/aggregates"
	"revshare/domain/core/entities"
	"revshare/domain/core/validators"
	"revshare/domain/ingestion"
	pkgerrors "revshare/pkg/errors"
	"revshare/pkg/utils"
)

// Reasons a citation can be dropped during assembly
const (
	dropReasonUnknownFrom = "from node not found"
	dropReasonUnknownTo   = "to node not found"
	dropReasonSelfLoop    = "self-referential citation"
)

// GraphBuilder assembles a validated citation graph from a parsed
// dataset. Every record becomes a node keyed by its record key; every
// citation whose endpoints both exist becomes an edge. Citations with a
// missing endpoint or pointing a record at itself are dropped and
// reported in the build stats instead of failing the run.
type GraphBuilder struct {
	creativity    decimal.Decimal
	rate          decimal.Decimal
	unassigned    string
	referenceTime time.Time
	validator     *validators.GraphValidator
	logger        *zap.Logger
}

// BuilderOption configures a GraphBuilder
type BuilderOption func(*GraphBuilder)

// WithDefaultCreativity sets the creativity factor stamped on every
// node
func WithDefaultCreativity(factor decimal.Decimal) BuilderOption {
	return func(b *GraphBuilder) {
		b.creativity = factor
	}
}

// WithDefaultPropagationRate sets the propagation rate stamped on
// every node
func WithDefaultPropagationRate(rate decimal.Decimal) BuilderOption {
	return func(b *GraphBuilder) {
		b.rate = rate
	}
}

// WithUnassignedUser overrides the creator recorded for records that
// list no executor
func WithUnassignedUser(username string) BuilderOption {
	return func(b *GraphBuilder) {
		b.unassigned = username
	}
}

// WithReferenceTime anchors the creation instant of records that carry
// no creation date. Without it each build uses the wall clock.
func WithReferenceTime(t time.Time) BuilderOption {
	return func(b *GraphBuilder) {
		b.referenceTime = t
	}
}

// NewGraphBuilder creates a builder with standard defaults: creativity
// 1.0, propagation rate 0.3, and the stock unassigned-user label.
func NewGraphBuilder(logger *zap.Logger, opts ...BuilderOption) *GraphBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &GraphBuilder{
		creativity: decimal.NewFromInt(1),
		rate:       decimal.RequireFromString("0.3"),
		unassigned: ingestion.DefaultUnassignedUser,
		validator:  validators.NewGraphValidator(),
		logger:     logger,
	}

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build assembles the citation graph for a dataset. Construction
// problems are collected across the whole dataset and returned together
// as one validation error, so a bad export surfaces every defect in a
// single run.
func (b *GraphBuilder) Build(dataset *ingestion.Dataset) (*aggregates.CitationGraph, *ingestion.BuildStats, error) {
	if dataset == nil || len(dataset.Records) == 0 {
		return nil, nil, pkgerrors.NewValidationError("dataset contains no records").
			WithCode(pkgerrors.CodeEmptyDataset)
	}

	reference := b.referenceTime
	if reference.IsZero() {
		reference = time.Now()
	}

	inDegree := make(map[string]int, len(dataset.Records))
	for _, citation := range dataset.Citations {
		inDegree[citation.ToKey]++
	}

	verrs := pkgerrors.NewValidationErrors()
	stats := &ingestion.BuildStats{DroppedCitations: make([]ingestion.DroppedCitation, 0)}

	nodes := make([]*entities.Node, 0, len(dataset.Records))
	known := make(map[string]struct{}, len(dataset.Records))
	for _, record := range dataset.Records {
		creator := b.unassigned
		if len(record.Executors) > 0 {
			creator = record.Executors[0]
		}
		if creator != b.unassigned {
			stats.NodesWithExecutor++
		} else {
			stats.NodesWithoutExecutor++
		}

		created := reference
		if record.CreatedDate != nil {
			created = utils.MidnightUTC(*record.CreatedDate)
		}

		node, err := entities.NewNode(record.Key, creator, created,
			entities.WithCitationCount(inDegree[record.Key]),
			entities.WithCreativityFactor(b.creativity),
			entities.WithPropagationRate(b.rate),
		)
		if err != nil {
			addConstructionError(verrs, err, record.SourceRef)
			continue
		}
		nodes = append(nodes, node)
		known[record.Key] = struct{}{}
	}

	edges := make([]*entities.Edge, 0, len(dataset.Citations))
	for _, citation := range dataset.Citations {
		if reason := dropReason(citation, known); reason != "" {
			stats.DroppedCitations = append(stats.DroppedCitations, ingestion.DroppedCitation{
				FromKey: citation.FromKey,
				ToKey:   citation.ToKey,
				Reason:  reason,
			})
			continue
		}

		edge, err := entities.NewEdge(citation.FromKey, citation.ToKey, citation.Weight)
		if err != nil {
			addConstructionError(verrs, err, citation.FromSourceRef)
			continue
		}
		edges = append(edges, edge)
	}

	if err := b.validator.ValidateInputs(nodes, edges); err != nil {
		if batch, ok := err.(*pkgerrors.ValidationErrors); ok {
			for _, e := range batch.Errors {
				verrs.AddError(e)
			}
		} else {
			addConstructionError(verrs, err, "")
		}
	}
	if verrs.HasErrors() {
		return nil, nil, verrs
	}

	graph, err := aggregates.NewCitationGraph(nodes, edges)
	if err != nil {
		return nil, nil, err
	}

	stats.NodeCount = graph.NodeCount()
	stats.EdgeCount = graph.EdgeCount()

	b.logger.Info("assembled citation graph",
		zap.Int("nodes", stats.NodeCount),
		zap.Int("edges", stats.EdgeCount),
		zap.Int("nodesWithExecutor", stats.NodesWithExecutor),
		zap.Int("nodesWithoutExecutor", stats.NodesWithoutExecutor),
		zap.Int("droppedCitations", len(stats.DroppedCitations)),
	)
	return graph, stats, nil
}

// dropReason reports why a citation cannot become an edge, or "" when
// it can
func dropReason(citation ingestion.CitationRecord, known map[string]struct{}) string {
	if _, ok := known[citation.FromKey]; !ok {
		return dropReasonUnknownFrom
	}
	if _, ok := known[citation.ToKey]; !ok {
		return dropReasonUnknownTo
	}
	if citation.FromKey == citation.ToKey {
		return dropReasonSelfLoop
	}
	return ""
}

func addConstructionError(verrs *pkgerrors.ValidationErrors, err error, sourceRef string) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		verrs.Add("dataset", err.Error())
		return
	}
	if sourceRef != "" {
		appErr = appErr.WithDetail("source_ref", sourceRef)
	}
	verrs.AddError(appErr)
}
