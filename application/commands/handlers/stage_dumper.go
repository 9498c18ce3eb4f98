package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"revshare/application/ports"
	"revshare/domain/core/entities"
	"revshare/domain/ingestion"
)

// Debug artifact names, numbered in pipeline order.
const (
	artifactParseResult = "01_csv_parse_result.json"
	artifactNodes       = "02_nodes_construction.json"
	artifactEdges       = "03_edges_construction.json"
	artifactDetails     = "04_distribution_details.json"
	artifactFinal       = "05_final_output.json"

	artifactAPIParseResult = "api_01_csv_parse_result.json"
	artifactAPINodes       = "api_02_nodes_construction.json"
	artifactAPIDetails     = "api_03_distribution_details.json"
	artifactAPIFinal       = "api_04_final_output.json"
)

const (
	recordSampleSize = 5
	nodeSampleSize   = 10
)

// stageDumper writes the intermediate pipeline snapshots a debug run
// produces. Dump failures never fail the run; they are logged and
// skipped.
type stageDumper struct {
	dataset *ingestion.Dataset
	graph   graphView
	stats   *ingestion.BuildStats
	writer  ports.ReportWriter
	logger  *zap.Logger
}

// graphView is the slice of the citation graph the dumper needs
type graphView interface {
	Nodes() []*entities.Node
	Edges() []*entities.Edge
}

func (d *stageDumper) parseStage(ctx context.Context, name string) {
	records := d.dataset.Records
	if len(records) > recordSampleSize {
		records = records[:recordSampleSize]
	}
	citations := d.dataset.Citations
	if len(citations) > recordSampleSize {
		citations = citations[:recordSampleSize]
	}
	d.dump(ctx, name, struct {
		SourcePath      string                     `json:"source_path,omitempty"`
		RecordCount     int                        `json:"record_count"`
		CitationCount   int                        `json:"citation_count"`
		UserCount       int                        `json:"user_count"`
		Warnings        []ingestion.ParseWarning   `json:"warnings,omitempty"`
		RecordsSample   []ingestion.TaskRecord     `json:"records_sample"`
		CitationsSample []ingestion.CitationRecord `json:"citations_sample"`
	}{
		SourcePath:      d.dataset.SourcePath,
		RecordCount:     len(d.dataset.Records),
		CitationCount:   len(d.dataset.Citations),
		UserCount:       len(d.dataset.Users),
		Warnings:        d.dataset.Warnings,
		RecordsSample:   records,
		CitationsSample: citations,
	})
}

type nodeView struct {
	ID               string `json:"id"`
	Creator          string `json:"creator"`
	CreatedAt        string `json:"created_at"`
	CitationCount    int    `json:"citation_count"`
	CreativityFactor string `json:"creativity_factor"`
	PropagationRate  string `json:"propagation_rate"`
}

func (d *stageDumper) nodeStage(ctx context.Context, name string) {
	nodes := d.graph.Nodes()
	sample := nodes
	if len(sample) > nodeSampleSize {
		sample = sample[:nodeSampleSize]
	}
	views := make([]nodeView, 0, len(sample))
	for _, node := range sample {
		views = append(views, nodeView{
			ID:               node.ID().String(),
			Creator:          node.CreatorID().String(),
			CreatedAt:        node.CreatedAt().UTC().Format(time.RFC3339),
			CitationCount:    node.CitationCount(),
			CreativityFactor: node.CreativityFactor().String(),
			PropagationRate:  node.PropagationRate().String(),
		})
	}
	d.dump(ctx, name, struct {
		NodeCount            int        `json:"node_count"`
		NodesWithExecutor    int        `json:"nodes_with_executor"`
		NodesWithoutExecutor int        `json:"nodes_without_executor"`
		NodesSample          []nodeView `json:"nodes_sample"`
	}{
		NodeCount:            d.stats.NodeCount,
		NodesWithExecutor:    d.stats.NodesWithExecutor,
		NodesWithoutExecutor: d.stats.NodesWithoutExecutor,
		NodesSample:          views,
	})
}

type edgeView struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight string `json:"weight"`
}

func (d *stageDumper) edgeStage(ctx context.Context, name string) {
	edges := d.graph.Edges()
	sample := edges
	if len(sample) > nodeSampleSize {
		sample = sample[:nodeSampleSize]
	}
	views := make([]edgeView, 0, len(sample))
	for _, edge := range sample {
		views = append(views, edgeView{
			From:   edge.FromID().String(),
			To:     edge.ToID().String(),
			Weight: edge.Weight().String(),
		})
	}
	d.dump(ctx, name, struct {
		EdgeCount        int                         `json:"edge_count"`
		DroppedCitations []ingestion.DroppedCitation `json:"dropped_citations,omitempty"`
		EdgesSample      []edgeView                  `json:"edges_sample"`
	}{
		EdgeCount:        d.stats.EdgeCount,
		DroppedCitations: d.stats.DroppedCitations,
		EdgesSample:      views,
	})
}

func (d *stageDumper) dump(ctx context.Context, name string, payload interface{}) {
	if err := d.writer.WriteArtifact(ctx, name, payload); err != nil {
		d.logger.Warn("Failed to write debug artifact",
			zap.String("artifact", name),
			zap.Error(err),
		)
	}
}
