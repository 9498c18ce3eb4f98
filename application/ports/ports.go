package ports

import (
	"context"

	"revshare/application/reports"
	"revshare/domain/events"
	"revshare/domain/ingestion"
)

// GraphSource loads a task dataset from wherever it lives.
// This is a port in hexagonal architecture - the application doesn't
// know whether the data comes from a CSV export, a fixture, or a store.
type GraphSource interface {
	// Load reads and parses the full dataset
	Load(ctx context.Context) (*ingestion.Dataset, error)
}

// ScriptWriter lands generated script text on its destination. An empty
// path or "-" means standard output.
type ScriptWriter interface {
	// Write stores the script content at the given path
	Write(ctx context.Context, path string, content string) error
}

// ReportWriter persists machine-readable report payloads
type ReportWriter interface {
	// WriteReport stores a final report document at the given path
	WriteReport(ctx context.Context, path string, report interface{}) error

	// WriteArtifact stores an intermediate debug payload under the
	// configured logs directory
	WriteArtifact(ctx context.Context, name string, payload interface{}) error
}

// ReportPresenter renders reports for humans
type ReportPresenter interface {
	// PresentDistribution renders a distribution run result
	PresentDistribution(ctx context.Context, report *reports.DistributionReport) error

	// PresentAPIRevenue renders an API revenue run result
	PresentAPIRevenue(ctx context.Context, report *reports.APIRevenueReport) error

	// PresentWeights renders the weight leaderboard
	PresentWeights(ctx context.Context, report *reports.WeightReport) error

	// PresentCitationStats renders the citation analysis
	PresentCitationStats(ctx context.Context, report *reports.CitationStatsReport) error
}

// SeedScript is a rendered SQL seed script
type SeedScript struct {
	SQL            string
	StatementCount int
	Fingerprint    string
}

// SeedGenerator renders a dataset into an idempotent SQL seed script
type SeedGenerator interface {
	// Generate builds the script for a dataset stamped with the graph
	// fingerprint
	Generate(ctx context.Context, dataset *ingestion.Dataset, fingerprint string) (*SeedScript, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
