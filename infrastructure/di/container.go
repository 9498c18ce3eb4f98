package di

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"revshare/application/commands/bus"
	"revshare/application/ports"
	querybus "revshare/application/queries/bus"
	"revshare/application/services"
	"revshare/domain/core/aggregates"
	"revshare/domain/events"
	"revshare/domain/ingestion"
	domainservices "revshare/domain/services"
	"revshare/domain/versioning"
	"revshare/infrastructure/config"
	"revshare/infrastructure/messaging"
	"revshare/infrastructure/seed"
	"revshare/interfaces/cli"
)

// Container holds all application dependencies. The dataset and graph
// are loaded once at construction so every command and query in a run
// operates on the same immutable snapshot.
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Dataset     *ingestion.Dataset
	Graph       *aggregates.CitationGraph
	Stats       *ingestion.BuildStats
	Fingerprint string
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	Presenter   ports.ReportPresenter
	Reports     ports.ReportWriter
}

// Option adjusts container construction
type Option func(*containerOptions)

type containerOptions struct {
	clock  time.Time
	stdout io.Writer
}

// WithClock pins the instant used for node ages, distribution
// timestamps, and seed script generation times. The zero value keeps
// the wall clock.
func WithClock(t time.Time) Option {
	return func(o *containerOptions) {
		o.clock = t
	}
}

// WithStdout redirects human-readable reports and stdout-bound scripts,
// mainly for tests.
func WithStdout(w io.Writer) Option {
	return func(o *containerOptions) {
		o.stdout = w
	}
}

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	o := containerOptions{stdout: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	var now func() time.Time
	if !o.clock.IsZero() {
		pinned := o.clock
		now = func() time.Time { return pinned }
	}

	publisher := messaging.NewLogPublisher(logger)

	source := ProvideGraphSource(cfg, logger)
	dataset, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	builder, err := ProvideGraphBuilder(cfg, o.clock, logger)
	if err != nil {
		return nil, err
	}
	graph, stats, err := builder.Build(dataset)
	if err != nil {
		return nil, err
	}

	fingerprint := versioning.Fingerprint(graph)

	timestamp := time.Now()
	if now != nil {
		timestamp = now()
	}
	imported := events.NewGraphImported(
		fingerprint,
		dataset.SourcePath,
		stats.NodeCount,
		stats.EdgeCount,
		len(stats.DroppedCitations),
		timestamp,
	)
	if err := publisher.Publish(ctx, imported); err != nil {
		return nil, err
	}

	distributor, err := ProvideDistributor(cfg, graph, o.clock)
	if err != nil {
		return nil, err
	}

	weightCalc := domainservices.NewWeightCalculator()
	if !o.clock.IsZero() {
		weightCalc = domainservices.NewWeightCalculatorAt(o.clock)
	}

	distribution := services.NewDistributionService(dataset, graph, distributor, fingerprint, publisher, logger)
	weights := services.NewWeightReportService(dataset, graph, weightCalc, fingerprint, logger)
	analytics := services.NewCitationAnalyticsService(dataset, fingerprint, cfg.UnassignedUser, logger)

	presenter := cli.NewTextPresenter(o.stdout)

	var writerOpts []cli.JSONReportWriterOption
	if now != nil {
		writerOpts = append(writerOpts, cli.WithReportClock(now))
	}
	reportWriter := cli.NewJSONReportWriter(cfg.LogsDir, logger, writerOpts...)
	scripts := seed.NewFileScriptWriter(o.stdout, logger)

	var generatorOpts []seed.GeneratorOption
	if !o.clock.IsZero() {
		generatorOpts = append(generatorOpts, seed.WithGeneratedAt(o.clock))
	}
	generator := seed.NewGenerator(logger, generatorOpts...)

	commandBus, err := ProvideCommandBus(
		distribution,
		dataset,
		graph,
		stats,
		fingerprint,
		generator,
		scripts,
		presenter,
		reportWriter,
		publisher,
		now,
		logger,
	)
	if err != nil {
		return nil, err
	}

	queryBus, err := ProvideQueryBus(weights, analytics, logger)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Dataset:     dataset,
		Graph:       graph,
		Stats:       stats,
		Fingerprint: fingerprint,
		CommandBus:  commandBus,
		QueryBus:    queryBus,
		Presenter:   presenter,
		Reports:     reportWriter,
	}, nil
}
