package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"revshare/application/commands"
	"revshare/application/commands/bus"
	commands_handlers "revshare/application/commands/handlers"
	"revshare/application/ports"
	"revshare/application/queries"
	querybus "revshare/application/queries/bus"
	queries_handlers "revshare/application/queries/handlers"
	"revshare/application/services"
	"revshare/domain/core/aggregates"
	"revshare/domain/ingestion"
	domainservices "revshare/domain/services"
	"revshare/infrastructure/config"
	"revshare/infrastructure/ingest"
	pkgerrors "revshare/pkg/errors"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build logger")
	}

	return logger, nil
}

// ProvideGraphSource creates the CSV-backed dataset source
func ProvideGraphSource(cfg *config.Config, logger *zap.Logger) ports.GraphSource {
	opts := ingest.DefaultParseOptions()
	opts.CreateMissingParents = cfg.CreateMissingParents
	return ingest.NewCSVGraphSource(cfg.CSVPath, opts, logger)
}

// ProvideGraphBuilder creates a graph builder stamped with the
// configured node defaults. A zero reference time keeps the wall clock.
func ProvideGraphBuilder(cfg *config.Config, reference time.Time, logger *zap.Logger) (*ingest.GraphBuilder, error) {
	creativity, err := cfg.CreativityFactor()
	if err != nil {
		return nil, err
	}
	rate, err := cfg.PropagationRate()
	if err != nil {
		return nil, err
	}

	builderOpts := []ingest.BuilderOption{
		ingest.WithDefaultCreativity(creativity),
		ingest.WithDefaultPropagationRate(rate),
		ingest.WithUnassignedUser(cfg.UnassignedUser),
	}
	if !reference.IsZero() {
		builderOpts = append(builderOpts, ingest.WithReferenceTime(reference))
	}

	return ingest.NewGraphBuilder(logger, builderOpts...), nil
}

// ProvideDistributor creates the revenue distributor for the loaded
// graph under the configured distribution policy
func ProvideDistributor(cfg *config.Config, graph *aggregates.CitationGraph, clock time.Time) (*domainservices.RevenueDistributor, error) {
	policy, err := cfg.DistributionPolicy()
	if err != nil {
		return nil, err
	}

	distOpts := []domainservices.DistributorOption{domainservices.WithPolicy(policy)}
	if !clock.IsZero() {
		distOpts = append(distOpts, domainservices.WithClock(clock))
	}

	return domainservices.NewRevenueDistributor(graph, distOpts...)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	distribution *services.DistributionService,
	dataset *ingestion.Dataset,
	graph *aggregates.CitationGraph,
	stats *ingestion.BuildStats,
	fingerprint string,
	generator ports.SeedGenerator,
	scripts ports.ScriptWriter,
	presenter ports.ReportPresenter,
	writer ports.ReportWriter,
	publisher ports.EventPublisher,
	now func() time.Time,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	commandBus.Use(bus.LoggingMiddleware(logger), bus.ValidationMiddleware())

	distributeHandler := commands_handlers.NewDistributeRevenueHandler(distribution, dataset, graph, stats, presenter, writer, logger)
	err := commandBus.Register(commands.DistributeRevenueCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		distributeCmd, ok := cmd.(commands.DistributeRevenueCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return distributeHandler.Handle(ctx, distributeCmd)
	}))
	if err != nil {
		return nil, err
	}

	apiHandler := commands_handlers.NewAPIRevenueHandler(distribution, dataset, graph, stats, presenter, writer, logger)
	err = commandBus.Register(commands.DistributeAPIRevenueCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		apiCmd, ok := cmd.(commands.DistributeAPIRevenueCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return apiHandler.Handle(ctx, apiCmd)
	}))
	if err != nil {
		return nil, err
	}

	seedHandler := commands_handlers.NewGenerateSeedHandler(dataset, fingerprint, generator, scripts, publisher, now, logger)
	err = commandBus.Register(commands.GenerateSeedCommand{}, bus.CommandHandlerFunc(func(ctx context.Context, cmd bus.Command) error {
		seedCmd, ok := cmd.(commands.GenerateSeedCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return seedHandler.Handle(ctx, seedCmd)
	}))
	if err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	weights *services.WeightReportService,
	analytics *services.CitationAnalyticsService,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	logging := querybus.NewLoggingMiddleware(logger)

	weightHandler := queries_handlers.NewGetWeightReportHandler(weights)
	err := queryBus.Register(queries.GetWeightReportQuery{}, logging.Wrap(querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		weightQuery, ok := query.(queries.GetWeightReportQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type %T", query)
		}
		return weightHandler.Handle(ctx, weightQuery)
	})))
	if err != nil {
		return nil, err
	}

	statsHandler := queries_handlers.NewGetCitationStatsHandler(analytics)
	err = queryBus.Register(queries.GetCitationStatsQuery{}, logging.Wrap(querybus.QueryHandlerFunc(func(ctx context.Context, query querybus.Query) (interface{}, error) {
		statsQuery, ok := query.(queries.GetCitationStatsQuery)
		if !ok {
			return nil, fmt.Errorf("invalid query type %T", query)
		}
		return statsHandler.Handle(ctx, statsQuery)
	})))
	if err != nil {
		return nil, err
	}

	return queryBus, nil
}
