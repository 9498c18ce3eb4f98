package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"revshare/application/commands"
	"revshare/application/ports"
	"revshare/application/services"
	"revshare/domain/core/aggregates"
	"revshare/domain/ingestion"
)

// DistributeRevenueHandler handles revenue distribution commands. It
// owns the run's side effects: rendering the report, optionally storing
// it as JSON, and writing debug stage snapshots.
type DistributeRevenueHandler struct {
	service   *services.DistributionService
	dumper    *stageDumper
	presenter ports.ReportPresenter
	writer    ports.ReportWriter
	logger    *zap.Logger
}

// NewDistributeRevenueHandler creates a new distribute revenue handler
func NewDistributeRevenueHandler(
	service *services.DistributionService,
	dataset *ingestion.Dataset,
	graph *aggregates.CitationGraph,
	stats *ingestion.BuildStats,
	presenter ports.ReportPresenter,
	writer ports.ReportWriter,
	logger *zap.Logger,
) *DistributeRevenueHandler {
	return &DistributeRevenueHandler{
		service: service,
		dumper: &stageDumper{
			dataset: dataset,
			graph:   graph,
			stats:   stats,
			writer:  writer,
			logger:  logger,
		},
		presenter: presenter,
		writer:    writer,
		logger:    logger,
	}
}

// Handle executes the distribute revenue command
func (h *DistributeRevenueHandler) Handle(ctx context.Context, cmd commands.DistributeRevenueCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	if cmd.Debug {
		h.dumper.parseStage(ctx, artifactParseResult)
		h.dumper.nodeStage(ctx, artifactNodes)
		h.dumper.edgeStage(ctx, artifactEdges)
	}

	report, err := h.service.DistributeForTrigger(ctx, cmd.TriggerTask, cmd.Amount)
	if err != nil {
		return err
	}

	if cmd.Debug {
		h.dumper.dump(ctx, artifactDetails, report.Allocations)
	}

	if err := h.presenter.PresentDistribution(ctx, report); err != nil {
		return fmt.Errorf("failed to render distribution report: %w", err)
	}

	if cmd.OutputPath != "" {
		if err := h.writer.WriteReport(ctx, cmd.OutputPath, report); err != nil {
			return fmt.Errorf("failed to write distribution report: %w", err)
		}
		h.logger.Info("Distribution report written", zap.String("path", cmd.OutputPath))
	}

	if cmd.Debug {
		h.dumper.dump(ctx, artifactFinal, report)
	}

	return nil
}
