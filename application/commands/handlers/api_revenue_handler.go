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

// APIRevenueHandler handles API revenue distribution commands
type APIRevenueHandler struct {
	service   *services.DistributionService
	dumper    *stageDumper
	presenter ports.ReportPresenter
	writer    ports.ReportWriter
	logger    *zap.Logger
}

// NewAPIRevenueHandler creates a new API revenue handler
func NewAPIRevenueHandler(
	service *services.DistributionService,
	dataset *ingestion.Dataset,
	graph *aggregates.CitationGraph,
	stats *ingestion.BuildStats,
	presenter ports.ReportPresenter,
	writer ports.ReportWriter,
	logger *zap.Logger,
) *APIRevenueHandler {
	return &APIRevenueHandler{
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

// Handle executes the distribute API revenue command
func (h *APIRevenueHandler) Handle(ctx context.Context, cmd commands.DistributeAPIRevenueCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	if cmd.Debug {
		h.dumper.parseStage(ctx, artifactAPIParseResult)
		h.dumper.nodeStage(ctx, artifactAPINodes)
	}

	report, err := h.service.DistributeAPIRevenue(ctx, cmd.RevenuePerCall)
	if err != nil {
		return err
	}

	if cmd.Debug {
		h.dumper.dump(ctx, artifactAPIDetails, report.Tasks)
	}

	if err := h.presenter.PresentAPIRevenue(ctx, report); err != nil {
		return fmt.Errorf("failed to render API revenue report: %w", err)
	}

	if cmd.OutputPath != "" {
		if err := h.writer.WriteReport(ctx, cmd.OutputPath, report); err != nil {
			return fmt.Errorf("failed to write API revenue report: %w", err)
		}
		h.logger.Info("API revenue report written", zap.String("path", cmd.OutputPath))
	}

	if cmd.Debug {
		h.dumper.dump(ctx, artifactAPIFinal, report)
	}

	return nil
}
