package handlers

import (
	"context"
	"fmt"

	"revshare/application/queries"
	"revshare/application/reports"
	"revshare/application/services"
)

// GetWeightReportHandler handles weight leaderboard queries
type GetWeightReportHandler struct {
	service *services.WeightReportService
}

// NewGetWeightReportHandler creates a new weight report handler
func NewGetWeightReportHandler(service *services.WeightReportService) *GetWeightReportHandler {
	return &GetWeightReportHandler{service: service}
}

// Handle executes the weight report query
func (h *GetWeightReportHandler) Handle(ctx context.Context, query queries.GetWeightReportQuery) (*reports.WeightReport, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	return h.service.Leaderboard(ctx, query.Page)
}

// GetCitationStatsHandler handles citation statistics queries
type GetCitationStatsHandler struct {
	service *services.CitationAnalyticsService
}

// NewGetCitationStatsHandler creates a new citation stats handler
func NewGetCitationStatsHandler(service *services.CitationAnalyticsService) *GetCitationStatsHandler {
	return &GetCitationStatsHandler{service: service}
}

// Handle executes the citation stats query
func (h *GetCitationStatsHandler) Handle(ctx context.Context, query queries.GetCitationStatsQuery) (*reports.CitationStatsReport, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	return h.service.Stats(ctx, query.TopN)
}
