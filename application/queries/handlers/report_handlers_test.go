package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revshare/application/queries"
	"revshare/application/services"
	"revshare/domain/core/aggregates"
	"revshare/domain/core/entities"
	"revshare/domain/ingestion"
	domainservices "revshare/domain/services"
	"revshare/pkg/common"
	pkgerrors "revshare/pkg/errors"
)

var queryInstant = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func queryFixtures(tb testing.TB) (*ingestion.Dataset, *aggregates.CitationGraph) {
	tb.Helper()
	dataset := &ingestion.Dataset{
		Records: []ingestion.TaskRecord{
			{Key: "任务A", Title: "任务A", Executors: []string{"alice"}},
			{Key: "任务B", Title: "任务B", Executors: []string{"bob"}, Parents: []string{"任务A"}},
		},
		Citations: []ingestion.CitationRecord{
			{FromKey: "任务B", ToKey: "任务A", FromTitle: "任务B", ToTitle: "任务A"},
		},
		Users: []ingestion.UserRecord{{Username: "alice"}, {Username: "bob"}},
	}

	taskA, err := entities.NewNode("任务A", "alice", queryInstant)
	require.NoError(tb, err)
	taskB, err := entities.NewNode("任务B", "bob", queryInstant)
	require.NoError(tb, err)
	edge, err := entities.NewEdge("任务B", "任务A", decimal.NewFromInt(1))
	require.NoError(tb, err)
	graph, err := aggregates.NewCitationGraph([]*entities.Node{taskA, taskB}, []*entities.Edge{edge})
	require.NoError(tb, err)
	return dataset, graph
}

func TestGetWeightReportHandler(t *testing.T) {
	dataset, graph := queryFixtures(t)
	service := services.NewWeightReportService(
		dataset, graph, domainservices.NewWeightCalculatorAt(queryInstant), "fp", zap.NewNop(),
	)
	handler := NewGetWeightReportHandler(service)

	report, err := handler.Handle(context.Background(), queries.GetWeightReportQuery{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "alice", report.Rows[0].User)
	assert.Equal(t, "1", report.Rows[0].RawWeight.String())
}

func TestGetWeightReportHandlerRejectsNegativePage(t *testing.T) {
	dataset, graph := queryFixtures(t)
	service := services.NewWeightReportService(
		dataset, graph, domainservices.NewWeightCalculatorAt(queryInstant), "fp", zap.NewNop(),
	)
	handler := NewGetWeightReportHandler(service)

	_, err := handler.Handle(context.Background(), queries.GetWeightReportQuery{
		Page: common.PageParams{Limit: -1},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestGetCitationStatsHandler(t *testing.T) {
	dataset, _ := queryFixtures(t)
	service := services.NewCitationAnalyticsService(dataset, "fp", "", zap.NewNop())
	handler := NewGetCitationStatsHandler(service)

	report, err := handler.Handle(context.Background(), queries.GetCitationStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalTasks)
	assert.Equal(t, 2, report.MaxChainDepth)
	require.Len(t, report.TopCited, 1)
	assert.Equal(t, "任务A", report.TopCited[0].Title)
}

func TestGetCitationStatsHandlerRejectsNegativeTopN(t *testing.T) {
	dataset, _ := queryFixtures(t)
	service := services.NewCitationAnalyticsService(dataset, "fp", "", zap.NewNop())
	handler := NewGetCitationStatsHandler(service)

	_, err := handler.Handle(context.Background(), queries.GetCitationStatsQuery{TopN: -1})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
