package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revshare/application/commands"
	pkgerrors "revshare/pkg/errors"
)

func TestAPIRevenueHandlerRendersReport(t *testing.T) {
	dataset := handlerDataset()
	graph := handlerGraph(t)
	presenter := &fakePresenter{}
	writer := &fakeReportWriter{}
	handler := NewAPIRevenueHandler(
		newHandlerService(t, dataset, graph),
		dataset, graph, handlerStats(), presenter, writer, zap.NewNop(),
	)

	err := handler.Handle(context.Background(), commands.DistributeAPIRevenueCommand{
		RevenuePerCall: handlerMoney(t, "1.00"),
		Debug:          true,
	})
	require.NoError(t, err)

	require.Len(t, presenter.apiReports, 1)
	report := presenter.apiReports[0]
	assert.Equal(t, 5, report.TotalAPICalls)
	assert.Equal(t, "5.00", report.TotalRevenue.String())
	require.Len(t, report.Tasks, 1)
	assert.Equal(t, "任务A", report.Tasks[0].Task)

	assert.Equal(t, []string{
		artifactAPIParseResult,
		artifactAPINodes,
		artifactAPIDetails,
		artifactAPIFinal,
	}, writer.artifacts)
}

func TestAPIRevenueHandlerWritesReport(t *testing.T) {
	dataset := handlerDataset()
	graph := handlerGraph(t)
	presenter := &fakePresenter{}
	writer := &fakeReportWriter{}
	handler := NewAPIRevenueHandler(
		newHandlerService(t, dataset, graph),
		dataset, graph, handlerStats(), presenter, writer, zap.NewNop(),
	)

	err := handler.Handle(context.Background(), commands.DistributeAPIRevenueCommand{
		RevenuePerCall: handlerMoney(t, "0.50"),
		OutputPath:     "reports/api.json",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"reports/api.json"}, writer.reportPaths)
	assert.Empty(t, writer.artifacts)
}

func TestAPIRevenueHandlerRejectsNegativePrice(t *testing.T) {
	dataset := handlerDataset()
	graph := handlerGraph(t)
	presenter := &fakePresenter{}
	handler := NewAPIRevenueHandler(
		newHandlerService(t, dataset, graph),
		dataset, graph, handlerStats(), presenter, &fakeReportWriter{}, zap.NewNop(),
	)

	err := handler.Handle(context.Background(), commands.DistributeAPIRevenueCommand{
		RevenuePerCall: handlerMoney(t, "-1.00"),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, presenter.apiReports)
}
