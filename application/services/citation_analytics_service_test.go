package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revshare/application/reports"
	"revshare/domain/ingestion"
)

func newTestAnalyticsService(dataset *ingestion.Dataset) *CitationAnalyticsService {
	return NewCitationAnalyticsService(dataset, testFingerprint, "", zap.NewNop())
}

func TestCitationStats(t *testing.T) {
	service := newTestAnalyticsService(reportDataset())

	report, err := service.Stats(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalTasks)
	assert.Equal(t, 3, report.TotalCitations)
	assert.Equal(t, 3, report.TotalUsers)
	assert.Equal(t, 2, report.Coverage.WithExecutor)
	assert.Equal(t, 1, report.Coverage.WithoutExecutor)
	assert.Equal(t, 1, report.RootNodes)
	assert.Equal(t, 2, report.ChildNodes)
	assert.Equal(t, testFingerprint, report.GraphFingerprint)

	require.Len(t, report.TopCited, 2)
	assert.Equal(t, reports.CitedTaskRow{Title: "搭建平台", Count: 2, Executor: "alice"}, report.TopCited[0])
	assert.Equal(t, reports.CitedTaskRow{Title: "写文档", Count: 1, Executor: "bob"}, report.TopCited[1])

	// alice and bob tie on one task each, so the ranking falls back to
	// name order.
	require.Len(t, report.TopExecutors, 2)
	assert.Equal(t, reports.ExecutorTaskRow{User: "alice", TaskCount: 1}, report.TopExecutors[0])
	assert.Equal(t, reports.ExecutorTaskRow{User: "bob", TaskCount: 1}, report.TopExecutors[1])

	assert.Equal(t, 3, report.MaxChainDepth)
	require.Len(t, report.Chains, 1)
	require.Len(t, report.Chains[0].Links, 3)
	assert.Equal(t, reports.ChainLink{Title: "做报表", Executor: ingestion.DefaultUnassignedUser}, report.Chains[0].Links[0])
	assert.Equal(t, reports.ChainLink{Title: "写文档", Executor: "bob"}, report.Chains[0].Links[1])
	assert.Equal(t, reports.ChainLink{Title: "搭建平台", Executor: "alice"}, report.Chains[0].Links[2])
}

func TestCitationStatsTopNTruncates(t *testing.T) {
	service := newTestAnalyticsService(reportDataset())

	report, err := service.Stats(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, report.TopCited, 1)
	assert.Equal(t, "搭建平台", report.TopCited[0].Title)
	require.Len(t, report.TopExecutors, 1)
	assert.Equal(t, "alice", report.TopExecutors[0].User)
}

func TestCitationStatsCycleSafe(t *testing.T) {
	dataset := &ingestion.Dataset{
		Records: []ingestion.TaskRecord{
			{Key: "甲", Title: "甲", Executors: []string{"alice"}, Parents: []string{"乙"}},
			{Key: "乙", Title: "乙", Executors: []string{"bob"}, Parents: []string{"甲"}},
		},
		Users: []ingestion.UserRecord{{Username: "alice"}, {Username: "bob"}},
	}
	service := newTestAnalyticsService(dataset)

	report, err := service.Stats(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, report.MaxChainDepth)
	assert.Equal(t, 0, report.RootNodes)
	require.Len(t, report.Chains, 2)
	assert.Equal(t, "甲", report.Chains[0].Links[0].Title)
	assert.Equal(t, "乙", report.Chains[1].Links[0].Title)
}

func TestCitationStatsEmptyDataset(t *testing.T) {
	service := newTestAnalyticsService(&ingestion.Dataset{})

	report, err := service.Stats(context.Background(), 0)
	require.NoError(t, err)

	assert.Zero(t, report.TotalTasks)
	assert.Zero(t, report.MaxChainDepth)
	assert.Empty(t, report.TopCited)
	assert.Empty(t, report.Chains)
}
