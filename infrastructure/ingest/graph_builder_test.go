package ingest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revshare/domain/core/valueobjects"
	"revshare/domain/ingestion"
	pkgerrors "revshare/pkg/errors"
)

var buildInstant = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

func buildCitation(fromKey, toKey string) ingestion.CitationRecord {
	return ingestion.CitationRecord{
		FromKey:       fromKey,
		ToKey:         toKey,
		FromTitle:     fromKey,
		ToTitle:       toKey,
		FromSourceRef: "row:1",
		ToSourceRef:   "row:2",
		Weight:        decimal.NewFromInt(1),
	}
}

func buildDataset() *ingestion.Dataset {
	created := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	return &ingestion.Dataset{
		Records: []ingestion.TaskRecord{
			{
				Key:         "父任务",
				Title:       "父任务",
				NodeType:    ingestion.NodeTypeTask,
				SourceRef:   "row:1",
				CreatedDate: &created,
				Executors:   []string{"alice"},
			},
			{
				Key:       "子任务",
				Title:     "子任务",
				NodeType:  ingestion.NodeTypeTask,
				SourceRef: "row:2",
				Parents:   []string{"父任务"},
			},
		},
		Citations: []ingestion.CitationRecord{buildCitation("子任务", "父任务")},
		Users:     []ingestion.UserRecord{{Username: "alice"}},
	}
}

func buildNodeID(t *testing.T, id string) valueobjects.NodeID {
	t.Helper()
	nodeID, err := valueobjects.NewNodeID(id)
	require.NoError(t, err)
	return nodeID
}

func TestBuildGraphFromDataset(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop(), WithReferenceTime(buildInstant))

	graph, stats, err := builder.Build(buildDataset())
	require.NoError(t, err)

	assert.Equal(t, 2, graph.NodeCount())
	assert.Equal(t, 1, graph.EdgeCount())

	parent, err := graph.GetNode(buildNodeID(t, "父任务"))
	require.NoError(t, err)
	assert.Equal(t, "alice", parent.CreatorID().String())
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), parent.CreatedAt())
	assert.Equal(t, 1, parent.CitationCount())
	assert.Equal(t, "1", parent.CreativityFactor().String())
	assert.Equal(t, "0.3", parent.PropagationRate().String())

	child, err := graph.GetNode(buildNodeID(t, "子任务"))
	require.NoError(t, err)
	assert.Equal(t, ingestion.DefaultUnassignedUser, child.CreatorID().String())
	assert.Equal(t, buildInstant, child.CreatedAt())
	assert.Equal(t, 0, child.CitationCount())

	assert.Equal(t, 2, stats.NodeCount)
	assert.Equal(t, 1, stats.EdgeCount)
	assert.Equal(t, 1, stats.NodesWithExecutor)
	assert.Equal(t, 1, stats.NodesWithoutExecutor)
	assert.Empty(t, stats.DroppedCitations)
}

func TestBuildOptionsOverrideDefaults(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop(),
		WithReferenceTime(buildInstant),
		WithDefaultCreativity(decimal.NewFromInt(2)),
		WithDefaultPropagationRate(decimal.RequireFromString("0.5")),
		WithUnassignedUser("nobody"),
	)

	graph, stats, err := builder.Build(buildDataset())
	require.NoError(t, err)

	child, err := graph.GetNode(buildNodeID(t, "子任务"))
	require.NoError(t, err)
	assert.Equal(t, "nobody", child.CreatorID().String())
	assert.Equal(t, "2", child.CreativityFactor().String())
	assert.Equal(t, "0.5", child.PropagationRate().String())
	assert.Equal(t, 1, stats.NodesWithoutExecutor)
}

func TestBuildDropsBrokenCitations(t *testing.T) {
	dataset := &ingestion.Dataset{
		Records: []ingestion.TaskRecord{
			{Key: "甲", Title: "甲", Executors: []string{"alice"}},
		},
		Citations: []ingestion.CitationRecord{
			buildCitation("未知", "甲"),
			buildCitation("甲", "未知"),
			buildCitation("甲", "甲"),
		},
	}

	builder := NewGraphBuilder(zap.NewNop(), WithReferenceTime(buildInstant))
	graph, stats, err := builder.Build(dataset)
	require.NoError(t, err)

	assert.Equal(t, 1, graph.NodeCount())
	assert.Equal(t, 0, graph.EdgeCount())

	require.Len(t, stats.DroppedCitations, 3)
	assert.Equal(t, dropReasonUnknownFrom, stats.DroppedCitations[0].Reason)
	assert.Equal(t, dropReasonUnknownTo, stats.DroppedCitations[1].Reason)
	assert.Equal(t, dropReasonSelfLoop, stats.DroppedCitations[2].Reason)
}

func TestBuildEmptyDataset(t *testing.T) {
	builder := NewGraphBuilder(zap.NewNop())

	for _, dataset := range []*ingestion.Dataset{nil, {}} {
		_, _, err := builder.Build(dataset)
		require.Error(t, err)
		appErr := pkgerrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeEmptyDataset, appErr.Code)
	}
}

func TestBuildCollectsAllErrors(t *testing.T) {
	zero := buildCitation("任务B", "任务A")
	zero.Weight = decimal.Zero

	dataset := &ingestion.Dataset{
		Records: []ingestion.TaskRecord{
			{Key: "任务A", Title: "任务A", Executors: []string{"alice"}},
			{Key: "任务A", Title: "任务A", Executors: []string{"bob"}},
			{Key: "任务B", Title: "任务B", Executors: []string{"carol"}},
		},
		Citations: []ingestion.CitationRecord{zero},
	}

	builder := NewGraphBuilder(zap.NewNop(), WithReferenceTime(buildInstant))
	_, _, err := builder.Build(dataset)
	require.Error(t, err)

	verrs, ok := err.(*pkgerrors.ValidationErrors)
	require.True(t, ok)
	require.Len(t, verrs.Errors, 2)

	codes := []string{verrs.Errors[0].Code, verrs.Errors[1].Code}
	assert.Contains(t, codes, pkgerrors.CodeInvalidEdgeWeight)
	assert.Contains(t, codes, pkgerrors.CodeDuplicateNode)
}

func TestBuildRejectsEmptyCreator(t *testing.T) {
	dataset := &ingestion.Dataset{
		Records: []ingestion.TaskRecord{{Key: "孤立任务", Title: "孤立任务"}},
	}

	builder := NewGraphBuilder(zap.NewNop(), WithUnassignedUser(""))
	_, _, err := builder.Build(dataset)
	require.Error(t, err)

	verrs, ok := err.(*pkgerrors.ValidationErrors)
	require.True(t, ok)
	assert.True(t, verrs.HasErrors())
}
