package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"revshare/domain/ingestion"
	pkgerrors "revshare/pkg/errors"
)

var generatedAt = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

const seedFingerprint = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func seedDataset() *ingestion.Dataset {
	created := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	return &ingestion.Dataset{
		Records: []ingestion.TaskRecord{
			{
				Key:          "平台",
				Title:        "平台",
				NodeType:     ingestion.NodeTypeTask,
				Source:       "feishu_csv",
				SourceRef:    "row:1",
				CreatedDate:  &created,
				Executors:    []string{"alice"},
				Managers:     []string{"bob"},
				IsAPI:        true,
				APICallCount: 5,
			},
			{
				Key:       "l'atelier",
				Title:     "l'atelier",
				NodeType:  ingestion.NodeTypeTask,
				Source:    "feishu_csv",
				SourceRef: "row:2",
				Parents:   []string{"平台"},
			},
		},
		Citations: []ingestion.CitationRecord{
			{
				FromKey:       "l'atelier",
				ToKey:         "平台",
				FromTitle:     "l'atelier",
				ToTitle:       "平台",
				FromSourceRef: "row:2",
				ToSourceRef:   "row:1",
				Weight:        decimal.NewFromInt(1),
			},
		},
		Users: []ingestion.UserRecord{{Username: "alice"}, {Username: "bob"}},
	}
}

func TestGenerateSeedScript(t *testing.T) {
	generator := NewGenerator(zap.NewNop(), WithGeneratedAt(generatedAt))

	script, err := generator.Generate(context.Background(), seedDataset(), seedFingerprint)
	require.NoError(t, err)

	assert.Equal(t, 7, script.StatementCount)
	assert.Equal(t, seedFingerprint, script.Fingerprint)

	wantSQL := strings.Join([]string{
		"-- Seed script generated from a parsed task export.",
		"-- graph fingerprint: " + seedFingerprint,
		"-- users: 2, nodes: 2, citations: 1, revenue rows: 2",
		"BEGIN;",
		"",
		"INSERT INTO users (id, username, reputation_score, contribution_score, level, violation_count, created_at) VALUES ('7b9015d4-b41f-52c1-b6e2-bb5704147ae3'::uuid, 'alice', 0.0, 0, 'novice'::user_level, 0, '2026-01-01T00:00:00+00:00') ON CONFLICT (username) DO NOTHING;",
		"INSERT INTO users (id, username, reputation_score, contribution_score, level, violation_count, created_at) VALUES ('44e8e68e-3265-5887-8dc7-94b9bf803d7d'::uuid, 'bob', 0.0, 0, 'novice'::user_level, 0, '2026-01-01T00:00:00+00:00') ON CONFLICT (username) DO NOTHING;",
		"",
		"INSERT INTO nodes (id, title, type, creator_id, created_at, api_call_count, citation_count, source, source_ref) VALUES ('422ed74f-2c2d-599f-833f-fe0da6fb94d4'::uuid, '平台', 'task'::node_type, '44e8e68e-3265-5887-8dc7-94b9bf803d7d'::uuid, '2024-01-15T00:00:00+00:00', 5, 1, 'feishu_csv', 'row:1') ON CONFLICT (id) DO NOTHING;",
		"INSERT INTO nodes (id, title, type, creator_id, created_at, api_call_count, citation_count, source, source_ref) VALUES ('44fe3ba2-3627-5a8e-a84e-306108446efb'::uuid, 'l''atelier', 'task'::node_type, NULL, '2026-01-01T00:00:00+00:00', 0, 0, 'feishu_csv', 'row:2') ON CONFLICT (id) DO NOTHING;",
		"",
		"INSERT INTO citations (id, from_node_id, to_node_id, weight, created_at) VALUES ('1529d580-0396-590e-bacb-f2bd3731722c'::uuid, '44fe3ba2-3627-5a8e-a84e-306108446efb'::uuid, '422ed74f-2c2d-599f-833f-fe0da6fb94d4'::uuid, 1, '2026-01-01T00:00:00+00:00') ON CONFLICT ON CONSTRAINT citations_unique_edge DO NOTHING;",
		"",
		"INSERT INTO revenue_distributions (id, task_id, node_id, user_id, amount, source, propagation_level, created_at) VALUES ('8072ac1b-f912-521e-b006-533d8145fe62'::uuid, '422ed74f-2c2d-599f-833f-fe0da6fb94d4'::uuid, '422ed74f-2c2d-599f-833f-fe0da6fb94d4'::uuid, '7b9015d4-b41f-52c1-b6e2-bb5704147ae3'::uuid, 100.00::numeric(10,2), 'direct'::revenue_source, 0, '2026-01-01T00:00:00+00:00') ON CONFLICT (id) DO NOTHING;",
		"INSERT INTO revenue_distributions (id, task_id, node_id, user_id, amount, source, propagation_level, created_at) VALUES ('2619b260-1387-5ae6-ae2c-4c59a01708ef'::uuid, '44fe3ba2-3627-5a8e-a84e-306108446efb'::uuid, '422ed74f-2c2d-599f-833f-fe0da6fb94d4'::uuid, '44e8e68e-3265-5887-8dc7-94b9bf803d7d'::uuid, 50.00::numeric(10,2), 'propagation'::revenue_source, 1, '2026-01-01T00:00:00+00:00') ON CONFLICT (id) DO NOTHING;",
		"",
		"COMMIT;",
	}, "\n") + "\n"

	assert.Equal(t, wantSQL, script.SQL)
}

func TestGenerateIsDeterministic(t *testing.T) {
	generator := NewGenerator(zap.NewNop(), WithGeneratedAt(generatedAt))

	first, err := generator.Generate(context.Background(), seedDataset(), seedFingerprint)
	require.NoError(t, err)
	second, err := generator.Generate(context.Background(), seedDataset(), seedFingerprint)
	require.NoError(t, err)

	assert.Equal(t, first.SQL, second.SQL)
}

func TestGenerateSkipsOwnerlessPropagation(t *testing.T) {
	dataset := seedDataset()
	dataset.Records[0].Managers = nil
	dataset.Records[0].Executors = nil

	generator := NewGenerator(zap.NewNop(), WithGeneratedAt(generatedAt))
	script, err := generator.Generate(context.Background(), dataset, seedFingerprint)
	require.NoError(t, err)

	// No executors means no direct row, no owner means no propagation row.
	assert.Equal(t, 5, script.StatementCount)
	assert.NotContains(t, script.SQL, "revenue_distributions")
}

func TestGenerateEmptyDataset(t *testing.T) {
	generator := NewGenerator(zap.NewNop())

	for _, dataset := range []*ingestion.Dataset{nil, {}} {
		_, err := generator.Generate(context.Background(), dataset, seedFingerprint)
		require.Error(t, err)
		appErr := pkgerrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeEmptyDataset, appErr.Code)
	}
}
