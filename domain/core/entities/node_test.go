package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "revshare/pkg/errors"
)

var testCreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewNodeDefaults(t *testing.T) {
	node, err := NewNode("搭建网站框架", "张三", testCreatedAt)

	require.NoError(t, err)
	assert.Equal(t, "搭建网站框架", node.ID().String())
	assert.Equal(t, "张三", node.CreatorID().String())
	assert.True(t, node.CreatedAt().Equal(testCreatedAt))
	assert.Equal(t, 0, node.CitationCount())
	assert.True(t, node.CreativityFactor().Equal(decimal.NewFromInt(1)))
	assert.True(t, node.PropagationRate().IsZero())

	_, ok := node.EstimatedHours()
	assert.False(t, ok)
	_, ok = node.ActualHours()
	assert.False(t, ok)
}

func TestNewNodeWithOptions(t *testing.T) {
	node, err := NewNode("core-engine", "李四", testCreatedAt,
		WithCitationCount(5),
		WithCreativityFactor(decimal.NewFromInt(8)),
		WithPropagationRate(decimal.RequireFromString("0.85")),
		WithEstimatedHours(decimal.NewFromInt(100)),
		WithActualHours(decimal.NewFromInt(300)),
	)

	require.NoError(t, err)
	assert.Equal(t, 5, node.CitationCount())
	assert.True(t, node.CreativityFactor().Equal(decimal.NewFromInt(8)))
	assert.True(t, node.PropagationRate().Equal(decimal.RequireFromString("0.85")))

	est, ok := node.EstimatedHours()
	require.True(t, ok)
	assert.True(t, est.Equal(decimal.NewFromInt(100)))

	act, ok := node.ActualHours()
	require.True(t, ok)
	assert.True(t, act.Equal(decimal.NewFromInt(300)))
}

func TestNewNodeValidation(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		creator  string
		opts     []NodeOption
		wantCode string
	}{
		{
			name:     "empty id",
			id:       "",
			creator:  "张三",
			wantCode: pkgerrors.CodeEmptyIdentifier,
		},
		{
			name:     "empty creator",
			id:       "task",
			creator:  "",
			wantCode: pkgerrors.CodeEmptyIdentifier,
		},
		{
			name:     "negative citation count",
			id:       "task",
			creator:  "张三",
			opts:     []NodeOption{WithCitationCount(-1)},
			wantCode: pkgerrors.CodeNegativeCitationCount,
		},
		{
			name:     "negative creativity",
			id:       "task",
			creator:  "张三",
			opts:     []NodeOption{WithCreativityFactor(decimal.NewFromInt(-2))},
			wantCode: pkgerrors.CodeNegativeCreativity,
		},
		{
			name:     "propagation rate above one",
			id:       "task",
			creator:  "张三",
			opts:     []NodeOption{WithPropagationRate(decimal.RequireFromString("1.01"))},
			wantCode: pkgerrors.CodeInvalidPropagationRate,
		},
		{
			name:     "negative propagation rate",
			id:       "task",
			creator:  "张三",
			opts:     []NodeOption{WithPropagationRate(decimal.RequireFromString("-0.1"))},
			wantCode: pkgerrors.CodeInvalidPropagationRate,
		},
		{
			name:     "negative estimated hours",
			id:       "task",
			creator:  "张三",
			opts:     []NodeOption{WithEstimatedHours(decimal.NewFromInt(-10))},
			wantCode: pkgerrors.CodeNegativeHours,
		},
		{
			name:     "negative actual hours",
			id:       "task",
			creator:  "张三",
			opts:     []NodeOption{WithActualHours(decimal.NewFromInt(-10))},
			wantCode: pkgerrors.CodeNegativeHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNode(tt.id, tt.creator, testCreatedAt, tt.opts...)

			require.Error(t, err)
			appErr := pkgerrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, pkgerrors.ErrorTypeValidation, appErr.Type)
		})
	}
}

func TestNewNodeBoundaryRates(t *testing.T) {
	// Both ends of the [0, 1] interval are legal.
	for _, rate := range []string{"0", "1"} {
		_, err := NewNode("task", "张三", testCreatedAt,
			WithPropagationRate(decimal.RequireFromString(rate)))

		assert.NoError(t, err, "rate %s should be accepted", rate)
	}
}
