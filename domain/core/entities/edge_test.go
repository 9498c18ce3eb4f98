package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "revshare/pkg/errors"
)

func TestNewEdge(t *testing.T) {
	edge, err := NewEdge("article", "core-engine", decimal.RequireFromString("1.5"))

	require.NoError(t, err)
	assert.Equal(t, "article", edge.FromID().String())
	assert.Equal(t, "core-engine", edge.ToID().String())
	assert.True(t, edge.Weight().Equal(decimal.RequireFromString("1.5")))
}

func TestNewEdgeValidation(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		weight   string
		wantCode string
	}{
		{
			name:     "empty from id",
			from:     "",
			to:       "b",
			weight:   "1",
			wantCode: pkgerrors.CodeEmptyIdentifier,
		},
		{
			name:     "empty to id",
			from:     "a",
			to:       "",
			weight:   "1",
			wantCode: pkgerrors.CodeEmptyIdentifier,
		},
		{
			name:     "self loop",
			from:     "a",
			to:       "a",
			weight:   "1",
			wantCode: pkgerrors.CodeSelfReferentialEdge,
		},
		{
			name:     "zero weight",
			from:     "a",
			to:       "b",
			weight:   "0",
			wantCode: pkgerrors.CodeInvalidEdgeWeight,
		},
		{
			name:     "negative weight",
			from:     "a",
			to:       "b",
			weight:   "-0.5",
			wantCode: pkgerrors.CodeInvalidEdgeWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEdge(tt.from, tt.to, decimal.RequireFromString(tt.weight))

			require.Error(t, err)
			appErr := pkgerrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}
