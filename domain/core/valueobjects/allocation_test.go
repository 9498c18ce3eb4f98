package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "revshare/pkg/errors"
)

func buildAllocationIDs(t *testing.T) (TriggerID, NodeID, UserID) {
	t.Helper()

	trigger, err := NewTriggerID("rev-001")
	require.NoError(t, err)
	node, err := NewNodeID("搭建网站框架")
	require.NoError(t, err)
	user, err := NewUserID("张三")
	require.NoError(t, err)
	return trigger, node, user
}

func TestNewAllocation(t *testing.T) {
	trigger, node, user := buildAllocationIDs(t)

	alloc, err := NewAllocation(trigger, node, user, NewMoneyFromCents(1500), 0)

	require.NoError(t, err)
	assert.True(t, alloc.TriggerID().Equals(trigger))
	assert.True(t, alloc.NodeID().Equals(node))
	assert.True(t, alloc.UserID().Equals(user))
	assert.Equal(t, "15.00", alloc.Amount().String())
	assert.Equal(t, SourceDirect, alloc.Source())
	assert.Equal(t, 0, alloc.Level())
}

func TestNewAllocationSourceFollowsLevel(t *testing.T) {
	trigger, node, user := buildAllocationIDs(t)

	direct, err := NewAllocation(trigger, node, user, NewMoneyFromCents(100), 0)
	require.NoError(t, err)
	propagated, err := NewAllocation(trigger, node, user, NewMoneyFromCents(100), 3)
	require.NoError(t, err)

	assert.Equal(t, SourceDirect, direct.Source())
	assert.Equal(t, SourcePropagation, propagated.Source())
}

func TestNewAllocationValidation(t *testing.T) {
	trigger, node, user := buildAllocationIDs(t)

	tests := []struct {
		name  string
		build func() (Allocation, error)
	}{
		{
			name: "zero trigger id",
			build: func() (Allocation, error) {
				return NewAllocation(TriggerID{}, node, user, NewMoneyFromCents(100), 0)
			},
		},
		{
			name: "zero node id",
			build: func() (Allocation, error) {
				return NewAllocation(trigger, NodeID{}, user, NewMoneyFromCents(100), 0)
			},
		},
		{
			name: "zero user id",
			build: func() (Allocation, error) {
				return NewAllocation(trigger, node, UserID{}, NewMoneyFromCents(100), 0)
			},
		},
		{
			name: "negative amount",
			build: func() (Allocation, error) {
				return NewAllocation(trigger, node, user, NewMoneyFromCents(-1), 0)
			},
		},
		{
			name: "negative level",
			build: func() (Allocation, error) {
				return NewAllocation(trigger, node, user, NewMoneyFromCents(100), -1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()

			assert.True(t, pkgerrors.IsValidation(err))
		})
	}
}

func TestSourceForLevel(t *testing.T) {
	assert.Equal(t, SourceDirect, SourceForLevel(0))
	assert.Equal(t, SourcePropagation, SourceForLevel(1))
	assert.Equal(t, SourcePropagation, SourceForLevel(7))
}
