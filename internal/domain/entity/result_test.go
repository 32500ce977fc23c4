package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	ok := ToolResult{Status: StatusOK}
	ng := ToolResult{Status: StatusNG}

	require.Equal(t, StatusOK, Aggregate([]ToolResult{ok, ok, ok}))
	require.Equal(t, StatusNG, Aggregate([]ToolResult{ok, ng, ok}))
	require.Equal(t, StatusNG, Aggregate([]ToolResult{ng}))
}

func TestAggregate_EmptyIsNG(t *testing.T) {
	require.Equal(t, StatusNG, Aggregate(nil))
	require.Equal(t, StatusNG, Aggregate([]ToolResult{}))
}

func TestPositionOffset_Zero(t *testing.T) {
	require.True(t, PositionOffset{Confidence: 99}.Zero())
	require.False(t, PositionOffset{DX: 1}.Zero())
	require.False(t, PositionOffset{DY: -1}.Zero())
}
