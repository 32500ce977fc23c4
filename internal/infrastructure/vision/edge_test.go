package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-inspect/internal/domain/entity"
)

func TestEdgeTool_Reflexivity(t *testing.T) {
	master := frameWithRect(100, 100, image.Rect(20, 20, 80, 80), white)
	defer master.Close()

	tool := NewEdgeTool(entity.ToolConfig{
		Variant:   entity.VariantEdgeDetection,
		ROI:       entity.ROI{Width: 100, Height: 100},
		Threshold: 80,
	})
	defer tool.Close()
	require.NoError(t, tool.ExtractMasterFeatures(master))

	rate, err := tool.CalculateMatchingRate(master, tool.ROI())
	require.NoError(t, err)
	require.InDelta(t, 100, rate, 0.01)
}

func TestEdgeTool_EmptyTest(t *testing.T) {
	master := frameWithRect(100, 100, image.Rect(20, 20, 80, 80), white)
	defer master.Close()

	tool := NewEdgeTool(entity.ToolConfig{
		Variant:   entity.VariantEdgeDetection,
		ROI:       entity.ROI{Width: 100, Height: 100},
		Threshold: 80,
	})
	defer tool.Close()
	require.NoError(t, tool.ExtractMasterFeatures(master))

	test := blackFrame(100, 100)
	defer test.Close()

	rate, err := tool.CalculateMatchingRate(test, tool.ROI())
	require.NoError(t, err)
	require.Equal(t, 0.0, rate)
}

func TestEdgeTool_EmptyMasterAlwaysZero(t *testing.T) {
	master := blackFrame(100, 100)
	defer master.Close()

	tool := NewEdgeTool(entity.ToolConfig{
		Variant:   entity.VariantEdgeDetection,
		ROI:       entity.ROI{Width: 100, Height: 100},
		Threshold: 80,
	})
	defer tool.Close()
	require.NoError(t, tool.ExtractMasterFeatures(master))

	test := frameWithRect(100, 100, image.Rect(20, 20, 80, 80), white)
	defer test.Close()

	rate, err := tool.CalculateMatchingRate(test, tool.ROI())
	require.NoError(t, err)
	require.Equal(t, 0.0, rate)
}
