package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"vision-inspect/internal/domain/entity"
)

func newConfiguredPositionTool(t *testing.T, cfg entity.ToolConfig) *PositionTool {
	t.Helper()
	master := frameWithRect(200, 200, image.Rect(80, 80, 120, 120), white)
	defer master.Close()

	tool := NewPositionTool(cfg)
	require.NoError(t, tool.ExtractMasterFeatures(master))
	return tool
}

func TestPositionTool_NoShift(t *testing.T) {
	tool := newConfiguredPositionTool(t, entity.ToolConfig{
		Variant:   entity.VariantPositionAdjust,
		ROI:       entity.ROI{X: 70, Y: 70, Width: 60, Height: 60},
		Threshold: 70,
	})
	defer tool.Close()

	test := frameWithRect(200, 200, image.Rect(80, 80, 120, 120), white)
	defer test.Close()

	offset, err := tool.FindOffset(test)
	require.NoError(t, err)
	require.Equal(t, 0, offset.DX)
	require.Equal(t, 0, offset.DY)
	require.GreaterOrEqual(t, offset.Confidence, 99.0)
}

func TestPositionTool_DetectsShift(t *testing.T) {
	tool := newConfiguredPositionTool(t, entity.ToolConfig{
		Variant:   entity.VariantPositionAdjust,
		ROI:       entity.ROI{X: 70, Y: 70, Width: 60, Height: 60},
		Threshold: 70,
	})
	defer tool.Close()

	// Деталь сдвинута на +5 по X и -3 по Y.
	test := frameWithRect(200, 200, image.Rect(85, 77, 125, 117), white)
	defer test.Close()

	offset, err := tool.FindOffset(test)
	require.NoError(t, err)
	require.Equal(t, 5, offset.DX)
	require.Equal(t, -3, offset.DY)
	require.GreaterOrEqual(t, offset.Confidence, 99.0)
}

func TestPositionTool_Process_SetsOffset(t *testing.T) {
	tool := newConfiguredPositionTool(t, entity.ToolConfig{
		Variant:   entity.VariantPositionAdjust,
		ROI:       entity.ROI{X: 70, Y: 70, Width: 60, Height: 60},
		Threshold: 70,
	})
	defer tool.Close()

	test := frameWithRect(200, 200, image.Rect(85, 77, 125, 117), white)
	defer test.Close()

	res, err := tool.Process(test, tool.ROI())
	require.NoError(t, err)
	require.Equal(t, entity.StatusOK, res.Status)
	require.NotNil(t, res.Offset)
	require.Equal(t, 5, res.Offset.DX)
	require.Equal(t, -3, res.Offset.DY)
}

func TestPositionTool_IgnoresUpperLimit(t *testing.T) {
	// Вердикт позиционирования всегда по нижнему порогу.
	upper := 50.0
	tool := newConfiguredPositionTool(t, entity.ToolConfig{
		Variant:    entity.VariantPositionAdjust,
		ROI:        entity.ROI{X: 70, Y: 70, Width: 60, Height: 60},
		Threshold:  40,
		UpperLimit: &upper,
	})
	defer tool.Close()

	test := frameWithRect(200, 200, image.Rect(80, 80, 120, 120), white)
	defer test.Close()

	res, err := tool.Process(test, tool.ROI())
	require.NoError(t, err)
	require.Greater(t, res.MatchingRate, upper)
	require.Equal(t, entity.StatusOK, res.Status)
}

func TestPositionTool_SearchWindowTooSmall(t *testing.T) {
	tool := newConfiguredPositionTool(t, entity.ToolConfig{
		Variant:   entity.VariantPositionAdjust,
		ROI:       entity.ROI{X: 70, Y: 70, Width: 60, Height: 60},
		Threshold: 70,
	})
	defer tool.Close()

	// Кадр меньше шаблона, окно поиска не вмещает его.
	test := blackFrame(50, 50)
	defer test.Close()

	_, err := tool.FindOffset(test)
	require.Error(t, err)
}
