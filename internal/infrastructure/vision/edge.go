package vision

import (
	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// Пороги Канни по умолчанию.
const (
	defaultCannyLow  = 50
	defaultCannyHigh = 150
)

// EdgeTool сравнивает плотность границ. Тестовый кадр обрабатывается
// теми же порогами Канни, что и эталон.
type EdgeTool struct {
	baseTool
	low         float32
	high        float32
	masterEdges int
}

// NewEdgeTool создаёт инструмент сравнения плотности границ.
func NewEdgeTool(cfg entity.ToolConfig) *EdgeTool {
	t := &EdgeTool{
		baseTool: newBase(cfg),
		low:      defaultCannyLow,
		high:     defaultCannyHigh,
	}
	if cfg.CannyLow > 0 {
		t.low = float32(cfg.CannyLow)
	}
	if cfg.CannyHigh > 0 {
		t.high = float32(cfg.CannyHigh)
	}
	return t
}

// ExtractMasterFeatures считает число граничных пикселей эталонной области.
func (t *EdgeTool) ExtractMasterFeatures(master gocv.Mat) error {
	region, err := extractROI(master, t.roi)
	if err != nil {
		return err
	}
	defer region.Close()

	edges := cannyEdges(region, t.low, t.high)
	defer edges.Close()

	t.masterEdges = gocv.CountNonZero(edges)
	t.configured = true
	return nil
}

// CalculateMatchingRate возвращает отношение числа граничных пикселей, 0-200.
func (t *EdgeTool) CalculateMatchingRate(test gocv.Mat, roi entity.ROI) (float64, error) {
	if t.masterEdges == 0 {
		return 0, nil
	}

	region, err := extractROI(test, roi)
	if err != nil {
		return 0, err
	}
	defer region.Close()

	edges := cannyEdges(region, t.low, t.high)
	defer edges.Close()

	return ratioCapped(gocv.CountNonZero(edges), t.masterEdges), nil
}

// Process сравнивает тестовый кадр с эталоном и выносит вердикт.
func (t *EdgeTool) Process(test gocv.Mat, roi entity.ROI) (entity.ToolResult, error) {
	return t.run(test, roi, t.CalculateMatchingRate)
}

// Close освобождает ресурсы инструмента.
func (t *EdgeTool) Close() {}
