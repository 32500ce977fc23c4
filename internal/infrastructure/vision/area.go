package vision

import (
	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// AreaTool сравнивает площадь светлых пикселей после бинаризации.
// Порог Оцу, вычисленный по эталону, без изменений применяется ко всем
// тестовым кадрам, чтобы эталон и тест бинаризовались одинаково.
type AreaTool struct {
	baseTool
	useOtsu        bool
	thresholdValue float32
	masterArea     int
}

// NewAreaTool создаёт инструмент сравнения площади.
func NewAreaTool(cfg entity.ToolConfig) *AreaTool {
	t := &AreaTool{
		baseTool:       newBase(cfg),
		useOtsu:        true,
		thresholdValue: 127,
	}
	if cfg.UseOtsu != nil {
		t.useOtsu = *cfg.UseOtsu
	}
	if cfg.ThresholdValue > 0 {
		t.thresholdValue = float32(cfg.ThresholdValue)
	}
	return t
}

// ExtractMasterFeatures бинаризует эталонную область и запоминает её площадь.
func (t *AreaTool) ExtractMasterFeatures(master gocv.Mat) error {
	region, err := extractROI(master, t.roi)
	if err != nil {
		return err
	}
	defer region.Close()

	gray := toGray(region)
	defer gray.Close()

	binary := gocv.NewMat()
	defer binary.Close()

	if t.useOtsu {
		t.thresholdValue = gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	} else {
		gocv.Threshold(gray, &binary, t.thresholdValue, 255, gocv.ThresholdBinary)
	}

	t.masterArea = gocv.CountNonZero(binary)
	t.configured = true
	return nil
}

// CalculateMatchingRate возвращает отношение площадей в процентах, 0-200.
func (t *AreaTool) CalculateMatchingRate(test gocv.Mat, roi entity.ROI) (float64, error) {
	if t.masterArea == 0 {
		return 0, nil
	}

	region, err := extractROI(test, roi)
	if err != nil {
		return 0, err
	}
	defer region.Close()

	gray := toGray(region)
	defer gray.Close()

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, t.thresholdValue, 255, gocv.ThresholdBinary)

	return ratioCapped(gocv.CountNonZero(binary), t.masterArea), nil
}

// Process сравнивает тестовый кадр с эталоном и выносит вердикт.
func (t *AreaTool) Process(test gocv.Mat, roi entity.ROI) (entity.ToolResult, error) {
	return t.run(test, roi, t.CalculateMatchingRate)
}

// ThresholdValue возвращает применяемый порог бинаризации.
func (t *AreaTool) ThresholdValue() float32 {
	return t.thresholdValue
}

// Close освобождает ресурсы инструмента.
func (t *AreaTool) Close() {}
