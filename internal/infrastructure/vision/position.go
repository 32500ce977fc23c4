package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// defaultSearchMargin запас окна поиска вокруг ожидаемой позиции, пиксели.
const defaultSearchMargin = 50

// PositionTool находит смещение детали корреляцией с эталонным шаблоном.
// В программе допустим максимум один такой инструмент, он выполняется
// до всех остальных; вердикт всегда по нижнему порогу.
type PositionTool struct {
	baseTool
	searchMargin int

	template gocv.Mat
	expected image.Point
}

// NewPositionTool создаёт инструмент коррекции позиции.
func NewPositionTool(cfg entity.ToolConfig) *PositionTool {
	t := &PositionTool{
		baseTool:     newBase(cfg),
		searchMargin: defaultSearchMargin,
	}
	if cfg.SearchMargin > 0 {
		t.searchMargin = cfg.SearchMargin
	}
	return t
}

// ExtractMasterFeatures вырезает шаблон из эталона и запоминает
// ожидаемую позицию — центр области в координатах полного кадра.
func (t *PositionTool) ExtractMasterFeatures(master gocv.Mat) error {
	region, err := extractROI(master, t.roi)
	if err != nil {
		return err
	}
	defer region.Close()

	template := toGray(region)
	if template.Empty() {
		template.Close()
		return fmt.Errorf("%s: %w: empty template", t.name, entity.ErrFeatureExtraction)
	}

	t.template = template
	ex, ey := t.roi.Center()
	t.expected = image.Pt(ex, ey)
	t.configured = true
	return nil
}

// FindOffset ищет лучшее совпадение шаблона в окне вокруг ожидаемой позиции
// и возвращает смещение найденного центра относительно ожидаемого.
func (t *PositionTool) FindOffset(test gocv.Mat) (entity.PositionOffset, error) {
	gray := toGray(test)
	defer gray.Close()

	xs := max(0, t.roi.X-t.searchMargin)
	ys := max(0, t.roi.Y-t.searchMargin)
	xe := min(gray.Cols(), t.roi.X+t.roi.Width+t.searchMargin)
	ye := min(gray.Rows(), t.roi.Y+t.roi.Height+t.searchMargin)

	if xe-xs < t.template.Cols() || ye-ys < t.template.Rows() {
		return entity.PositionOffset{}, fmt.Errorf(
			"%s: search window %dx%d is smaller than template %dx%d",
			t.name, xe-xs, ye-ys, t.template.Cols(), t.template.Rows())
	}

	search := gray.Region(image.Rect(xs, ys, xe, ye))
	defer search.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(search, t.template, &result, gocv.TmCcoeffNormed, mask)

	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)

	matchX := xs + maxLoc.X + t.template.Cols()/2
	matchY := ys + maxLoc.Y + t.template.Rows()/2

	return entity.PositionOffset{
		DX:         matchX - t.expected.X,
		DY:         matchY - t.expected.Y,
		Confidence: float64(maxVal) * 100,
	}, nil
}

// CalculateMatchingRate возвращает уверенность совпадения шаблона 0-100.
func (t *PositionTool) CalculateMatchingRate(test gocv.Mat, _ entity.ROI) (float64, error) {
	offset, err := t.FindOffset(test)
	if err != nil {
		return 0, err
	}
	return offset.Confidence, nil
}

// judge у инструмента позиционирования всегда по нижнему порогу,
// верхний предел игнорируется.
func (t *PositionTool) judge(rate float64) entity.Status {
	if rate >= t.threshold {
		return entity.StatusOK
	}
	return entity.StatusNG
}

// Process находит смещение и выносит вердикт по уверенности совпадения.
func (t *PositionTool) Process(test gocv.Mat, _ entity.ROI) (entity.ToolResult, error) {
	if !t.configured {
		return entity.ToolResult{}, fmt.Errorf("%s: %w", t.name, entity.ErrNotConfigured)
	}

	offset, err := t.FindOffset(test)
	if err != nil {
		return entity.ToolResult{}, err
	}

	result := t.newResult(offset.Confidence, t.judge(offset.Confidence))
	result.Offset = &offset
	return result, nil
}

// Close освобождает шаблон эталона.
func (t *PositionTool) Close() {
	if t.configured {
		t.template.Close()
	}
}
