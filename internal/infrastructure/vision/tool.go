package vision

import (
	"fmt"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// Tool общий контракт инструмента инспекции.
// Жизненный цикл: New → ExtractMasterFeatures (однократно при загрузке
// программы) → Process на каждом цикле. Скорректированная область передаётся
// в Process снаружи: сохранённая конфигурация никогда не мутирует.
type Tool interface {
	Variant() entity.ToolVariant
	Name() string
	ROI() entity.ROI

	// ExtractMasterFeatures извлекает эталонные признаки из мастер-кадра.
	ExtractMasterFeatures(master gocv.Mat) error

	// CalculateMatchingRate сравнивает тестовый кадр с эталоном.
	CalculateMatchingRate(test gocv.Mat, roi entity.ROI) (float64, error)

	// Process выполняет сравнение и выносит вердикт.
	Process(test gocv.Mat, roi entity.ROI) (entity.ToolResult, error)

	// Close освобождает матрицы эталонных признаков.
	Close()
}

// New создаёт инструмент нужного варианта из конфигурации.
func New(cfg entity.ToolConfig) (Tool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Variant {
	case entity.VariantOutline:
		return NewOutlineTool(cfg), nil
	case entity.VariantArea:
		return NewAreaTool(cfg), nil
	case entity.VariantColorArea:
		return NewColorAreaTool(cfg), nil
	case entity.VariantEdgeDetection:
		return NewEdgeTool(cfg), nil
	case entity.VariantPositionAdjust:
		return NewPositionTool(cfg), nil
	default:
		return nil, fmt.Errorf("%w: unknown tool variant %q", entity.ErrConfiguration, cfg.Variant)
	}
}

// baseTool общие поля и вердикт для всех вариантов.
type baseTool struct {
	variant    entity.ToolVariant
	name       string
	roi        entity.ROI
	threshold  float64
	upperLimit *float64
	configured bool
}

func newBase(cfg entity.ToolConfig) baseTool {
	return baseTool{
		variant:    cfg.Variant,
		name:       cfg.DisplayName(),
		roi:        cfg.ROI,
		threshold:  cfg.Threshold,
		upperLimit: cfg.UpperLimit,
	}
}

func (b *baseTool) Variant() entity.ToolVariant { return b.variant }
func (b *baseTool) Name() string                { return b.name }
func (b *baseTool) ROI() entity.ROI             { return b.roi }

// judge выносит вердикт: диапазон при заданном верхнем пределе, иначе нижний порог.
// Обе границы диапазона включительны.
func (b *baseTool) judge(rate float64) entity.Status {
	if b.upperLimit != nil {
		if rate >= b.threshold && rate <= *b.upperLimit {
			return entity.StatusOK
		}
		return entity.StatusNG
	}
	if rate >= b.threshold {
		return entity.StatusOK
	}
	return entity.StatusNG
}

func (b *baseTool) newResult(rate float64, status entity.Status) entity.ToolResult {
	return entity.ToolResult{
		Variant:      b.variant,
		Name:         b.name,
		Status:       status,
		MatchingRate: rate,
		Threshold:    b.threshold,
		UpperLimit:   b.upperLimit,
	}
}

// run общая композиция Process: проверка готовности, расчёт, вердикт.
func (b *baseTool) run(test gocv.Mat, roi entity.ROI,
	calc func(gocv.Mat, entity.ROI) (float64, error)) (entity.ToolResult, error) {

	if !b.configured {
		return entity.ToolResult{}, fmt.Errorf("%s: %w", b.name, entity.ErrNotConfigured)
	}
	rate, err := calc(test, roi)
	if err != nil {
		return entity.ToolResult{}, err
	}
	return b.newResult(rate, b.judge(rate)), nil
}
