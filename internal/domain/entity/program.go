package entity

import (
	"errors"
	"fmt"
)

// ToolVariant определяет алгоритм инструмента.
type ToolVariant string

const (
	VariantOutline        ToolVariant = "outline"
	VariantArea           ToolVariant = "area"
	VariantColorArea      ToolVariant = "color_area"
	VariantEdgeDetection  ToolVariant = "edge_detection"
	VariantPositionAdjust ToolVariant = "position_adjust"
)

// TriggerType определяет источник запуска цикла.
type TriggerType string

const (
	TriggerInternal TriggerType = "internal" // таймер
	TriggerExternal TriggerType = "external" // внешний сигнал, опрашивается
)

// BrightnessMode режим яркости камеры.
type BrightnessMode string

const (
	BrightnessNormal   BrightnessMode = "normal"
	BrightnessHDR      BrightnessMode = "hdr"
	BrightnessHighGain BrightnessMode = "highgain"
)

// OutputCondition условие включения пользовательского выхода.
type OutputCondition string

const (
	OutputAlwaysOn  OutputCondition = "Always ON"
	OutputAlwaysOff OutputCondition = "Always OFF"
	OutputOnOK      OutputCondition = "OK"
	OutputOnNG      OutputCondition = "NG"
)

// Зарезервированные имена выходов, недоступные для пользовательской настройки.
const (
	OutputBusy = "busy"
	OutputOK   = "ok"
	OutputNG   = "ng"
)

// MaxToolsPerProgram ограничивает число инструментов в программе.
const MaxToolsPerProgram = 16

// Point координата пикселя для выборки цвета.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// ToolConfig хранит настройки одного инструмента.
// Поля вариативных параметров заполняются только для своего варианта.
type ToolConfig struct {
	Variant    ToolVariant `yaml:"type"`
	Name       string      `yaml:"name"`
	ROI        ROI         `yaml:"roi"`
	Threshold  float64     `yaml:"threshold"`
	UpperLimit *float64    `yaml:"upperLimit,omitempty"`

	// Area: ручной порог бинаризации вместо автоматического по Оцу.
	UseOtsu        *bool   `yaml:"useOtsu,omitempty"`
	ThresholdValue float64 `yaml:"thresholdValue,omitempty"`

	// ColorArea: точки выборки эталонного цвета и допуск по тону.
	ColorSamples   []Point `yaml:"colorSamples,omitempty"`
	ColorTolerance int     `yaml:"colorTolerance,omitempty"`

	// EdgeDetection: пороги Канни.
	CannyLow  float64 `yaml:"cannyLow,omitempty"`
	CannyHigh float64 `yaml:"cannyHigh,omitempty"`

	// PositionAdjust: запас области поиска вокруг ожидаемой позиции.
	SearchMargin int `yaml:"searchMargin,omitempty"`
}

// Program описывает программу инспекции: эталон, инструменты и настройки цикла.
// Конвейер использует программу только для чтения.
type Program struct {
	Name              string                     `yaml:"name"`
	MasterImagePath   string                     `yaml:"masterImage"`
	Tools             []ToolConfig               `yaml:"tools"`
	PositionTool      *ToolConfig                `yaml:"positionTool,omitempty"`
	TriggerType       TriggerType                `yaml:"triggerType"`
	TriggerIntervalMs int                        `yaml:"triggerIntervalMs"`
	BrightnessMode    BrightnessMode             `yaml:"brightnessMode"`
	FocusValue        int                        `yaml:"focusValue"`
	Outputs           map[string]OutputCondition `yaml:"outputs,omitempty"`
}

// Validate проверяет программу перед загрузкой в движок.
func (p *Program) Validate() error {
	if p.MasterImagePath == "" {
		return fmt.Errorf("%w: master image path is empty", ErrConfiguration)
	}

	total := len(p.Tools)
	if p.PositionTool != nil {
		total++
	}
	if total == 0 {
		return fmt.Errorf("%w: program has no tools", ErrConfiguration)
	}
	if total > MaxToolsPerProgram {
		return fmt.Errorf("%w: too many tools (%d > %d)", ErrConfiguration, total, MaxToolsPerProgram)
	}

	switch p.TriggerType {
	case TriggerInternal, TriggerExternal:
	default:
		return fmt.Errorf("%w: unknown trigger type %q", ErrConfiguration, p.TriggerType)
	}

	switch p.BrightnessMode {
	case BrightnessNormal, BrightnessHDR, BrightnessHighGain:
	default:
		return fmt.Errorf("%w: unknown brightness mode %q", ErrConfiguration, p.BrightnessMode)
	}

	if p.FocusValue < 0 || p.FocusValue > 100 {
		return fmt.Errorf("%w: focus value %d is out of range [0,100]", ErrConfiguration, p.FocusValue)
	}

	for i := range p.Tools {
		cfg := &p.Tools[i]
		if cfg.Variant == VariantPositionAdjust {
			return fmt.Errorf("%w: position tool must be configured separately, not in the tool list", ErrConfiguration)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if p.PositionTool != nil {
		if p.PositionTool.Variant != VariantPositionAdjust {
			return fmt.Errorf("%w: position tool has variant %q", ErrConfiguration, p.PositionTool.Variant)
		}
		if err := p.PositionTool.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate проверяет настройки инструмента.
func (c *ToolConfig) Validate() error {
	switch c.Variant {
	case VariantOutline, VariantArea, VariantColorArea, VariantEdgeDetection, VariantPositionAdjust:
	default:
		return fmt.Errorf("%w: unknown tool variant %q", ErrConfiguration, c.Variant)
	}

	if !c.ROI.Valid() {
		return fmt.Errorf("%w: %s roi has non-positive size %dx%d",
			ErrConfiguration, c.Variant, c.ROI.Width, c.ROI.Height)
	}

	// Инструменты-отношения допускают порог до 200, остальные до 100.
	maxRate := 100.0
	switch c.Variant {
	case VariantArea, VariantColorArea, VariantEdgeDetection:
		maxRate = 200.0
	}
	if c.Threshold < 0 || c.Threshold > maxRate {
		return fmt.Errorf("%w: %s threshold %.1f is out of range [0,%.0f]",
			ErrConfiguration, c.Variant, c.Threshold, maxRate)
	}
	if c.UpperLimit != nil && (*c.UpperLimit < c.Threshold || *c.UpperLimit > maxRate) {
		return fmt.Errorf("%w: %s upper limit %.1f is out of range [%.1f,%.0f]",
			ErrConfiguration, c.Variant, *c.UpperLimit, c.Threshold, maxRate)
	}

	return nil
}

// DisplayName возвращает имя инструмента либо название варианта.
func (c *ToolConfig) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return string(c.Variant)
}

// ErrConfiguration и родственные ошибки образуют таксономию ошибок конвейера.
var (
	// ErrConfiguration — некорректные настройки; отклоняется при загрузке.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrFeatureExtraction — эталон непригоден для варианта; отклоняется при загрузке.
	ErrFeatureExtraction = errors.New("master feature extraction failed")
	// ErrCapture — кадр не получен; фатально для цикла, но не для сессии.
	ErrCapture = errors.New("image capture failed")
	// ErrNotConfigured — инструмент использован до извлечения эталонных признаков.
	ErrNotConfigured = errors.New("tool is not configured")
)
