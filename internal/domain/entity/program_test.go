package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validProgram() *Program {
	return &Program{
		Name:            "demo",
		MasterImagePath: "master.png",
		Tools: []ToolConfig{
			{
				Variant:   VariantArea,
				Name:      "area-1",
				ROI:       ROI{X: 10, Y: 10, Width: 50, Height: 50},
				Threshold: 80,
			},
		},
		TriggerType:    TriggerInternal,
		BrightnessMode: BrightnessNormal,
	}
}

func TestProgram_Validate(t *testing.T) {
	require.NoError(t, validProgram().Validate())
}

func TestProgram_Validate_NoTools(t *testing.T) {
	p := validProgram()
	p.Tools = nil

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestProgram_Validate_TooManyTools(t *testing.T) {
	p := validProgram()
	for len(p.Tools) <= MaxToolsPerProgram {
		p.Tools = append(p.Tools, p.Tools[0])
	}

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestProgram_Validate_PositionToolCountsTowardLimit(t *testing.T) {
	p := validProgram()
	for len(p.Tools) < MaxToolsPerProgram {
		p.Tools = append(p.Tools, p.Tools[0])
	}
	p.PositionTool = &ToolConfig{
		Variant:   VariantPositionAdjust,
		ROI:       ROI{Width: 20, Height: 20},
		Threshold: 70,
	}

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestProgram_Validate_PositionVariantNotInToolList(t *testing.T) {
	p := validProgram()
	p.Tools = append(p.Tools, ToolConfig{
		Variant:   VariantPositionAdjust,
		ROI:       ROI{Width: 20, Height: 20},
		Threshold: 70,
	})

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestProgram_Validate_PositionToolVariant(t *testing.T) {
	p := validProgram()
	p.PositionTool = &ToolConfig{
		Variant:   VariantArea,
		ROI:       ROI{Width: 20, Height: 20},
		Threshold: 70,
	}

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestProgram_Validate_UnknownTrigger(t *testing.T) {
	p := validProgram()
	p.TriggerType = "hardware"

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestProgram_Validate_UnknownBrightness(t *testing.T) {
	p := validProgram()
	p.BrightnessMode = "ultra"

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestProgram_Validate_FocusOutOfRange(t *testing.T) {
	p := validProgram()
	p.FocusValue = 150

	err := p.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestToolConfig_Validate_ThresholdRange(t *testing.T) {
	// Инструменты-отношения допускают порог до 200.
	cfg := ToolConfig{
		Variant:   VariantArea,
		ROI:       ROI{Width: 10, Height: 10},
		Threshold: 150,
	}
	require.NoError(t, cfg.Validate())

	// Остальные ограничены сотней.
	cfg.Variant = VariantOutline
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestToolConfig_Validate_UpperLimit(t *testing.T) {
	upper := 60.0
	cfg := ToolConfig{
		Variant:    VariantArea,
		ROI:        ROI{Width: 10, Height: 10},
		Threshold:  80,
		UpperLimit: &upper,
	}

	// Верхний предел ниже порога недопустим.
	err := cfg.Validate()
	require.ErrorIs(t, err, ErrConfiguration)

	upper = 120
	require.NoError(t, cfg.Validate())
}

func TestToolConfig_DisplayName(t *testing.T) {
	cfg := ToolConfig{Variant: VariantEdgeDetection}
	require.Equal(t, "edge_detection", cfg.DisplayName())

	cfg.Name = "left edge"
	require.Equal(t, "left edge", cfg.DisplayName())
}
