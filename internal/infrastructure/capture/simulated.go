package capture

import (
	"context"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
	"vision-inspect/internal/domain/port"
)

// SimulatedCamera генерирует тестовый шаблон вместо реального кадра.
// Используется при разработке без камеры; режим яркости имитируется
// добавкой к яркости всего кадра.
type SimulatedCamera struct {
	width  int
	height int
}

// NewSimulatedCamera создаёт симулированную камеру с заданным разрешением.
func NewSimulatedCamera(width, height int) *SimulatedCamera {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &SimulatedCamera{width: width, height: height}
}

// Capture возвращает шахматный шаблон с фигурами для отладки инструментов.
func (c *SimulatedCamera) Capture(ctx context.Context, mode entity.BrightnessMode, focusValue int) (gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}
	_ = focusValue // симуляция резкость не меняет

	frame := gocv.NewMatWithSize(c.height, c.width, gocv.MatTypeCV8UC3)

	const square = 40
	light := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	for y := 0; y < c.height; y += square {
		for x := 0; x < c.width; x += square {
			if ((x/square)+(y/square))%2 == 0 {
				gocv.Rectangle(&frame, image.Rect(x, y, x+square, y+square), light, -1)
			}
		}
	}

	gocv.Circle(&frame, image.Pt(c.width/2, c.height/2), 50, color.RGBA{B: 255, A: 255}, -1)
	gocv.Rectangle(&frame, image.Rect(100, 100, 200, 200), color.RGBA{G: 255, A: 255}, -1)

	switch mode {
	case entity.BrightnessHDR:
		frame.AddUChar(20)
	case entity.BrightnessHighGain:
		frame.AddUChar(60)
	}

	return frame, nil
}

// Close у симулированной камеры ничего не освобождает.
func (c *SimulatedCamera) Close() error {
	return nil
}

var _ port.CaptureSource = (*SimulatedCamera)(nil)
