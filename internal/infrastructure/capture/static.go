package capture

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
	"vision-inspect/internal/domain/port"
)

// StaticSource отдаёт копию заранее подготовленного кадра.
// Применяется в тестах и при воспроизведении записанных кадров.
type StaticSource struct {
	frame gocv.Mat
}

// NewStaticSource создаёт источник из готового кадра, забирая владение им.
func NewStaticSource(frame gocv.Mat) *StaticSource {
	return &StaticSource{frame: frame}
}

// NewFileSource создаёт источник из файла изображения.
func NewFileSource(path string) (*StaticSource, error) {
	frame := gocv.IMRead(path, gocv.IMReadColor)
	if frame.Empty() {
		frame.Close()
		return nil, fmt.Errorf("cannot read frame from %q", path)
	}
	return &StaticSource{frame: frame}, nil
}

// Capture возвращает копию кадра; режимы яркости и фокуса игнорируются.
func (s *StaticSource) Capture(ctx context.Context, _ entity.BrightnessMode, _ int) (gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}
	return s.frame.Clone(), nil
}

// Close освобождает исходный кадр.
func (s *StaticSource) Close() error {
	s.frame.Close()
	return nil
}

var _ port.CaptureSource = (*StaticSource)(nil)
