package port

import (
	"context"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// CaptureSource интерфейс источника кадров.
// Движку безразлично, реальная это камера или симуляция.
type CaptureSource interface {
	// Capture возвращает декодированный кадр. Владение Mat переходит вызывающему.
	Capture(ctx context.Context, mode entity.BrightnessMode, focusValue int) (gocv.Mat, error)

	// Close освобождает дескриптор камеры.
	Close() error
}
