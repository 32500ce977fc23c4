package app

import (
	"time"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// InspectionOutcome итог одного цикла. Эфемерен: создаётся на цикл,
// потребляется вызывающим и не хранится внутри движка.
type InspectionOutcome struct {
	Status         entity.Status
	ToolResults    []entity.ToolResult
	ProcessingTime time.Duration
	Image          gocv.Mat // снятый кадр; владение у получателя
}

// Close освобождает снятый кадр.
func (o *InspectionOutcome) Close() {
	o.Image.Close()
}
