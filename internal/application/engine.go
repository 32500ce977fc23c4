package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
	"vision-inspect/internal/domain/port"
	"vision-inspect/internal/infrastructure/vision"
	"vision-inspect/internal/logger"
)

// Интервал опроса внешнего триггера.
const externalPollInterval = 100 * time.Millisecond

// defaultPulseDuration длительность импульса OK/NG по умолчанию.
const defaultPulseDuration = 100 * time.Millisecond

// Engine движок инспекции: владеет загруженной программой, выполняет
// циклы и сводит результаты инструментов в общий вердикт.
// Экземпляр принадлежит одной сессии, циклы внутри сессии строго
// последовательны; параллельные сессии создают собственные экземпляры.
type Engine struct {
	program  *entity.Program
	master   gocv.Mat
	position vision.Tool
	tools    []vision.Tool

	capture port.CaptureSource
	sink    port.SignalSink
	trigger port.TriggerSource
	log     *logger.Logger

	pulse              time.Duration
	consistencyChecked bool
	closed             bool
}

// NewEngine загружает программу: читает эталон, создаёт инструменты и
// извлекает эталонные признаки. Любая ошибка на этом этапе прерывает
// загрузку целиком — частично инициализированный движок не запускается.
func NewEngine(
	program *entity.Program,
	capture port.CaptureSource,
	sink port.SignalSink,
	trigger port.TriggerSource,
	log *logger.Logger,
) (*Engine, error) {
	if err := program.Validate(); err != nil {
		return nil, err
	}
	if program.TriggerType == entity.TriggerExternal && trigger == nil {
		return nil, fmt.Errorf("%w: external trigger requires a trigger source", entity.ErrConfiguration)
	}

	master := gocv.IMRead(program.MasterImagePath, gocv.IMReadColor)
	if master.Empty() {
		master.Close()
		return nil, fmt.Errorf("%w: cannot read master image %q", entity.ErrConfiguration, program.MasterImagePath)
	}

	e := &Engine{
		program: program,
		master:  master,
		capture: capture,
		sink:    sink,
		trigger: trigger,
		log:     log.Component("engine"),
		pulse:   defaultPulseDuration,
	}

	if program.PositionTool != nil {
		tool, err := loadTool(*program.PositionTool, master)
		if err != nil {
			e.closeTools()
			return nil, err
		}
		e.position = tool
	}

	for _, cfg := range program.Tools {
		tool, err := loadTool(cfg, master)
		if err != nil {
			e.closeTools()
			return nil, err
		}
		e.tools = append(e.tools, tool)
	}

	e.log.Info("program loaded", map[string]interface{}{
		"program":       program.Name,
		"tools":         len(e.tools),
		"position_tool": e.position != nil,
	})
	return e, nil
}

func loadTool(cfg entity.ToolConfig, master gocv.Mat) (vision.Tool, error) {
	tool, err := vision.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := tool.ExtractMasterFeatures(master); err != nil {
		tool.Close()
		return nil, err
	}
	return tool, nil
}

// SetPulseDuration меняет длительность импульса OK/NG.
func (e *Engine) SetPulseDuration(d time.Duration) {
	if d > 0 {
		e.pulse = d
	}
}

// RunCycle выполняет один цикл: захват, коррекция позиции, инструменты,
// сводный вердикт, выходные сигналы. Кадр в результате принадлежит
// вызывающему и закрывается через Outcome.Close.
func (e *Engine) RunCycle(ctx context.Context) (*InspectionOutcome, error) {
	start := time.Now()

	if err := e.sink.SetBusy(true); err != nil {
		e.log.Warn("failed to raise busy signal", map[string]interface{}{"error": err.Error()})
	}
	// Сигнал BUSY опускается всегда, какой бы шаг ни завершился ошибкой.
	defer func() {
		if err := e.sink.SetBusy(false); err != nil {
			e.log.Warn("failed to lower busy signal", map[string]interface{}{"error": err.Error()})
		}
	}()

	frame, err := e.capture.Capture(ctx, e.program.BrightnessMode, e.program.FocusValue)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCapture, err)
	}
	if frame.Empty() {
		frame.Close()
		return nil, fmt.Errorf("%w: empty frame", entity.ErrCapture)
	}

	e.checkConsistency(frame)

	results := make([]entity.ToolResult, 0, len(e.tools)+1)
	var offset entity.PositionOffset

	if e.position != nil {
		res, perr := e.position.Process(frame, e.position.ROI())
		if perr != nil {
			e.log.Error(perr, "position tool failed", map[string]interface{}{"tool": e.position.Name()})
			res = degraded(e.position, perr)
		}
		if res.OK() && res.Offset != nil {
			offset = *res.Offset
		} else if res.Offset != nil {
			// Смещение вычислено, но при NG не применяется.
			e.log.Warn("position adjustment rejected, offsets not applied", map[string]interface{}{
				"confidence": res.MatchingRate,
				"threshold":  res.Threshold,
			})
		}
		results = append(results, res)
	}

	for _, tool := range e.tools {
		roi := tool.ROI().Translate(offset.DX, offset.DY)
		res, terr := tool.Process(frame, roi)
		if terr != nil {
			// Отказ одного инструмента не прерывает цикл.
			e.log.Error(terr, "tool failed", map[string]interface{}{"tool": tool.Name()})
			res = degraded(tool, terr)
		}
		results = append(results, res)
	}

	overall := entity.Aggregate(results)
	e.applyOutputs(overall)

	elapsed := time.Since(start)
	e.log.Info("inspection complete", map[string]interface{}{
		"status":  overall,
		"tools":   len(results),
		"time_ms": elapsed.Milliseconds(),
	})

	return &InspectionOutcome{
		Status:         overall,
		ToolResults:    results,
		ProcessingTime: elapsed,
		Image:          frame,
	}, nil
}

// checkConsistency сверяет качество эталона и кадра один раз на сессию.
// Результат рекомендательный: логируется, но цикл не прерывает.
func (e *Engine) checkConsistency(frame gocv.Mat) {
	if e.consistencyChecked {
		return
	}
	e.consistencyChecked = true

	report := vision.CheckConsistency(e.master, frame)
	switch {
	case !report.Consistent:
		e.log.Warn("master/capture quality is inconsistent", map[string]interface{}{
			"issues":   report.Issues,
			"warnings": report.Warnings,
		})
	case len(report.Warnings) > 0:
		e.log.Warn("quality warnings may affect matching accuracy", map[string]interface{}{
			"warnings": report.Warnings,
		})
	}
	e.log.Info("quality consistency check", map[string]interface{}{
		"recommendation": report.Recommendation,
	})
}

// RunContinuous повторяет циклы до отмены контекста. Отмена проверяется
// между циклами: начатый цикл всегда завершается. Ошибка захвата
// прерывает только текущий цикл, сессия живёт до следующего триггера.
func (e *Engine) RunContinuous(ctx context.Context, onResult func(*InspectionOutcome)) error {
	interval := time.Duration(e.program.TriggerIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}

	e.log.Info("continuous inspection started", map[string]interface{}{
		"trigger": e.program.TriggerType,
	})

	cycles := 0
	for {
		select {
		case <-ctx.Done():
			e.log.Info("continuous inspection stopped", map[string]interface{}{"cycles": cycles})
			return nil
		default:
		}

		if e.program.TriggerType == entity.TriggerExternal {
			if !e.waitTrigger(ctx) {
				e.log.Info("continuous inspection stopped", map[string]interface{}{"cycles": cycles})
				return nil
			}
		}

		outcome, err := e.RunCycle(ctx)
		if err != nil {
			e.log.Error(err, "inspection cycle failed", map[string]interface{}{"cycle": cycles + 1})
		} else {
			cycles++
			if onResult != nil {
				onResult(outcome)
			}
			outcome.Close()
		}

		if e.program.TriggerType == entity.TriggerInternal {
			select {
			case <-ctx.Done():
				e.log.Info("continuous inspection stopped", map[string]interface{}{"cycles": cycles})
				return nil
			case <-time.After(interval):
			}
		}
	}
}

// waitTrigger опрашивает внешний триггер; возвращает false при отмене.
func (e *Engine) waitTrigger(ctx context.Context) bool {
	ticker := time.NewTicker(externalPollInterval)
	defer ticker.Stop()

	for {
		if e.trigger.Triggered() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// Shutdown опускает все выходы и освобождает эталон, инструменты и камеру.
func (e *Engine) Shutdown() {
	if e.closed {
		return
	}
	e.closed = true

	if err := e.sink.ResetAll(); err != nil {
		e.log.Warn("failed to reset outputs", map[string]interface{}{"error": err.Error()})
	}
	e.closeTools()
	if err := e.capture.Close(); err != nil {
		e.log.Warn("failed to release capture source", map[string]interface{}{"error": err.Error()})
	}
	e.log.Info("engine shut down", nil)
}

func (e *Engine) closeTools() {
	if e.position != nil {
		e.position.Close()
		e.position = nil
	}
	for _, t := range e.tools {
		t.Close()
	}
	e.tools = nil
	e.master.Close()
}

// degraded преобразует отказ инструмента в результат NG с текстом ошибки.
func degraded(tool vision.Tool, err error) entity.ToolResult {
	return entity.ToolResult{
		Variant: tool.Variant(),
		Name:    tool.Name(),
		Status:  entity.StatusNG,
		Err:     err.Error(),
	}
}
