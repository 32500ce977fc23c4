package app

import (
	"vision-inspect/internal/domain/entity"
)

// applyOutputs выставляет выходные сигналы по итогу цикла: импульс OK либо
// NG и пользовательские выходы по их условиям. Зарезервированные имена
// busy/ok/ng в пользовательской настройке пропускаются.
func (e *Engine) applyOutputs(status entity.Status) {
	name := entity.OutputNG
	if status == entity.StatusOK {
		name = entity.OutputOK
	}
	if err := e.sink.Pulse(name, e.pulse); err != nil {
		e.log.Warn("failed to pulse output", map[string]interface{}{
			"output": name,
			"error":  err.Error(),
		})
	}

	for output, condition := range e.program.Outputs {
		if output == entity.OutputBusy || output == entity.OutputOK || output == entity.OutputNG {
			continue
		}

		on, known := resolveCondition(condition, status)
		if !known {
			// Неизвестное условие — предупреждение о настройке, не ошибка.
			e.log.Warn("unknown output condition", map[string]interface{}{
				"output":    output,
				"condition": condition,
			})
		}
		if err := e.sink.SetOutput(output, on); err != nil {
			e.log.Warn("failed to set output", map[string]interface{}{
				"output": output,
				"error":  err.Error(),
			})
		}
	}
}

// resolveCondition переводит условие выхода в состояние сигнала.
// Неизвестные условия дают выключенный выход.
func resolveCondition(condition entity.OutputCondition, status entity.Status) (on, known bool) {
	switch condition {
	case entity.OutputAlwaysOn:
		return true, true
	case entity.OutputAlwaysOff:
		return false, true
	case entity.OutputOnOK:
		return status == entity.StatusOK, true
	case entity.OutputOnNG:
		return status == entity.StatusNG, true
	default:
		return false, false
	}
}
