package signalio

import (
	"sync"
	"time"

	"vision-inspect/internal/domain/entity"
	"vision-inspect/internal/domain/port"
	"vision-inspect/internal/logger"
)

// Event запись одной инструкции приёмнику сигналов.
type Event struct {
	Output   string
	On       bool
	Duration time.Duration // больше нуля для импульса
}

// MemorySink симулированный приёмник выходных сигналов с журналом
// инструкций. Заменяет реальный GPIO при разработке и в тестах.
type MemorySink struct {
	mu     sync.Mutex
	states map[string]bool
	events []Event
	log    *logger.Logger
}

// NewMemorySink создаёт симулированный приёмник сигналов.
func NewMemorySink(log *logger.Logger) *MemorySink {
	return &MemorySink{
		states: make(map[string]bool),
		log:    log.Component("signal"),
	}
}

// SetBusy управляет сигналом BUSY.
func (s *MemorySink) SetBusy(on bool) error {
	return s.SetOutput(entity.OutputBusy, on)
}

// SetOutput устанавливает именованный выход.
func (s *MemorySink) SetOutput(name string, on bool) error {
	s.mu.Lock()
	s.states[name] = on
	s.events = append(s.events, Event{Output: name, On: on})
	s.mu.Unlock()

	s.log.Debug("output set", map[string]interface{}{"output": name, "on": on})
	return nil
}

// Pulse поднимает выход и опускает его по истечении длительности.
func (s *MemorySink) Pulse(output string, duration time.Duration) error {
	s.mu.Lock()
	s.states[output] = true
	s.events = append(s.events, Event{Output: output, On: true, Duration: duration})
	s.mu.Unlock()

	s.log.Debug("output pulsed", map[string]interface{}{
		"output":      output,
		"duration_ms": duration.Milliseconds(),
	})

	time.AfterFunc(duration, func() {
		s.mu.Lock()
		s.states[output] = false
		s.mu.Unlock()
	})
	return nil
}

// ResetAll опускает все выходы.
func (s *MemorySink) ResetAll() error {
	s.mu.Lock()
	for name := range s.states {
		s.states[name] = false
	}
	s.mu.Unlock()

	s.log.Debug("all outputs reset", nil)
	return nil
}

// Output возвращает текущее состояние выхода.
func (s *MemorySink) Output(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[name]
}

// Events возвращает копию журнала инструкций.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

var _ port.SignalSink = (*MemorySink)(nil)
