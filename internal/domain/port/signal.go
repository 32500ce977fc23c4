package port

import "time"

// SignalSink интерфейс приёмника выходных сигналов.
// Приёмник не хранит состояние сверх последней инструкции.
type SignalSink interface {
	// SetBusy поднимает или опускает сигнал BUSY.
	SetBusy(on bool) error

	// Pulse кратковременно поднимает выход на заданную длительность.
	Pulse(output string, duration time.Duration) error

	// SetOutput устанавливает именованный выход.
	SetOutput(name string, on bool) error

	// ResetAll опускает все выходы.
	ResetAll() error
}

// TriggerSource внешний триггер, опрашиваемый между циклами.
type TriggerSource interface {
	// Triggered сообщает о поступившем триггере и сбрасывает его.
	Triggered() bool
}
