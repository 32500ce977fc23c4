package signalio

import (
	"sync/atomic"

	"vision-inspect/internal/domain/port"
)

// Latch простейший внешний триггер: взводится программно,
// сбрасывается при чтении.
type Latch struct {
	flag atomic.Bool
}

// Fire взводит триггер.
func (l *Latch) Fire() {
	l.flag.Store(true)
}

// Triggered сообщает о взведённом триггере и сбрасывает его.
func (l *Latch) Triggered() bool {
	return l.flag.Swap(false)
}

var _ port.TriggerSource = (*Latch)(nil)
