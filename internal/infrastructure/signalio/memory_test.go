package signalio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vision-inspect/internal/domain/entity"
	"vision-inspect/internal/logger"
)

func TestMemorySink_SetOutput(t *testing.T) {
	sink := NewMemorySink(logger.Nop())

	require.NoError(t, sink.SetOutput("lamp", true))
	require.True(t, sink.Output("lamp"))

	require.NoError(t, sink.SetOutput("lamp", false))
	require.False(t, sink.Output("lamp"))

	events := sink.Events()
	require.Len(t, events, 2)
	require.Equal(t, Event{Output: "lamp", On: true}, events[0])
}

func TestMemorySink_SetBusy(t *testing.T) {
	sink := NewMemorySink(logger.Nop())

	require.NoError(t, sink.SetBusy(true))
	require.True(t, sink.Output(entity.OutputBusy))

	require.NoError(t, sink.SetBusy(false))
	require.False(t, sink.Output(entity.OutputBusy))
}

func TestMemorySink_Pulse(t *testing.T) {
	sink := NewMemorySink(logger.Nop())

	require.NoError(t, sink.Pulse("ok", 20*time.Millisecond))
	require.True(t, sink.Output("ok"))

	require.Eventually(t, func() bool { return !sink.Output("ok") },
		time.Second, 5*time.Millisecond)

	events := sink.Events()
	require.Len(t, events, 1)
	require.Equal(t, 20*time.Millisecond, events[0].Duration)
}

func TestMemorySink_ResetAll(t *testing.T) {
	sink := NewMemorySink(logger.Nop())
	require.NoError(t, sink.SetOutput("lamp", true))
	require.NoError(t, sink.SetOutput("alarm", true))

	require.NoError(t, sink.ResetAll())
	require.False(t, sink.Output("lamp"))
	require.False(t, sink.Output("alarm"))
}

func TestLatch(t *testing.T) {
	latch := &Latch{}
	require.False(t, latch.Triggered())

	latch.Fire()
	require.True(t, latch.Triggered())

	// Чтение сбрасывает триггер.
	require.False(t, latch.Triggered())
}
