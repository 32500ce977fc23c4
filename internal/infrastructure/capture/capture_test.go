package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

func TestSimulatedCamera_Capture(t *testing.T) {
	cam := NewSimulatedCamera(320, 240)
	defer cam.Close()

	frame, err := cam.Capture(context.Background(), entity.BrightnessNormal, 50)
	require.NoError(t, err)
	defer frame.Close()

	require.False(t, frame.Empty())
	require.Equal(t, 320, frame.Cols())
	require.Equal(t, 240, frame.Rows())
}

func TestSimulatedCamera_BrightnessModes(t *testing.T) {
	cam := NewSimulatedCamera(320, 240)
	defer cam.Close()

	normal, err := cam.Capture(context.Background(), entity.BrightnessNormal, 50)
	require.NoError(t, err)
	defer normal.Close()

	gain, err := cam.Capture(context.Background(), entity.BrightnessHighGain, 50)
	require.NoError(t, err)
	defer gain.Close()

	require.Greater(t, gain.Mean().Val1, normal.Mean().Val1)
}

func TestSimulatedCamera_CancelledContext(t *testing.T) {
	cam := NewSimulatedCamera(0, 0)
	defer cam.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := cam.Capture(ctx, entity.BrightnessNormal, 0)
	require.Error(t, err)
}

func TestStaticSource_ReturnsCopies(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(42, 42, 42, 0), 10, 10, gocv.MatTypeCV8UC3)
	src := NewStaticSource(frame)
	defer src.Close()

	first, err := src.Capture(context.Background(), entity.BrightnessNormal, 0)
	require.NoError(t, err)
	first.AddUChar(100)
	first.Close()

	// Порча выданной копии не затрагивает следующий захват.
	second, err := src.Capture(context.Background(), entity.BrightnessNormal, 0)
	require.NoError(t, err)
	defer second.Close()
	require.InDelta(t, 42, second.Mean().Val1, 0.5)
}

func TestNewFileSource_Missing(t *testing.T) {
	_, err := NewFileSource("/nonexistent/master.png")
	require.Error(t, err)
}
