package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func uniformFrame(w, h int, value float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(value, value, value, 0), h, w, gocv.MatTypeCV8UC3)
}

func TestAnalyzeQuality_MidGray(t *testing.T) {
	img := uniformFrame(100, 100, 125)
	defer img.Close()

	q := AnalyzeQuality(img)
	require.InDelta(t, 125, q.Brightness, 0.5)
	require.InDelta(t, 0, q.Sharpness, 0.5)
	require.InDelta(t, 100, q.Exposure, 0.5)

	// Идеальная яркость и экспозиция, нулевая резкость: 0.3*100 + 0.2*100.
	require.InDelta(t, 50, q.Score, 1)
}

func TestAnalyzeQuality_Black(t *testing.T) {
	img := uniformFrame(100, 100, 0)
	defer img.Close()

	q := AnalyzeQuality(img)
	require.InDelta(t, 0, q.Brightness, 0.5)
	require.InDelta(t, 0, q.Exposure, 0.5)
	require.InDelta(t, 0, q.Score, 1)
}

func TestAnalyzeQuality_Empty(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()

	q := AnalyzeQuality(img)
	require.Equal(t, 0.0, q.Score)
}

func TestCheckConsistency_Identical(t *testing.T) {
	img := frameWithRect(100, 100, image.Rect(20, 20, 80, 80), white)
	defer img.Close()

	report := CheckConsistency(img, img)
	require.True(t, report.Consistent)
	require.Empty(t, report.Issues)
	require.Empty(t, report.Warnings)
	require.Equal(t, "image quality is consistent with master", report.Recommendation)
}

func TestCheckConsistency_BrightnessMismatch(t *testing.T) {
	master := uniformFrame(100, 100, 200)
	defer master.Close()
	captured := uniformFrame(100, 100, 20)
	defer captured.Close()

	report := CheckConsistency(master, captured)
	require.False(t, report.Consistent)
	require.NotEmpty(t, report.Issues)
	require.Equal(t, "re-capture the master image or adjust camera settings", report.Recommendation)
}

func TestCheckConsistency_SizeMismatch(t *testing.T) {
	master := uniformFrame(100, 100, 125)
	defer master.Close()
	captured := uniformFrame(200, 150, 125)
	defer captured.Close()

	report := CheckConsistency(master, captured)
	require.False(t, report.Consistent)
	require.NotEmpty(t, report.Issues)
}
