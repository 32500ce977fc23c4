package vision

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// Веса итоговой оценки качества кадра.
const (
	brightnessWeight = 0.3
	sharpnessWeight  = 0.5
	exposureWeight   = 0.2
)

// AnalyzeQuality считает метрики качества одного кадра: среднюю яркость,
// резкость по дисперсии лапласиана и долю пересвеченных/недосвеченных
// пикселей. Чистая функция над пиксельным буфером.
func AnalyzeQuality(img gocv.Mat) entity.QualityReport {
	if img.Empty() {
		return entity.QualityReport{}
	}

	gray := toGray(img)
	defer gray.Close()

	brightness := gray.Mean().Val1
	brightnessScore := clampRate(100*(1-math.Abs(brightness-125)/125), 0, 100)

	sharpness := laplacianVariance(gray)
	sharpnessScore := math.Min(100, sharpness/5)

	over := maskRatio(gray, 250, gocv.ThresholdBinary)
	under := maskRatio(gray, 5, gocv.ThresholdBinaryInv)
	exposure := clampRate(100*(1-(over+under)), 0, 100)

	return entity.QualityReport{
		Brightness: brightness,
		Sharpness:  sharpness,
		Exposure:   exposure,
		Score:      brightnessWeight*brightnessScore + sharpnessWeight*sharpnessScore + exposureWeight*exposure,
	}
}

// CheckConsistency сравнивает качество эталона и снятого кадра.
// Результат рекомендательный: движок логирует его, но не прерывает цикл.
func CheckConsistency(master, captured gocv.Mat) entity.ConsistencyReport {
	report := entity.ConsistencyReport{}

	if master.Cols() != captured.Cols() || master.Rows() != captured.Rows() {
		report.Issues = append(report.Issues, fmt.Sprintf(
			"image size mismatch: master %dx%d, captured %dx%d",
			master.Cols(), master.Rows(), captured.Cols(), captured.Rows()))
	}

	mq := AnalyzeQuality(master)
	cq := AnalyzeQuality(captured)

	brightnessDelta := math.Abs(mq.Brightness - cq.Brightness)
	switch {
	case brightnessDelta > 60:
		report.Issues = append(report.Issues, fmt.Sprintf(
			"brightness differs by %.0f (master %.0f, captured %.0f)",
			brightnessDelta, mq.Brightness, cq.Brightness))
	case brightnessDelta > 30:
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"brightness differs by %.0f", brightnessDelta))
	}

	if mq.Sharpness > 0 {
		sharpnessRatio := cq.Sharpness / mq.Sharpness
		switch {
		case sharpnessRatio < 0.3:
			report.Issues = append(report.Issues, fmt.Sprintf(
				"captured image is far blurrier than master (ratio %.2f)", sharpnessRatio))
		case sharpnessRatio < 0.6:
			report.Warnings = append(report.Warnings, fmt.Sprintf(
				"captured image is blurrier than master (ratio %.2f)", sharpnessRatio))
		}
	}

	exposureDelta := math.Abs(mq.Exposure - cq.Exposure)
	switch {
	case exposureDelta > 25:
		report.Issues = append(report.Issues, fmt.Sprintf(
			"exposure differs by %.0f points", exposureDelta))
	case exposureDelta > 10:
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"exposure differs by %.0f points", exposureDelta))
	}

	report.Consistent = len(report.Issues) == 0
	switch {
	case !report.Consistent:
		report.Recommendation = "re-capture the master image or adjust camera settings"
	case len(report.Warnings) > 0:
		report.Recommendation = "matching accuracy may be reduced"
	default:
		report.Recommendation = "image quality is consistent with master"
	}
	return report
}

// laplacianVariance оценка резкости: дисперсия отклика лапласиана.
func laplacianVariance(gray gocv.Mat) float64 {
	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)

	meanMat := gocv.NewMat()
	defer meanMat.Close()
	stdMat := gocv.NewMat()
	defer stdMat.Close()
	gocv.MeanStdDev(lap, &meanMat, &stdMat)

	sd := stdMat.GetDoubleAt(0, 0)
	return sd * sd
}

// maskRatio доля пикселей, прошедших порог.
func maskRatio(gray gocv.Mat, thresh float32, typ gocv.ThresholdType) float64 {
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, thresh, 255, typ)

	total := gray.Cols() * gray.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
