package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// extractROI вырезает область из кадра, предварительно обрезав её по границам.
// Возвращает представление исходной матрицы; закрывает вызывающий.
func extractROI(img gocv.Mat, roi entity.ROI) (gocv.Mat, error) {
	clamped := roi.ClampTo(img.Cols(), img.Rows())
	if !clamped.Valid() {
		return gocv.NewMat(), fmt.Errorf("%w: roi %+v is outside image %dx%d",
			entity.ErrConfiguration, roi, img.Cols(), img.Rows())
	}
	rect := image.Rect(clamped.X, clamped.Y, clamped.X+clamped.Width, clamped.Y+clamped.Height)
	return img.Region(rect), nil
}

// toGray приводит кадр к одноканальному виду. Возвращает новую матрицу.
func toGray(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if img.Channels() == 1 {
		img.CopyTo(&gray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}
	return gray
}

// cannyEdges выполняет стандартную цепочку: серый → размытие 5x5 → Канни.
func cannyEdges(img gocv.Mat, low, high float32) gocv.Mat {
	gray := toGray(img)
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	gocv.Canny(blurred, &edges, low, high)
	return edges
}

// largestContour возвращает индекс контура с наибольшей площадью.
func largestContour(contours gocv.PointsVector) int {
	best := 0
	bestArea := -1.0
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > bestArea {
			bestArea = area
			best = i
		}
	}
	return best
}

// ratioCapped считает отношение test/master в процентах с потолком 200.
// Нулевой эталон даёт 0.
func ratioCapped(testCount, masterCount int) float64 {
	if masterCount <= 0 {
		return 0
	}
	ratio := float64(testCount) / float64(masterCount) * 100
	if ratio > 200 {
		return 200
	}
	return ratio
}

// clampRate ограничивает итоговую оценку диапазоном [lo, hi].
func clampRate(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
