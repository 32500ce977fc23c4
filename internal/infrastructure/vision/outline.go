package vision

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// Веса трёх независимых сравнений формы.
const (
	shapeWeight    = 0.5
	templateWeight = 0.3
	areaWeight     = 0.2
)

// OutlineTool сравнивает форму по контурам: расстояние инвариантов Ху,
// корреляция карт границ и отношение площадей, сведённые взвешенным средним.
type OutlineTool struct {
	baseTool
	masterEdges   gocv.Mat
	masterHu      [7]float64
	masterArea    float64
	masterContour []image.Point
}

// NewOutlineTool создаёт инструмент сравнения формы.
func NewOutlineTool(cfg entity.ToolConfig) *OutlineTool {
	return &OutlineTool{baseTool: newBase(cfg)}
}

// ExtractMasterFeatures извлекает крупнейший контур эталонной области,
// его инварианты Ху, площадь и полную карту границ.
func (t *OutlineTool) ExtractMasterFeatures(master gocv.Mat) error {
	region, err := extractROI(master, t.roi)
	if err != nil {
		return err
	}
	defer region.Close()

	edges := cannyEdges(region, defaultCannyLow, defaultCannyHigh)

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		edges.Close()
		return fmt.Errorf("%s: %w: no contours in master roi", t.name, entity.ErrFeatureExtraction)
	}

	largest := contours.At(largestContour(contours))
	t.masterContour = largest.ToPoints()
	t.masterArea = gocv.ContourArea(largest)
	t.masterHu = contourHuMoments(largest, edges.Cols(), edges.Rows())
	t.masterEdges = edges
	t.configured = true
	return nil
}

// CalculateMatchingRate возвращает оценку схожести формы 0-100.
// Если в тестовой области нет контуров, оценка 0 без остальных сравнений.
func (t *OutlineTool) CalculateMatchingRate(test gocv.Mat, roi entity.ROI) (float64, error) {
	region, err := extractROI(test, roi)
	if err != nil {
		return 0, err
	}
	defer region.Close()

	edges := cannyEdges(region, defaultCannyLow, defaultCannyHigh)
	defer edges.Close()

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return 0, nil
	}

	testContour := contours.At(largestContour(contours))

	testHu := contourHuMoments(testContour, edges.Cols(), edges.Rows())
	shapeScore := huScore(huDistance(t.masterHu, testHu))

	templateScore := t.templateScore(edges)

	areaScore := areaSimilarity(gocv.ContourArea(testContour), t.masterArea)

	final := shapeWeight*shapeScore + templateWeight*templateScore + areaWeight*areaScore
	return clampRate(final, 0, 100), nil
}

// Process сравнивает тестовый кадр с эталоном и выносит вердикт.
func (t *OutlineTool) Process(test gocv.Mat, roi entity.ROI) (entity.ToolResult, error) {
	return t.run(test, roi, t.CalculateMatchingRate)
}

// Close освобождает карту границ эталона.
func (t *OutlineTool) Close() {
	if t.configured {
		t.masterEdges.Close()
	}
}

// templateScore считает нормированную кросс-корреляцию карт границ,
// при несовпадении размеров тестовая карта приводится к размеру эталонной.
func (t *OutlineTool) templateScore(testEdges gocv.Mat) float64 {
	edges := testEdges
	if edges.Cols() != t.masterEdges.Cols() || edges.Rows() != t.masterEdges.Rows() {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(testEdges, &resized, image.Pt(t.masterEdges.Cols(), t.masterEdges.Rows()),
			0, 0, gocv.InterpolationLinear)
		edges = resized
	}

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.MatchTemplate(edges, t.masterEdges, &result, gocv.TmCcorrNormed, mask)

	_, maxVal, _, _ := gocv.MinMaxLoc(result)
	return float64(maxVal) * 100
}

// areaSimilarity отношение меньшей площади к большей в процентах.
func areaSimilarity(a, b float64) float64 {
	lo := math.Min(a, b)
	hi := math.Max(a, b)
	if hi == 0 {
		return 100
	}
	return lo / hi * 100
}

// huScore переводит расстояние Ху в оценку 0-100 кусочной кривой.
// Точки излома подобраны эмпирически, настройки порогов в развёрнутых
// программах зависят от этого отображения.
func huScore(distance float64) float64 {
	switch {
	case distance < 0.001:
		return 100
	case distance < 0.01:
		return 100 - distance*1000
	case distance < 0.1:
		return 90 - distance*100
	default:
		return math.Max(0, 100-distance*100)
	}
}

// huDistance расстояние между наборами инвариантов Ху в логарифмической
// шкале (метрика I1). Почти нулевые инварианты пропускаются.
func huDistance(a, b [7]float64) float64 {
	const eps = 1e-5
	sum := 0.0
	for i := 0; i < 7; i++ {
		ma := math.Abs(a[i])
		mb := math.Abs(b[i])
		if ma <= eps || mb <= eps {
			continue
		}
		la := math.Copysign(math.Log10(ma), a[i])
		lb := math.Copysign(math.Log10(mb), b[i])
		sum += math.Abs(1/la - 1/lb)
	}
	return sum
}

// contourHuMoments считает семь инвариантов Ху области внутри контура.
func contourHuMoments(contour gocv.PointVector, width, height int) [7]float64 {
	mask := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC1)
	defer mask.Close()

	pts := gocv.NewPointsVectorFromPoints([][]image.Point{contour.ToPoints()})
	defer pts.Close()
	gocv.DrawContours(&mask, pts, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	m := gocv.Moments(mask, true)
	return huFromMoments(m)
}

// huFromMoments вычисляет инварианты Ху из нормированных центральных моментов.
func huFromMoments(m map[string]float64) [7]float64 {
	nu20 := m["nu20"]
	nu11 := m["nu11"]
	nu02 := m["nu02"]
	nu30 := m["nu30"]
	nu21 := m["nu21"]
	nu12 := m["nu12"]
	nu03 := m["nu03"]

	p := nu30 + nu12
	q := nu21 + nu03
	r := nu30 - 3*nu12
	s := 3*nu21 - nu03

	var hu [7]float64
	hu[0] = nu20 + nu02
	hu[1] = (nu20-nu02)*(nu20-nu02) + 4*nu11*nu11
	hu[2] = r*r + s*s
	hu[3] = p*p + q*q
	hu[4] = r*p*(p*p-3*q*q) + s*q*(3*p*p-q*q)
	hu[5] = (nu20-nu02)*(p*p-q*q) + 4*nu11*p*q
	hu[6] = s*p*(p*p-3*q*q) - r*q*(3*p*p-q*q)
	return hu
}
