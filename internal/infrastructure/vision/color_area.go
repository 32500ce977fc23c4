package vision

import (
	"gocv.io/x/gocv"

	"vision-inspect/internal/domain/entity"
)

// Допуски цветового окна в пространстве HSV.
const (
	defaultHueTolerance = 15
	satTolerance        = 40
	valTolerance        = 40
)

// ColorAreaTool сравнивает долю пикселей эталонного цвета в пространстве HSV.
// Эталонный цвет берётся как медиана HSV по точкам выборки либо по всей области.
type ColorAreaTool struct {
	baseTool
	samples      []entity.Point
	hueTolerance int

	targetHSV   [3]uint8
	lower       gocv.Scalar
	upper       gocv.Scalar
	masterCount int
}

// NewColorAreaTool создаёт инструмент сравнения цветовой площади.
func NewColorAreaTool(cfg entity.ToolConfig) *ColorAreaTool {
	t := &ColorAreaTool{
		baseTool:     newBase(cfg),
		samples:      cfg.ColorSamples,
		hueTolerance: defaultHueTolerance,
	}
	if cfg.ColorTolerance > 0 {
		t.hueTolerance = cfg.ColorTolerance
	}
	return t
}

// ExtractMasterFeatures определяет целевой цвет и считает эталонную площадь маски.
func (t *ColorAreaTool) ExtractMasterFeatures(master gocv.Mat) error {
	region, err := extractROI(master, t.roi)
	if err != nil {
		return err
	}
	defer region.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(region, &hsv, gocv.ColorBGRToHSV)

	t.targetHSV = t.pickTargetColor(hsv)
	t.lower, t.upper = colorWindow(t.targetHSV, t.hueTolerance)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, t.lower, t.upper, &mask)

	t.masterCount = gocv.CountNonZero(mask)
	t.configured = true
	return nil
}

// pickTargetColor берёт медиану HSV по точкам выборки, при их отсутствии
// или непопадании в область — помедианно по всей области.
func (t *ColorAreaTool) pickTargetColor(hsv gocv.Mat) [3]uint8 {
	if len(t.samples) > 0 {
		var h, s, v []uint8
		for _, p := range t.samples {
			// Координаты выборки заданы в полном кадре.
			col := p.X - t.roi.X
			row := p.Y - t.roi.Y
			if col < 0 || col >= hsv.Cols() || row < 0 || row >= hsv.Rows() {
				continue
			}
			vec := hsv.GetVecbAt(row, col)
			h = append(h, vec[0])
			s = append(s, vec[1])
			v = append(v, vec[2])
		}
		if len(h) > 0 {
			return [3]uint8{medianUint8(h), medianUint8(s), medianUint8(v)}
		}
	}
	return medianChannels(hsv)
}

// CalculateMatchingRate возвращает отношение цветовых площадей, 0-200.
func (t *ColorAreaTool) CalculateMatchingRate(test gocv.Mat, roi entity.ROI) (float64, error) {
	if t.masterCount == 0 {
		return 0, nil
	}

	region, err := extractROI(test, roi)
	if err != nil {
		return 0, err
	}
	defer region.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(region, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv, t.lower, t.upper, &mask)

	return ratioCapped(gocv.CountNonZero(mask), t.masterCount), nil
}

// Process сравнивает тестовый кадр с эталоном и выносит вердикт.
func (t *ColorAreaTool) Process(test gocv.Mat, roi entity.ROI) (entity.ToolResult, error) {
	return t.run(test, roi, t.CalculateMatchingRate)
}

// TargetHSV возвращает определённый эталонный цвет.
func (t *ColorAreaTool) TargetHSV() [3]uint8 {
	return t.targetHSV
}

// Close освобождает ресурсы инструмента.
func (t *ColorAreaTool) Close() {}

// colorWindow строит окно допуска вокруг цвета. Каналы независимо
// ограничиваются своими пределами: тон 0-179, насыщенность и яркость 0-255.
func colorWindow(target [3]uint8, hueTolerance int) (lower, upper gocv.Scalar) {
	h := int(target[0])
	s := int(target[1])
	v := int(target[2])

	lower = gocv.NewScalar(
		float64(max(0, h-hueTolerance)),
		float64(max(0, s-satTolerance)),
		float64(max(0, v-valTolerance)),
		0,
	)
	upper = gocv.NewScalar(
		float64(min(179, h+hueTolerance)),
		float64(min(255, s+satTolerance)),
		float64(min(255, v+valTolerance)),
		0,
	)
	return lower, upper
}

// medianChannels считает помедианное значение каждого канала HSV-области.
func medianChannels(hsv gocv.Mat) [3]uint8 {
	var hist [3][256]int
	for row := 0; row < hsv.Rows(); row++ {
		for col := 0; col < hsv.Cols(); col++ {
			vec := hsv.GetVecbAt(row, col)
			hist[0][vec[0]]++
			hist[1][vec[1]]++
			hist[2][vec[2]]++
		}
	}

	total := hsv.Rows() * hsv.Cols()
	var out [3]uint8
	for ch := 0; ch < 3; ch++ {
		out[ch] = medianOfHist(hist[ch][:], total)
	}
	return out
}

func medianOfHist(hist []int, total int) uint8 {
	half := (total + 1) / 2
	seen := 0
	for v, n := range hist {
		seen += n
		if seen >= half {
			return uint8(v)
		}
	}
	return 0
}

func medianUint8(values []uint8) uint8 {
	var hist [256]int
	for _, v := range values {
		hist[v]++
	}
	return medianOfHist(hist[:], len(values))
}
