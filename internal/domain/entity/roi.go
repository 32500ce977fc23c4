package entity

// ROI задаёт прямоугольную область интереса инструмента в координатах полного кадра.
type ROI struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Valid проверяет, что область имеет положительные размеры.
func (r ROI) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Translate возвращает копию области, сдвинутую на (dx, dy).
func (r ROI) Translate(dx, dy int) ROI {
	return ROI{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Center возвращает центр области в координатах полного кадра.
func (r ROI) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// ClampTo обрезает область по границам изображения imgW x imgH.
func (r ROI) ClampTo(imgW, imgH int) ROI {
	x := max(0, min(r.X, imgW-1))
	y := max(0, min(r.Y, imgH-1))
	w := min(r.Width, imgW-x)
	h := min(r.Height, imgH-y)
	return ROI{X: x, Y: y, Width: w, Height: h}
}
