package entity

// QualityReport метрики качества одного кадра.
type QualityReport struct {
	Brightness float64 // средняя яркость, 0-255
	Sharpness  float64 // дисперсия лапласиана
	Exposure   float64 // оценка экспозиции, 0-100
	Score      float64 // взвешенная итоговая оценка, 0-100
}

// ConsistencyReport сравнение качества эталона и снятого кадра.
// Носит рекомендательный характер и никогда не прерывает цикл.
type ConsistencyReport struct {
	Consistent     bool
	Issues         []string // существенные расхождения
	Warnings       []string // умеренные расхождения
	Recommendation string
}
