package entity

// Status итог проверки: годен или брак.
type Status string

const (
	StatusOK Status = "OK"
	StatusNG Status = "NG"
)

// PositionOffset смещение детали относительно ожидаемой позиции.
type PositionOffset struct {
	DX         int     // сдвиг по X в пикселях
	DY         int     // сдвиг по Y в пикселях
	Confidence float64 // пик корреляции x100
}

// Zero сообщает, что смещение нулевое.
func (o PositionOffset) Zero() bool {
	return o.DX == 0 && o.DY == 0
}

// ToolResult результат одного инструмента за цикл.
type ToolResult struct {
	Variant      ToolVariant
	Name         string
	Status       Status
	MatchingRate float64
	Threshold    float64
	UpperLimit   *float64
	Offset       *PositionOffset // только для инструмента позиционирования
	Err          string          // текст ошибки при деградации в NG
}

// OK сообщает, что инструмент прошёл проверку.
func (r ToolResult) OK() bool {
	return r.Status == StatusOK
}

// Aggregate сводит результаты инструментов в общий статус.
// OK только если список непуст и каждый результат OK.
func Aggregate(results []ToolResult) Status {
	if len(results) == 0 {
		return StatusNG
	}
	for _, r := range results {
		if !r.OK() {
			return StatusNG
		}
	}
	return StatusOK
}
