package grades

import (
	"math"

	"github.com/Spok95/school-gradebook/internal/models"
)

// Aggregate — вычисленный итог по записи.
// Overall == nil, когда работ нет или сумма max_points <= 0 (защита от деления на ноль).
type Aggregate struct {
	Overall *float64
	Letter  *string
}

// ComputeOverall считает итоговый процент и буквенную оценку по списку работ.
// Чистая функция: сумма earned / сумма max * 100, округление до сотых.
// Weight намеренно не участвует (поведение исходной формулы).
// Баллы не ограничиваются диапазоном [0, max], поэтому итог может выйти за [0, 100].
func ComputeOverall(items []models.GradeItem) Aggregate {
	if len(items) == 0 {
		return Aggregate{}
	}

	var earned, possible float64
	for _, it := range items {
		earned += it.EarnedPoints
		possible += it.MaxPoints
	}
	if possible <= 0 {
		return Aggregate{}
	}

	overall := round2(earned / possible * 100)
	letter := LetterFor(overall)
	return Aggregate{Overall: &overall, Letter: &letter}
}

// round2 округляет до сотых; ровно половина уходит в сторону +∞ и для отрицательных итогов.
func round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// LetterFor — пороги включительны по нижней границе: 90.0 это уже "A", 89.99 ещё "B".
func LetterFor(overall float64) string {
	switch {
	case overall >= 90:
		return "A"
	case overall >= 80:
		return "B"
	case overall >= 70:
		return "C"
	case overall >= 60:
		return "D"
	default:
		return "F"
	}
}

// Equal — сравнение вычисленного итога с сохранённым (для пропуска лишних записей в пересчёте).
func (a Aggregate) Equal(overall *float64, letter *string) bool {
	if (a.Overall == nil) != (overall == nil) || (a.Letter == nil) != (letter == nil) {
		return false
	}
	if a.Overall != nil && *a.Overall != *overall {
		return false
	}
	if a.Letter != nil && *a.Letter != *letter {
		return false
	}
	return true
}
