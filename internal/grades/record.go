package grades

import (
	"math"
	"strings"
	"time"

	"github.com/Spok95/school-gradebook/internal/models"
)

const (
	DefaultMaxPoints = 100
	DefaultWeight    = 1
)

// ValidateItem проверяет входные данные работы: имя непустое, баллы конечные.
// NaN/Inf считаем ошибкой вызывающего, а не особым случаем формулы.
func ValidateItem(in models.GradeItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if math.IsNaN(in.EarnedPoints) || math.IsInf(in.EarnedPoints, 0) {
		return &ValidationError{Field: "earnedPoints", Reason: "must be a finite number"}
	}
	if in.MaxPoints != nil && (math.IsNaN(*in.MaxPoints) || math.IsInf(*in.MaxPoints, 0)) {
		return &ValidationError{Field: "maxPoints", Reason: "must be a finite number"}
	}
	if in.Weight != nil && (math.IsNaN(*in.Weight) || math.IsInf(*in.Weight, 0)) {
		return &ValidationError{Field: "weight", Reason: "must be a finite number"}
	}
	return nil
}

// NormalizeItem раскрывает значения по умолчанию (max=100, weight=1, recorded_at=now).
func NormalizeItem(in models.GradeItemInput, now time.Time) models.GradeItem {
	it := models.GradeItem{
		Name:         in.Name,
		EarnedPoints: in.EarnedPoints,
		MaxPoints:    DefaultMaxPoints,
		Weight:       DefaultWeight,
		Notes:        in.Notes,
		RecordedAt:   now,
	}
	if in.MaxPoints != nil {
		it.MaxPoints = *in.MaxPoints
	}
	if in.Weight != nil {
		it.Weight = *in.Weight
	}
	if in.RecordedAt != nil {
		it.RecordedAt = *in.RecordedAt
	}
	return it
}

// Recalculate пересчитывает итог по текущему списку работ.
// Возвращает true, если сохранённый итог изменился.
func Recalculate(rec *models.CourseGradeRecord) bool {
	agg := ComputeOverall(rec.Items)
	changed := !agg.Equal(rec.OverallGrade, rec.LetterGrade)
	rec.OverallGrade = agg.Overall
	rec.LetterGrade = agg.Letter
	return changed
}

// AddItem валидирует и добавляет работу в конец списка, затем пересчитывает итог.
// Запись никогда не возвращается с устаревшим итогом.
func AddItem(rec *models.CourseGradeRecord, in models.GradeItemInput) error {
	if err := ValidateItem(in); err != nil {
		return err
	}
	it := NormalizeItem(in, time.Now())
	it.RecordID = rec.ID
	rec.Items = append(rec.Items, it)
	Recalculate(rec)
	return nil
}

// RemoveItem удаляет работу по id. Удаление последней работы обнуляет итог,
// но сама запись остаётся (UNGRADED, не удалена).
func RemoveItem(rec *models.CourseGradeRecord, itemID int64) error {
	idx := -1
	for i, it := range rec.Items {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	rec.Items = append(rec.Items[:idx], rec.Items[idx+1:]...)
	Recalculate(rec)
	return nil
}

// ReplaceItems — полная замена списка (сценарий "сохранить всю ведомость").
// Сначала валидируются все элементы: один некорректный отклоняет весь батч,
// запись остаётся нетронутой.
func ReplaceItems(rec *models.CourseGradeRecord, ins []models.GradeItemInput) error {
	for _, in := range ins {
		if err := ValidateItem(in); err != nil {
			return err
		}
	}
	now := time.Now()
	items := make([]models.GradeItem, 0, len(ins))
	for _, in := range ins {
		it := NormalizeItem(in, now)
		it.RecordID = rec.ID
		items = append(items, it)
	}
	rec.Items = items
	Recalculate(rec)
	return nil
}

// SetComments меняет комментарий; итог не трогаем — пересчёт не нужен.
func SetComments(rec *models.CourseGradeRecord, text string) {
	if text == "" {
		rec.Comments = nil
		return
	}
	rec.Comments = &text
}

// Snapshot — read-only срез записи; список работ копируется,
// чтобы вызывающий не мог изменить запись в обход мутаций.
func Snapshot(rec *models.CourseGradeRecord) models.GradeSnapshot {
	items := make([]models.GradeItem, len(rec.Items))
	copy(items, rec.Items)
	return models.GradeSnapshot{
		GradeItems:   items,
		OverallGrade: rec.OverallGrade,
		LetterGrade:  rec.LetterGrade,
		Comments:     rec.Comments,
	}
}
