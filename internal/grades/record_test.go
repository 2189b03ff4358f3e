package grades

import (
	"errors"
	"math"
	"testing"

	"github.com/Spok95/school-gradebook/internal/models"
)

func newRec() *models.CourseGradeRecord {
	return &models.CourseGradeRecord{ID: 1, CourseID: 10, StudentID: 20}
}

func ptrFloat64(v float64) *float64 { return &v }

func TestAddItem_RecomputesBeforeReturn(t *testing.T) {
	rec := newRec()
	if rec.Graded() {
		t.Fatal("новая запись должна быть UNGRADED")
	}

	if err := AddItem(rec, models.GradeItemInput{Name: "Тест 1", EarnedPoints: 45, MaxPoints: ptrFloat64(50)}); err != nil {
		t.Fatal(err)
	}
	if !rec.Graded() || *rec.OverallGrade != 90.0 || *rec.LetterGrade != "A" {
		t.Fatalf("ожидали 90.0/A, получили %v/%v", rec.OverallGrade, rec.LetterGrade)
	}

	// Инвариант: снимок всегда согласован с пересчётом по текущим работам.
	snap := Snapshot(rec)
	agg := ComputeOverall(snap.GradeItems)
	if *snap.OverallGrade != *agg.Overall {
		t.Fatalf("итог в снимке устарел: %v != %v", *snap.OverallGrade, *agg.Overall)
	}
}

func TestAddItem_Defaults(t *testing.T) {
	rec := newRec()
	if err := AddItem(rec, models.GradeItemInput{Name: "Квиз", EarnedPoints: 80}); err != nil {
		t.Fatal(err)
	}
	it := rec.Items[0]
	if it.MaxPoints != 100 || it.Weight != 1 {
		t.Fatalf("ожидали дефолты max=100 weight=1, получили %v/%v", it.MaxPoints, it.Weight)
	}
	if it.RecordedAt.IsZero() {
		t.Fatal("recorded_at должен проставляться")
	}
	if *rec.OverallGrade != 80.0 || *rec.LetterGrade != "B" {
		t.Fatalf("ожидали 80.0/B, получили %v/%v", *rec.OverallGrade, *rec.LetterGrade)
	}
}

func TestAddItem_Validation(t *testing.T) {
	rec := newRec()
	var verr *ValidationError

	err := AddItem(rec, models.GradeItemInput{Name: "   ", EarnedPoints: 10})
	if !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("ожидали ValidationError по name, получили %v", err)
	}

	err = AddItem(rec, models.GradeItemInput{Name: "Тест", EarnedPoints: math.NaN()})
	if !errors.As(err, &verr) || verr.Field != "earnedPoints" {
		t.Fatalf("ожидали ValidationError по earnedPoints, получили %v", err)
	}

	err = AddItem(rec, models.GradeItemInput{Name: "Тест", EarnedPoints: 10, MaxPoints: ptrFloat64(math.Inf(1))})
	if !errors.As(err, &verr) || verr.Field != "maxPoints" {
		t.Fatalf("ожидали ValidationError по maxPoints, получили %v", err)
	}

	err = AddItem(rec, models.GradeItemInput{Name: "Тест", EarnedPoints: 10, Weight: ptrFloat64(math.NaN())})
	if !errors.As(err, &verr) || verr.Field != "weight" {
		t.Fatalf("ожидали ValidationError по weight, получили %v", err)
	}

	if len(rec.Items) != 0 {
		t.Fatal("некорректный элемент не должен попадать в запись")
	}
}

func TestRemoveItem_LastItemUngrades(t *testing.T) {
	rec := newRec()
	if err := AddItem(rec, models.GradeItemInput{Name: "Тест", EarnedPoints: 90}); err != nil {
		t.Fatal(err)
	}
	rec.Items[0].ID = 7

	if err := RemoveItem(rec, 7); err != nil {
		t.Fatal(err)
	}
	if rec.Graded() || rec.LetterGrade != nil {
		t.Fatalf("после удаления последней работы ожидали UNGRADED, получили %v/%v", rec.OverallGrade, rec.LetterGrade)
	}
	if len(rec.Items) != 0 {
		t.Fatal("список работ должен быть пуст")
	}
}

func TestRemoveItem_Unknown(t *testing.T) {
	rec := newRec()
	if err := RemoveItem(rec, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидали ErrNotFound, получили %v", err)
	}
}

func TestReplaceItems_AllOrNothing(t *testing.T) {
	rec := newRec()
	if err := AddItem(rec, models.GradeItemInput{Name: "Старая", EarnedPoints: 50}); err != nil {
		t.Fatal(err)
	}
	before := *rec.OverallGrade

	// Один некорректный элемент отклоняет весь батч, запись не меняется.
	err := ReplaceItems(rec, []models.GradeItemInput{
		{Name: "Новая", EarnedPoints: 90},
		{Name: "", EarnedPoints: 10},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ожидали ValidationError, получили %v", err)
	}
	if len(rec.Items) != 1 || *rec.OverallGrade != before {
		t.Fatal("запись изменилась при отклонённом батче")
	}

	// Корректный батч заменяет всё и пересчитывает итог.
	if err := ReplaceItems(rec, []models.GradeItemInput{
		{Name: "Квиз 1", EarnedPoints: 90},
		{Name: "Квиз 2", EarnedPoints: 80},
	}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Items) != 2 || *rec.OverallGrade != 85.0 || *rec.LetterGrade != "B" {
		t.Fatalf("ожидали 2 работы и 85.0/B, получили %d и %v/%v", len(rec.Items), rec.OverallGrade, rec.LetterGrade)
	}
}

func TestReplaceItems_EmptyUngrades(t *testing.T) {
	rec := newRec()
	if err := AddItem(rec, models.GradeItemInput{Name: "Тест", EarnedPoints: 70}); err != nil {
		t.Fatal(err)
	}
	if err := ReplaceItems(rec, nil); err != nil {
		t.Fatal(err)
	}
	if rec.Graded() {
		t.Fatal("после замены на пустой список запись должна стать UNGRADED")
	}
}

func TestSetComments_NoRecompute(t *testing.T) {
	rec := newRec()
	if err := AddItem(rec, models.GradeItemInput{Name: "Тест", EarnedPoints: 95}); err != nil {
		t.Fatal(err)
	}
	before := *rec.OverallGrade

	SetComments(rec, "Отличная работа")
	if rec.Comments == nil || *rec.Comments != "Отличная работа" {
		t.Fatalf("комментарий не сохранился: %v", rec.Comments)
	}
	if *rec.OverallGrade != before {
		t.Fatal("комментарий не должен влиять на итог")
	}

	SetComments(rec, "")
	if rec.Comments != nil {
		t.Fatal("пустой комментарий должен обнулять поле")
	}
}

func TestSnapshot_CopyIsolated(t *testing.T) {
	rec := newRec()
	if err := AddItem(rec, models.GradeItemInput{Name: "Тест", EarnedPoints: 60}); err != nil {
		t.Fatal(err)
	}
	snap := Snapshot(rec)
	snap.GradeItems[0].EarnedPoints = 0
	if rec.Items[0].EarnedPoints != 60 {
		t.Fatal("изменение снимка не должно трогать запись")
	}
}
