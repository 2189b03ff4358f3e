package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/school-gradebook/internal/models"
)

// GenerateCourseGradeSheet собирает выгрузку журнала одного курса:
// лист "Сводка" — по записи на ученика, лист "Работы" — построчная разбивка.
// Даты работ форматируются в часовом поясе loc (nil → локальный).
// Возвращает путь к сохранённому файлу во временной директории.
func GenerateCourseGradeSheet(records []models.CourseGradeRecord, courseTitle string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	f := excelize.NewFile()

	summary := "Сводка"
	f.SetSheetName("Sheet1", summary)
	if _, err := f.NewSheet("Работы"); err != nil {
		return "", err
	}

	headers := []string{"Ученик (ID)", "Работ", "Итог %", "Оценка", "Комментарий"}
	for i, h := range headers {
		_ = f.SetCellValue(summary, fmt.Sprintf("%s1", colName(i+1)), h)
	}
	for i, rec := range records {
		row := i + 2
		_ = f.SetCellValue(summary, fmt.Sprintf("A%d", row), rec.StudentID)
		_ = f.SetCellValue(summary, fmt.Sprintf("B%d", row), len(rec.Items))
		if rec.OverallGrade != nil {
			_ = f.SetCellValue(summary, fmt.Sprintf("C%d", row), *rec.OverallGrade)
		} else {
			_ = f.SetCellValue(summary, fmt.Sprintf("C%d", row), "—")
		}
		if rec.LetterGrade != nil {
			_ = f.SetCellValue(summary, fmt.Sprintf("D%d", row), *rec.LetterGrade)
		} else {
			_ = f.SetCellValue(summary, fmt.Sprintf("D%d", row), "—")
		}
		if rec.Comments != nil {
			_ = f.SetCellValue(summary, fmt.Sprintf("E%d", row), *rec.Comments)
		}
	}

	itemHeaders := []string{"Ученик (ID)", "Работа", "Баллы", "Макс", "Вес", "Дата", "Заметки"}
	for i, h := range itemHeaders {
		_ = f.SetCellValue("Работы", fmt.Sprintf("%s1", colName(i+1)), h)
	}
	row := 2
	for _, rec := range records {
		for _, it := range rec.Items {
			_ = f.SetCellValue("Работы", fmt.Sprintf("A%d", row), rec.StudentID)
			_ = f.SetCellValue("Работы", fmt.Sprintf("B%d", row), it.Name)
			_ = f.SetCellValue("Работы", fmt.Sprintf("C%d", row), it.EarnedPoints)
			_ = f.SetCellValue("Работы", fmt.Sprintf("D%d", row), it.MaxPoints)
			_ = f.SetCellValue("Работы", fmt.Sprintf("E%d", row), it.Weight)
			_ = f.SetCellValue("Работы", fmt.Sprintf("F%d", row), it.RecordedAt.In(loc).Format("02.01.2006 15:04"))
			if it.Notes != nil {
				_ = f.SetCellValue("Работы", fmt.Sprintf("G%d", row), *it.Notes)
			}
			row++
		}
	}

	if err := ApplyDefaultExcelFormatting(f, summary); err != nil {
		return "", err
	}
	if err := ApplyDefaultExcelFormatting(f, "Работы"); err != nil {
		return "", err
	}

	path := filepath.Join(os.TempDir(), BuildCourseReportFilename(courseTitle))
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
