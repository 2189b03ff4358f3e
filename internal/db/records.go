package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Spok95/school-gradebook/internal/grades"
	"github.com/Spok95/school-gradebook/internal/metrics"
	"github.com/Spok95/school-gradebook/internal/models"
)

type dbtx interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateRecord создаёт пустую запись журнала для пары (курс, ученик).
// Уникальность пары обеспечивает констрейнт; конфликт → ErrDuplicateRecord.
func CreateRecord(ctx context.Context, database *sql.DB, courseID, studentID int64) (*models.CourseGradeRecord, error) {
	row := database.QueryRowContext(ctx, `
		INSERT INTO course_grades (course_id, student_id)
		VALUES ($1, $2)
		ON CONFLICT (course_id, student_id) DO NOTHING
		RETURNING id, created_at, updated_at
	`, courseID, studentID)

	rec := &models.CourseGradeRecord{CourseID: courseID, StudentID: studentID}
	if err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, grades.ErrDuplicateRecord
		}
		metrics.StoreErrors.Inc()
		return nil, err
	}
	metrics.Mutations.WithLabelValues("create_record").Inc()
	return rec, nil
}

// GetRecord загружает запись с работами в порядке добавления.
func GetRecord(ctx context.Context, database *sql.DB, courseID, studentID int64) (*models.CourseGradeRecord, error) {
	rec, err := scanRecord(database.QueryRowContext(ctx, `
		SELECT id, course_id, student_id, overall_grade, letter_grade, comments, created_at, updated_at
		FROM course_grades
		WHERE course_id = $1 AND student_id = $2
	`, courseID, studentID))
	if err != nil {
		return nil, err
	}
	rec.Items, err = loadItems(ctx, database, rec.ID)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListRecordsByCourse — все записи курса с работами (для выгрузки ведомости).
func ListRecordsByCourse(ctx context.Context, database *sql.DB, courseID int64) ([]models.CourseGradeRecord, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, course_id, student_id, overall_grade, letter_grade, comments, created_at, updated_at
		FROM course_grades
		WHERE course_id = $1
		ORDER BY student_id
	`, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []models.CourseGradeRecord
	for rows.Next() {
		var rec models.CourseGradeRecord
		var overall sql.NullFloat64
		var letter, comments sql.NullString
		if err := rows.Scan(&rec.ID, &rec.CourseID, &rec.StudentID, &overall, &letter, &comments, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if overall.Valid {
			rec.OverallGrade = &overall.Float64
		}
		if letter.Valid {
			rec.LetterGrade = &letter.String
		}
		if comments.Valid {
			rec.Comments = &comments.String
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].Items, err = loadItems(ctx, database, recs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return recs, nil
}

// ListRecordIDs — все id записей (для пересчёта).
func ListRecordIDs(ctx context.Context, database *sql.DB) ([]int64, error) {
	rows, err := database.QueryContext(ctx, `SELECT id FROM course_grades ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteRecord удаляет запись целиком (административное действие).
// Работы уходят каскадом.
func DeleteRecord(ctx context.Context, database *sql.DB, recordID int64) error {
	res, err := database.ExecContext(ctx, `DELETE FROM course_grades WHERE id = $1`, recordID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return grades.ErrNotFound
	}
	metrics.Mutations.WithLabelValues("delete_record").Inc()
	return nil
}

// AddItem добавляет работу и пишет пересчитанный итог в той же транзакции.
// Блокировка строки записи (FOR UPDATE) сериализует конкурентные правки:
// снаружи не видно состояния, где итог отстаёт от списка работ.
func AddItem(ctx context.Context, database *sql.DB, courseID, studentID int64, in models.GradeItemInput) (*models.CourseGradeRecord, error) {
	return mutateRecord(ctx, database, "add_item", courseID, studentID, func(tx *sql.Tx, rec *models.CourseGradeRecord) error {
		if err := grades.AddItem(rec, in); err != nil {
			return err
		}
		it := &rec.Items[len(rec.Items)-1]
		return tx.QueryRowContext(ctx, `
			INSERT INTO grade_items (record_id, name, earned_points, max_points, weight, notes, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, rec.ID, it.Name, it.EarnedPoints, it.MaxPoints, it.Weight, it.Notes, it.RecordedAt).Scan(&it.ID)
	})
}

// RemoveItem удаляет работу по id. Неизвестный id → ErrNotFound.
// Удаление последней работы оставляет запись с пустым итогом, саму запись не удаляем.
func RemoveItem(ctx context.Context, database *sql.DB, courseID, studentID, itemID int64) (*models.CourseGradeRecord, error) {
	return mutateRecord(ctx, database, "remove_item", courseID, studentID, func(tx *sql.Tx, rec *models.CourseGradeRecord) error {
		if err := grades.RemoveItem(rec, itemID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM grade_items WHERE id = $1 AND record_id = $2`, itemID, rec.ID)
		return err
	})
}

// ReplaceItems — полная замена ведомости. Батч либо применяется целиком,
// либо (при первом же некорректном элементе) отклоняется без изменений.
func ReplaceItems(ctx context.Context, database *sql.DB, courseID, studentID int64, ins []models.GradeItemInput) (*models.CourseGradeRecord, error) {
	return mutateRecord(ctx, database, "replace_items", courseID, studentID, func(tx *sql.Tx, rec *models.CourseGradeRecord) error {
		if err := grades.ReplaceItems(rec, ins); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM grade_items WHERE record_id = $1`, rec.ID); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO grade_items (record_id, name, earned_points, max_points, weight, notes, recorded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for i := range rec.Items {
			it := &rec.Items[i]
			if err := stmt.QueryRowContext(ctx, rec.ID, it.Name, it.EarnedPoints, it.MaxPoints, it.Weight, it.Notes, it.RecordedAt).Scan(&it.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetComments меняет комментарий к записи; итог не пересчитывается.
func SetComments(ctx context.Context, database *sql.DB, courseID, studentID int64, text string) error {
	var comments *string
	if text != "" {
		comments = &text
	}
	res, err := database.ExecContext(ctx, `
		UPDATE course_grades SET comments = $1, updated_at = now()
		WHERE course_id = $2 AND student_id = $3
	`, comments, courseID, studentID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return grades.ErrNotFound
	}
	metrics.Mutations.WithLabelValues("set_comments").Inc()
	return nil
}

// RecalculateRecord пересчитывает итог одной записи по текущим работам.
// Пишет только при расхождении с сохранённым итогом; возвращает, была ли запись.
func RecalculateRecord(ctx context.Context, database *sql.DB, recordID int64) (bool, error) {
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanRecord(tx.QueryRowContext(ctx, `
		SELECT id, course_id, student_id, overall_grade, letter_grade, comments, created_at, updated_at
		FROM course_grades
		WHERE id = $1
		FOR UPDATE
	`, recordID))
	if err != nil {
		return false, err
	}
	rec.Items, err = loadItems(ctx, tx, rec.ID)
	if err != nil {
		return false, err
	}

	changed := grades.Recalculate(rec)
	if changed {
		if _, err := tx.ExecContext(ctx, `
			UPDATE course_grades SET overall_grade = $1, letter_grade = $2, updated_at = now()
			WHERE id = $3
		`, rec.OverallGrade, rec.LetterGrade, rec.ID); err != nil {
			return false, err
		}
	}
	return changed, tx.Commit()
}

// mutateRecord — общий каркас мутаций: транзакция, FOR UPDATE на строке записи,
// доменная мутация + SQL по работам, затем запись итога. Пересчёт происходит
// до коммита — персистится только согласованное состояние.
func mutateRecord(ctx context.Context, database *sql.DB, op string, courseID, studentID int64, fn func(tx *sql.Tx, rec *models.CourseGradeRecord) error) (*models.CourseGradeRecord, error) {
	tx, err := database.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanRecord(tx.QueryRowContext(ctx, `
		SELECT id, course_id, student_id, overall_grade, letter_grade, comments, created_at, updated_at
		FROM course_grades
		WHERE course_id = $1 AND student_id = $2
		FOR UPDATE
	`, courseID, studentID))
	if err != nil {
		return nil, err
	}
	rec.Items, err = loadItems(ctx, tx, rec.ID)
	if err != nil {
		return nil, err
	}

	if err := fn(tx, rec); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE course_grades SET overall_grade = $1, letter_grade = $2, updated_at = now()
		WHERE id = $3
	`, rec.OverallGrade, rec.LetterGrade, rec.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		metrics.StoreErrors.Inc()
		return nil, err
	}
	metrics.Mutations.WithLabelValues(op).Inc()
	return rec, nil
}

func scanRecord(row *sql.Row) (*models.CourseGradeRecord, error) {
	var rec models.CourseGradeRecord
	var overall sql.NullFloat64
	var letter, comments sql.NullString
	err := row.Scan(&rec.ID, &rec.CourseID, &rec.StudentID, &overall, &letter, &comments, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, grades.ErrNotFound
		}
		return nil, err
	}
	if overall.Valid {
		rec.OverallGrade = &overall.Float64
	}
	if letter.Valid {
		rec.LetterGrade = &letter.String
	}
	if comments.Valid {
		rec.Comments = &comments.String
	}
	return &rec, nil
}

func loadItems(ctx context.Context, q dbtx, recordID int64) ([]models.GradeItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, record_id, name, earned_points, max_points, weight, notes, recorded_at
		FROM grade_items
		WHERE record_id = $1
		ORDER BY id
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("load grade items: %w", err)
	}
	defer rows.Close()

	var items []models.GradeItem
	for rows.Next() {
		var it models.GradeItem
		var notes sql.NullString
		if err := rows.Scan(&it.ID, &it.RecordID, &it.Name, &it.EarnedPoints, &it.MaxPoints, &it.Weight, &notes, &it.RecordedAt); err != nil {
			return nil, err
		}
		if notes.Valid {
			it.Notes = &notes.String
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
