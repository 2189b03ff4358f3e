package models

import "time"

// GradeItem — одна оценённая работа (контрольная, тест, домашка) в журнале.
type GradeItem struct {
	ID           int64     `db:"id" json:"id"`
	RecordID     int64     `db:"record_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	EarnedPoints float64   `db:"earned_points" json:"earnedPoints"`
	MaxPoints    float64   `db:"max_points" json:"maxPoints"`
	Weight       float64   `db:"weight" json:"weight"` // хранится и отдаётся наружу, но в формуле итога не участвует
	Notes        *string   `db:"notes" json:"notes"`
	RecordedAt   time.Time `db:"recorded_at" json:"recordedAt"`
}

// GradeItemInput — входные данные при добавлении/замене работы.
// nil-поля получают значения по умолчанию (MaxPoints=100, Weight=1, RecordedAt=now).
type GradeItemInput struct {
	Name         string
	EarnedPoints float64
	MaxPoints    *float64
	Weight       *float64
	Notes        *string
	RecordedAt   *time.Time
}

// CourseGradeRecord — журнал одного ученика по одному курсу.
// Пара (CourseID, StudentID) уникальна: не больше одной записи на ученика в курсе.
type CourseGradeRecord struct {
	ID           int64      `db:"id"`
	CourseID     int64      `db:"course_id"`
	StudentID    int64      `db:"student_id"`
	Items        []GradeItem
	OverallGrade *float64 `db:"overall_grade"`
	LetterGrade  *string  `db:"letter_grade"`
	Comments     *string  `db:"comments"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Graded — запись считается оценённой, когда итог вычислен (есть работы с max_points > 0).
func (r *CourseGradeRecord) Graded() bool { return r.OverallGrade != nil }

// GradeSnapshot — read-only срез записи для выдачи наружу (HTTP-слой сериализует его в JSON).
type GradeSnapshot struct {
	GradeItems   []GradeItem `json:"gradeItems"`
	OverallGrade *float64    `json:"overallGrade"`
	LetterGrade  *string     `json:"letterGrade"`
	Comments     *string     `json:"comments"`
}
