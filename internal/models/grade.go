package models

import "time"

// Grade is one recorded mark. Values follow the 1-6 convention.
type Grade struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"studentId"`
	SubjectID int64     `db:"subject_id" json:"subjectId"`
	TeacherID int64     `db:"teacher_id" json:"teacherId"`
	Value     int       `db:"value" json:"value"`
	Comment   *string   `db:"comment" json:"comment,omitempty"`
	Date      time.Time `db:"date" json:"date"`
}

// GradeRow is the denormalized paged grade projection. ClassName resolves to a
// placeholder when the student has no class.
type GradeRow struct {
	TeacherName string    `db:"teacher_name" json:"teacherName,omitempty"`
	StudentName string    `db:"student_name" json:"studentName,omitempty"`
	ClassName   string    `db:"class_name" json:"className"`
	SubjectName string    `db:"subject_name" json:"subjectName"`
	Value       int       `db:"value" json:"value"`
	Comment     string    `db:"comment" json:"comment"`
	Date        time.Time `db:"date" json:"date"`
}

// AddGradeRequest is the teacher payload for recording a mark. Date defaults
// to the current day when absent.
type AddGradeRequest struct {
	StudentID int64      `json:"studentId" validate:"required"`
	SubjectID int64      `json:"subjectId" validate:"required"`
	Value     int        `json:"value" validate:"required,min=1,max=6"`
	Comment   *string    `json:"comment,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
}

// GradeCreated is the projection returned after recording a grade.
type GradeCreated struct {
	StudentName string    `json:"studentName"`
	SubjectName string    `json:"subjectName"`
	Value       int       `json:"value"`
	Comment     string    `json:"comment"`
	Date        time.Time `json:"date"`
}
