package models

import "time"

// Subject represents a taught subject.
type Subject struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SubjectAssignment links one class, one subject and one teacher. It is the
// authorization unit: this teacher may teach this subject to this class.
type SubjectAssignment struct {
	ID        int64 `db:"id" json:"id"`
	SubjectID int64 `db:"subject_id" json:"subjectId"`
	ClassID   int64 `db:"class_id" json:"classId"`
	TeacherID int64 `db:"teacher_id" json:"teacherId"`
}

// SubjectOption is the minimal subject projection for pickers.
type SubjectOption struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// AssignmentRef is the (class, teacher) pair supplied when editing a subject.
type AssignmentRef struct {
	ClassID   int64 `db:"class_id" json:"classId" validate:"required"`
	TeacherID int64 `db:"teacher_id" json:"teacherId" validate:"required"`
}

// SubjectRow is the paged subject projection with rendered assignment labels.
type SubjectRow struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
	Assignments []string  `db:"-" json:"assignments"`
}

// SubjectRequest is the payload for creating or replacing a subject together
// with its full assignment set.
type SubjectRequest struct {
	Name        string          `json:"name" validate:"required"`
	Assignments []AssignmentRef `json:"assignments" validate:"dive"`
}

// SubjectDetail extends Subject with its assignment references.
type SubjectDetail struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Assignments []AssignmentRef `json:"assignments"`
}

// AssignmentRow is the joined class_subjects projection used for labels and
// per-class groupings.
type AssignmentRow struct {
	SubjectID        int64  `db:"subject_id"`
	SubjectName      string `db:"subject_name"`
	ClassID          int64  `db:"class_id"`
	ClassName        string `db:"class_name"`
	TeacherID        int64  `db:"teacher_id"`
	TeacherFirstName string `db:"teacher_first_name"`
	TeacherLastName  string `db:"teacher_last_name"`
}

// SubjectWithClass is a distinct (subject, class) pair a teacher is assigned
// to.
type SubjectWithClass struct {
	SubjectID   int64  `db:"subject_id" json:"subjectId"`
	SubjectName string `db:"subject_name" json:"subjectName"`
	ClassID     int64  `db:"class_id" json:"classId"`
	ClassName   string `db:"class_name" json:"className"`
}

// SubjectWithTeachers groups a class's assignments by subject with the
// distinct teachers assigned to it.
type SubjectWithTeachers struct {
	SubjectID   int64         `json:"subjectId"`
	SubjectName string        `json:"subjectName"`
	Teachers    []TeacherInfo `json:"teachers"`
}
