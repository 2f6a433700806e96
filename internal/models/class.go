package models

import "time"

// Class represents a school class with an optional homeroom teacher.
type Class struct {
	ID                int64     `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	HomeroomTeacherID *int64    `db:"homeroom_teacher_id" json:"homeroomTeacherId,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// ClassRow is the paged class projection with resolved homeroom teacher name
// and member count.
type ClassRow struct {
	ID                  int64     `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
	HomeroomTeacherName *string   `db:"homeroom_teacher_name" json:"homeroomTeacherName,omitempty"`
	StudentCount        int       `db:"student_count" json:"studentCount"`
}

// ClassDetail extends Class with the ids of its member students.
type ClassDetail struct {
	Class
	AssignedStudentIDs []int64 `json:"assignedStudentIds"`
}

// ClassOption is the minimal class projection for pickers.
type ClassOption struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ClassRequest is the payload for creating or replacing a class. StudentIDs is
// the full target membership.
type ClassRequest struct {
	Name              string  `json:"name" validate:"required"`
	HomeroomTeacherID *int64  `json:"homeroomTeacherId,omitempty"`
	StudentIDs        []int64 `json:"studentIds"`
}
