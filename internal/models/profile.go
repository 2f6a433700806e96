package models

import "fmt"

// Profile is a role-specific record holding a person's name, linked 1:1 to an
// account. Admin, teacher and student profiles share this shape and live in
// separate tables selected by role.
type Profile struct {
	ID        int64  `db:"id" json:"id"`
	AccountID string `db:"account_id" json:"accountId"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
}

// FullName renders the display name used in projections.
func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// ProfileTable maps a role tag to the table storing its profile rows. Unknown
// tags are rejected here rather than dispatched at runtime.
func ProfileTable(role Role) (string, error) {
	switch role {
	case RoleAdministrator:
		return "admins", nil
	case RoleTeacher:
		return "teachers", nil
	case RoleStudent:
		return "students", nil
	default:
		return "", fmt.Errorf("unknown role: %s", role)
	}
}

// TeacherInfo is the roster projection for teachers.
type TeacherInfo struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"firstName"`
	LastName  string `db:"last_name" json:"lastName"`
}

// StudentInfo is the roster projection for students with their class name when
// assigned.
type StudentInfo struct {
	ID        int64   `db:"id" json:"id"`
	FirstName string  `db:"first_name" json:"firstName"`
	LastName  string  `db:"last_name" json:"lastName"`
	ClassName *string `db:"class_name" json:"className,omitempty"`
}

// StudentOption is the minimal student projection used by grading pickers.
type StudentOption struct {
	ID       int64  `db:"id" json:"id"`
	FullName string `db:"full_name" json:"fullName"`
}
