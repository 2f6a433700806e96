package models

import "time"

// AttendanceStatus enumerates daily presence states. The zero value marks a
// student with no record yet.
type AttendanceStatus string

const (
	AttendanceUnset   AttendanceStatus = "UNSET"
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// Valid reports whether the status may be persisted.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused:
		return true
	}
	return false
}

// AttendanceRecord is a per-student, per-schedule-entry, per-date presence
// status. At most one record exists per (student, schedule, date); the
// invariant is enforced by replace-on-save.
type AttendanceRecord struct {
	ID         string           `db:"id" json:"id"`
	StudentID  int64            `db:"student_id" json:"studentId"`
	ScheduleID int64            `db:"schedule_id" json:"scheduleId"`
	Date       time.Time        `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	Comment    *string          `db:"comment" json:"comment,omitempty"`
	ModifiedBy *string          `db:"modified_by" json:"modifiedBy,omitempty"`
}

// AttendanceEntry is one submitted status in a SaveAttendance call.
type AttendanceEntry struct {
	StudentID int64            `json:"studentId" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required"`
	Comment   *string          `json:"comment,omitempty"`
}

// SaveAttendanceRequest submits the full attendance of one lesson for one
// date. Date defaults to the current day when absent.
type SaveAttendanceRequest struct {
	Date    *time.Time        `json:"date,omitempty"`
	Entries []AttendanceEntry `json:"entries" validate:"dive"`
}

// StudentForAttendance pairs a class member with today's status, defaulting to
// unset when no record exists.
type StudentForAttendance struct {
	StudentID int64            `json:"studentId"`
	FullName  string           `json:"fullName"`
	Status    AttendanceStatus `json:"status"`
}
