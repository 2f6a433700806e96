package models

import "time"

// ScheduleEntry is one weekly recurring timetable slot. StartTime is stored as
// a time-of-day and carried as "HH:MM" text at the API boundary.
type ScheduleEntry struct {
	ID        int64      `db:"id" json:"id"`
	ClassID   int64      `db:"class_id" json:"classId"`
	SubjectID int64      `db:"subject_id" json:"subjectId"`
	TeacherID int64      `db:"teacher_id" json:"teacherId"`
	DayOfWeek int        `db:"day_of_week" json:"dayOfWeek"`
	StartTime string     `db:"start_time" json:"startTime"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}

// AddScheduleEntryRequest is the payload for placing one timetable slot.
type AddScheduleEntryRequest struct {
	ClassID   int64  `json:"classId" validate:"required"`
	SubjectID int64  `json:"subjectId" validate:"required"`
	TeacherID int64  `json:"teacherId" validate:"required"`
	// Sunday is 0, Saturday is 6.
	DayOfWeek int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime string `json:"startTime" validate:"required"`
}

// ScheduleEntryView is a created or listed entry with resolved display names.
type ScheduleEntryView struct {
	ID          int64  `db:"id" json:"id"`
	ClassID     int64  `db:"class_id" json:"classId"`
	SubjectID   int64  `db:"subject_id" json:"subjectId"`
	TeacherID   int64  `db:"teacher_id" json:"teacherId"`
	DayOfWeek   int    `db:"day_of_week" json:"dayOfWeek"`
	StartTime   string `db:"start_time" json:"startTime"`
	SubjectName string `db:"subject_name" json:"subjectName"`
	TeacherName string `db:"teacher_name" json:"teacherFullName"`
}

// ClassSchedule is the full timetable of one class.
type ClassSchedule struct {
	ClassID   int64               `json:"classId"`
	ClassName string              `json:"className"`
	Entries   []ScheduleEntryView `json:"entries"`
}

// StudentScheduleEntry is one timetable slot from a student's perspective.
type StudentScheduleEntry struct {
	DayOfWeek   int    `db:"day_of_week" json:"dayOfWeek"`
	StartTime   string `db:"start_time" json:"startTime"`
	ClassName   string `db:"class_name" json:"className"`
	SubjectName string `db:"subject_name" json:"subjectName"`
	TeacherName string `db:"teacher_name" json:"teacherFullName"`
}

// TeacherScheduleEntry is one timetable slot from a teacher's perspective.
type TeacherScheduleEntry struct {
	DayOfWeek   int    `db:"day_of_week" json:"dayOfWeek"`
	StartTime   string `db:"start_time" json:"startTime"`
	ClassName   string `db:"class_name" json:"className"`
	SubjectName string `db:"subject_name" json:"subjectName"`
}

// ClassWithSchedule flags how many timetable entries a class has.
type ClassWithSchedule struct {
	ID         int64  `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	EntryCount int    `db:"entry_count" json:"entryCount"`
}

// TodayLesson is one of a teacher's lessons for the current weekday, flagged
// with whether attendance was already recorded today.
type TodayLesson struct {
	ScheduleID    int64  `db:"schedule_id" json:"scheduleId"`
	SubjectName   string `db:"subject_name" json:"subjectName"`
	ClassName     string `db:"class_name" json:"className"`
	StartTime     string `db:"start_time" json:"startTime"`
	HasAttendance bool   `db:"has_attendance" json:"hasAttendance"`
}
