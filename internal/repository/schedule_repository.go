package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/schoolmgr/school-api/internal/models"
)

// ScheduleRepository manages weekly recurring timetable entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// SlotTaken reports whether the class already has an entry at the given
// weekday and start time. Teacher double booking is not checked here.
func (r *ScheduleRepository) SlotTaken(ctx context.Context, classID int64, dayOfWeek int, startTime string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM schedule_entries WHERE class_id = $1 AND day_of_week = $2 AND start_time = $3::time)`
	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, classID, dayOfWeek, startTime); err != nil {
		return false, fmt.Errorf("check schedule slot: %w", err)
	}
	return taken, nil
}

// Create inserts a timetable entry and returns its id.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) (int64, error) {
	const query = `
INSERT INTO schedule_entries (class_id, subject_id, teacher_id, day_of_week, start_time, created_at)
VALUES ($1, $2, $3, $4, $5::time, NOW())
RETURNING id`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		entry.ClassID, entry.SubjectID, entry.TeacherID, entry.DayOfWeek, entry.StartTime,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create schedule entry: %w", err)
	}
	return id, nil
}

// FindView returns one entry with resolved subject and teacher names.
func (r *ScheduleRepository) FindView(ctx context.Context, id int64) (*models.ScheduleEntryView, error) {
	const query = `
SELECT se.id, se.class_id, se.subject_id, se.teacher_id, se.day_of_week,
       to_char(se.start_time, 'HH24:MI') AS start_time,
       s.name AS subject_name,
       t.last_name || ' ' || t.first_name AS teacher_name
FROM schedule_entries se
JOIN subjects s ON s.id = se.subject_id
JOIN teachers t ON t.id = se.teacher_id
WHERE se.id = $1`
	var view models.ScheduleEntryView
	if err := r.db.GetContext(ctx, &view, query, id); err != nil {
		return nil, fmt.Errorf("find schedule entry %d: %w", id, err)
	}
	return &view, nil
}

// FindByID returns one raw entry.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	const query = `
SELECT id, class_id, subject_id, teacher_id, day_of_week,
       to_char(start_time, 'HH24:MI') AS start_time, created_at, updated_at
FROM schedule_entries
WHERE id = $1`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, fmt.Errorf("find schedule entry %d: %w", id, err)
	}
	return &entry, nil
}

// ListForClass returns a class's full timetable ordered by weekday then start
// time.
func (r *ScheduleRepository) ListForClass(ctx context.Context, classID int64) ([]models.ScheduleEntryView, error) {
	const query = `
SELECT se.id, se.class_id, se.subject_id, se.teacher_id, se.day_of_week,
       to_char(se.start_time, 'HH24:MI') AS start_time,
       s.name AS subject_name,
       t.last_name || ' ' || t.first_name AS teacher_name
FROM schedule_entries se
JOIN subjects s ON s.id = se.subject_id
JOIN teachers t ON t.id = se.teacher_id
WHERE se.class_id = $1
ORDER BY se.day_of_week ASC, se.start_time ASC`
	var entries []models.ScheduleEntryView
	if err := r.db.SelectContext(ctx, &entries, query, classID); err != nil {
		return nil, fmt.Errorf("list class schedule: %w", err)
	}
	return entries, nil
}

// ListForStudentClass returns the timetable of the class a student belongs to.
// Students without a class get an empty result.
func (r *ScheduleRepository) ListForStudentClass(ctx context.Context, studentID int64) ([]models.StudentScheduleEntry, error) {
	const query = `
SELECT se.day_of_week, to_char(se.start_time, 'HH24:MI') AS start_time,
       c.name AS class_name, s.name AS subject_name,
       t.last_name || ' ' || t.first_name AS teacher_name
FROM students st
JOIN classes c ON c.id = st.class_id
JOIN schedule_entries se ON se.class_id = c.id
JOIN subjects s ON s.id = se.subject_id
JOIN teachers t ON t.id = se.teacher_id
WHERE st.id = $1
ORDER BY se.day_of_week ASC, se.start_time ASC`
	var entries []models.StudentScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list student schedule: %w", err)
	}
	return entries, nil
}

// ListForTeacher returns every slot a teacher appears in across all classes.
func (r *ScheduleRepository) ListForTeacher(ctx context.Context, teacherID int64) ([]models.TeacherScheduleEntry, error) {
	const query = `
SELECT se.day_of_week, to_char(se.start_time, 'HH24:MI') AS start_time,
       c.name AS class_name, s.name AS subject_name
FROM schedule_entries se
JOIN classes c ON c.id = se.class_id
JOIN subjects s ON s.id = se.subject_id
WHERE se.teacher_id = $1
ORDER BY se.day_of_week ASC, se.start_time ASC`
	var entries []models.TeacherScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher schedule: %w", err)
	}
	return entries, nil
}

// ClassesWithEntryCounts lists every class with how many timetable entries it
// has, for the schedule overview.
func (r *ScheduleRepository) ClassesWithEntryCounts(ctx context.Context) ([]models.ClassWithSchedule, error) {
	const query = `
SELECT c.id, c.name,
       (SELECT COUNT(*) FROM schedule_entries se WHERE se.class_id = c.id) AS entry_count
FROM classes c
ORDER BY c.name ASC`
	var classes []models.ClassWithSchedule
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes with entry counts: %w", err)
	}
	return classes, nil
}

// TodayLessonsForTeacher returns a teacher's lessons on the given weekday,
// each flagged with whether attendance exists for the given date.
func (r *ScheduleRepository) TodayLessonsForTeacher(ctx context.Context, teacherID int64, dayOfWeek int, date time.Time) ([]models.TodayLesson, error) {
	const query = `
SELECT se.id AS schedule_id, s.name AS subject_name, c.name AS class_name,
       to_char(se.start_time, 'HH24:MI') AS start_time,
       EXISTS(
           SELECT 1 FROM attendance_records ar
           WHERE ar.schedule_id = se.id AND ar.date = $3::date
       ) AS has_attendance
FROM schedule_entries se
JOIN subjects s ON s.id = se.subject_id
JOIN classes c ON c.id = se.class_id
WHERE se.teacher_id = $1 AND se.day_of_week = $2
ORDER BY se.start_time ASC`
	var lessons []models.TodayLesson
	if err := r.db.SelectContext(ctx, &lessons, query, teacherID, dayOfWeek, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list today lessons: %w", err)
	}
	return lessons, nil
}
