package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolmgr/school-api/internal/models"
)

// AttendanceRepository manages per-lesson daily attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a new repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// StudentsWithStatus lists the members of the class behind a schedule entry,
// each joined with the status recorded for the given date. Students without a
// record come back unset.
func (r *AttendanceRepository) StudentsWithStatus(ctx context.Context, scheduleID int64, date time.Time) ([]models.StudentForAttendance, error) {
	const query = `
SELECT st.id AS student_id,
       st.first_name || ' ' || st.last_name AS full_name,
       COALESCE(ar.status, 'UNSET') AS status
FROM schedule_entries se
JOIN students st ON st.class_id = se.class_id
LEFT JOIN attendance_records ar
       ON ar.student_id = st.id AND ar.schedule_id = se.id AND ar.date = $2::date
WHERE se.id = $1
ORDER BY st.last_name ASC, st.first_name ASC`
	type row struct {
		StudentID int64                   `db:"student_id"`
		FullName  string                  `db:"full_name"`
		Status    models.AttendanceStatus `db:"status"`
	}
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID, date.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list students for attendance: %w", err)
	}
	students := make([]models.StudentForAttendance, 0, len(rows))
	for _, rw := range rows {
		students = append(students, models.StudentForAttendance{
			StudentID: rw.StudentID,
			FullName:  rw.FullName,
			Status:    rw.Status,
		})
	}
	return students, nil
}

// ReplaceForDate overwrites the attendance of one lesson on one date. Existing
// records for the (schedule, date) pair are dropped and the submitted entries
// inserted in their place, all inside one transaction.
func (r *AttendanceRepository) ReplaceForDate(ctx context.Context, scheduleID int64, date time.Time, entries []models.AttendanceEntry, modifiedBy string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	day := date.Format("2006-01-02")
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM attendance_records WHERE schedule_id = $1 AND date = $2::date`,
		scheduleID, day,
	); err != nil {
		return fmt.Errorf("clear attendance: %w", err)
	}

	const insert = `
INSERT INTO attendance_records (id, student_id, schedule_id, date, status, comment, modified_by)
VALUES ($1, $2, $3, $4::date, $5, $6, $7)`
	for _, entry := range entries {
		if _, err = tx.ExecContext(ctx, insert,
			uuid.NewString(), entry.StudentID, scheduleID, day, entry.Status, entry.Comment, modifiedBy,
		); err != nil {
			return fmt.Errorf("insert attendance record: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
