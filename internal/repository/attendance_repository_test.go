package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmgr/school-api/internal/models"
)

func newAttendanceMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryStudentsWithStatus(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(ar.status, 'UNSET') AS status")).
		WithArgs(int64(11), "2026-09-01").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "full_name", "status"}).
			AddRow(int64(1), "Ewa Lis", "PRESENT").
			AddRow(int64(2), "Jan Nowak", "UNSET"))

	students, err := repo.StudentsWithStatus(context.Background(), 11, date)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, models.AttendancePresent, students[0].Status)
	assert.Equal(t, models.AttendanceUnset, students[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryReplaceForDate(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance_records WHERE schedule_id = $1 AND date = $2::date")).
		WithArgs(int64(11), "2026-09-01").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(sqlmock.AnyArg(), int64(1), int64(11), "2026-09-01", models.AttendancePresent, nil, "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(sqlmock.AnyArg(), int64(2), int64(11), "2026-09-01", models.AttendanceLate, "overslept", "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	comment := "overslept"
	err := repo.ReplaceForDate(context.Background(), 11, date, []models.AttendanceEntry{
		{StudentID: 1, Status: models.AttendancePresent},
		{StudentID: 2, Status: models.AttendanceLate, Comment: &comment},
	}, "acc-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryReplaceForDateRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newAttendanceMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM attendance_records").
		WithArgs(int64(11), "2026-09-01").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO attendance_records").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.ReplaceForDate(context.Background(), 11, date, []models.AttendanceEntry{
		{StudentID: 1, Status: models.AttendancePresent},
	}, "acc-1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
