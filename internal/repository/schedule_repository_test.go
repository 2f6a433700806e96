package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolmgr/school-api/internal/models"
)

func newScheduleMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestScheduleRepositorySlotTaken(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE class_id = $1 AND day_of_week = $2 AND start_time = $3::time")).
		WithArgs(int64(1), 3, "08:00").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.SlotTaken(context.Background(), 1, 3, "08:00")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("INSERT INTO schedule_entries").
		WithArgs(int64(1), int64(2), int64(3), 3, "08:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := repo.Create(context.Background(), &models.ScheduleEntry{
		ClassID: 1, SubjectID: 2, TeacherID: 3, DayOfWeek: 3, StartTime: "08:00",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListForClass(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE se.class_id = $1\nORDER BY se.day_of_week ASC, se.start_time ASC")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "subject_id", "teacher_id", "day_of_week", "start_time", "subject_name", "teacher_name"}).
			AddRow(int64(11), int64(1), int64(2), int64(3), 1, "08:00", "Mathematics", "Kowalska Anna"))

	entries, err := repo.ListForClass(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "08:00", entries[0].StartTime)
	assert.Equal(t, "Kowalska Anna", entries[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListForStudentClass(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE st.id = $1")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"day_of_week", "start_time", "class_name", "subject_name", "teacher_name"}))

	entries, err := repo.ListForStudentClass(context.Background(), 9)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryClassesWithEntryCounts(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AS entry_count")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "entry_count"}).
			AddRow(int64(1), "1A", 12).
			AddRow(int64(2), "2B", 0))

	classes, err := repo.ClassesWithEntryCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, 12, classes[0].EntryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryTodayLessonsForTeacher(t *testing.T) {
	db, mock, cleanup := newScheduleMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	date := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE se.teacher_id = $1 AND se.day_of_week = $2")).
		WithArgs(int64(3), 2, "2026-09-01").
		WillReturnRows(sqlmock.NewRows([]string{"schedule_id", "subject_name", "class_name", "start_time", "has_attendance"}).
			AddRow(int64(11), "Mathematics", "1A", "08:00", true).
			AddRow(int64(12), "Mathematics", "2B", "10:00", false))

	lessons, err := repo.TodayLessonsForTeacher(context.Background(), 3, 2, date)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.True(t, lessons[0].HasAttendance)
	assert.False(t, lessons[1].HasAttendance)
	assert.NoError(t, mock.ExpectationsWereMet())
}
