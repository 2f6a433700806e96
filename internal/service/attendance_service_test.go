package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type attendanceRepoStub struct {
	students    []models.StudentForAttendance
	studentsErr error
	replaceErr  error

	replacedScheduleID int64
	replacedDate       time.Time
	replacedEntries    []models.AttendanceEntry
	replacedBy         string
}

func (s *attendanceRepoStub) StudentsWithStatus(ctx context.Context, scheduleID int64, date time.Time) ([]models.StudentForAttendance, error) {
	return s.students, s.studentsErr
}

func (s *attendanceRepoStub) ReplaceForDate(ctx context.Context, scheduleID int64, date time.Time, entries []models.AttendanceEntry, modifiedBy string) error {
	s.replacedScheduleID = scheduleID
	s.replacedDate = date
	s.replacedEntries = entries
	s.replacedBy = modifiedBy
	return s.replaceErr
}

type attendanceScheduleStub struct {
	entries map[int64]*models.ScheduleEntry
	lessons []models.TodayLesson

	lessonsDayOfWeek int
}

func (s *attendanceScheduleStub) FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	if entry, ok := s.entries[id]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

func (s *attendanceScheduleStub) TodayLessonsForTeacher(ctx context.Context, teacherID int64, dayOfWeek int, date time.Time) ([]models.TodayLesson, error) {
	s.lessonsDayOfWeek = dayOfWeek
	return s.lessons, nil
}

func newAttendanceServiceForTest(attendance *attendanceRepoStub, schedules *attendanceScheduleStub, profiles *profileRepoStub) *AttendanceService {
	return NewAttendanceService(attendance, schedules, profiles, nil, zap.NewNop())
}

func TestAttendanceServiceSave(t *testing.T) {
	attendance := &attendanceRepoStub{}
	schedules := &attendanceScheduleStub{entries: map[int64]*models.ScheduleEntry{11: {ID: 11}}}
	svc := newAttendanceServiceForTest(attendance, schedules, &profileRepoStub{})

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	err := svc.Save(context.Background(), "acc-t", 11, models.SaveAttendanceRequest{
		Date: &date,
		Entries: []models.AttendanceEntry{
			{StudentID: 1, Status: models.AttendancePresent},
			{StudentID: 2, Status: models.AttendanceAbsent},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), attendance.replacedScheduleID)
	assert.Equal(t, date, attendance.replacedDate)
	assert.Len(t, attendance.replacedEntries, 2)
	assert.Equal(t, "acc-t", attendance.replacedBy)
}

func TestAttendanceServiceSaveRejectsEmptyEntries(t *testing.T) {
	svc := newAttendanceServiceForTest(&attendanceRepoStub{}, &attendanceScheduleStub{}, &profileRepoStub{})

	err := svc.Save(context.Background(), "acc-t", 11, models.SaveAttendanceRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAttendanceServiceSaveRejectsUnknownStatus(t *testing.T) {
	svc := newAttendanceServiceForTest(&attendanceRepoStub{}, &attendanceScheduleStub{}, &profileRepoStub{})

	err := svc.Save(context.Background(), "acc-t", 11, models.SaveAttendanceRequest{
		Entries: []models.AttendanceEntry{{StudentID: 1, Status: models.AttendanceStatus("ASLEEP")}},
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAttendanceServiceSaveUnknownSchedule(t *testing.T) {
	svc := newAttendanceServiceForTest(&attendanceRepoStub{}, &attendanceScheduleStub{}, &profileRepoStub{})

	err := svc.Save(context.Background(), "acc-t", 404, models.SaveAttendanceRequest{
		Entries: []models.AttendanceEntry{{StudentID: 1, Status: models.AttendancePresent}},
	})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestAttendanceServiceStudentsForScheduleDefaultsToToday(t *testing.T) {
	attendance := &attendanceRepoStub{students: []models.StudentForAttendance{
		{StudentID: 1, FullName: "Ewa Lis", Status: models.AttendanceUnset},
	}}
	schedules := &attendanceScheduleStub{entries: map[int64]*models.ScheduleEntry{11: {ID: 11}}}
	svc := newAttendanceServiceForTest(attendance, schedules, &profileRepoStub{})

	students, err := svc.StudentsForSchedule(context.Background(), 11, nil)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, models.AttendanceUnset, students[0].Status)
}

func TestAttendanceServiceTodayLessonsSundayIsZero(t *testing.T) {
	schedules := &attendanceScheduleStub{lessons: []models.TodayLesson{{ScheduleID: 11}}}
	profiles := &profileRepoStub{profiles: map[string]*models.Profile{"acc-t": {ID: 3}}}
	svc := newAttendanceServiceForTest(&attendanceRepoStub{}, schedules, profiles)
	svc.now = func() time.Time { return time.Date(2026, 9, 6, 10, 0, 0, 0, time.UTC) }

	lessons, err := svc.TodayLessons(context.Background(), "acc-t")
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
	assert.Equal(t, 0, schedules.lessonsDayOfWeek)
}

func TestAttendanceServiceTodayLessonsMondayIsOne(t *testing.T) {
	schedules := &attendanceScheduleStub{}
	profiles := &profileRepoStub{profiles: map[string]*models.Profile{"acc-t": {ID: 3}}}
	svc := newAttendanceServiceForTest(&attendanceRepoStub{}, schedules, profiles)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC) }

	_, err := svc.TodayLessons(context.Background(), "acc-t")
	require.NoError(t, err)
	assert.Equal(t, 1, schedules.lessonsDayOfWeek)
}
