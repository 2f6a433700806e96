package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type scheduleRepoStub struct {
	taken     bool
	takenErr  error
	createdID int64
	created   *models.ScheduleEntry
	view      *models.ScheduleEntryView
	classView []models.ScheduleEntryView
	student   []models.StudentScheduleEntry
	teacher   []models.TeacherScheduleEntry
	classes   []models.ClassWithSchedule
	listCalls int
	createErr error
}

func (s *scheduleRepoStub) SlotTaken(ctx context.Context, classID int64, dayOfWeek int, startTime string) (bool, error) {
	return s.taken, s.takenErr
}

func (s *scheduleRepoStub) Create(ctx context.Context, entry *models.ScheduleEntry) (int64, error) {
	s.created = entry
	return s.createdID, s.createErr
}

func (s *scheduleRepoStub) FindView(ctx context.Context, id int64) (*models.ScheduleEntryView, error) {
	if s.view == nil {
		return nil, sql.ErrNoRows
	}
	return s.view, nil
}

func (s *scheduleRepoStub) ListForClass(ctx context.Context, classID int64) ([]models.ScheduleEntryView, error) {
	s.listCalls++
	return s.classView, nil
}

func (s *scheduleRepoStub) ListForStudentClass(ctx context.Context, studentID int64) ([]models.StudentScheduleEntry, error) {
	return s.student, nil
}

func (s *scheduleRepoStub) ListForTeacher(ctx context.Context, teacherID int64) ([]models.TeacherScheduleEntry, error) {
	return s.teacher, nil
}

func (s *scheduleRepoStub) ClassesWithEntryCounts(ctx context.Context) ([]models.ClassWithSchedule, error) {
	return s.classes, nil
}

type scheduleClassStub struct {
	classes map[int64]*models.Class
}

func (s scheduleClassStub) FindByID(ctx context.Context, id int64) (*models.Class, error) {
	if class, ok := s.classes[id]; ok {
		return class, nil
	}
	return nil, sql.ErrNoRows
}

type scheduleProfileStub struct {
	profiles map[string]*models.Profile
	teachers map[int64]*models.Profile
}

func (s scheduleProfileStub) ByAccount(ctx context.Context, accountID string, role models.Role) (*models.Profile, error) {
	if p, ok := s.profiles[accountID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (s scheduleProfileStub) TeacherByID(ctx context.Context, id int64) (*models.Profile, error) {
	if p, ok := s.teachers[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type scheduleAssignmentStub struct {
	rows []models.AssignmentRow
}

func (s scheduleAssignmentStub) ListForClass(ctx context.Context, classID int64) ([]models.AssignmentRow, error) {
	return s.rows, nil
}

func newScheduleServiceForTest(schedules *scheduleRepoStub, classes scheduleClassStub, profiles scheduleProfileStub, assignments scheduleAssignmentStub) *ScheduleService {
	subjects := subjectFinderStub{subjects: map[int64]*models.Subject{2: {ID: 2, Name: "Mathematics"}}}
	return NewScheduleService(schedules, classes, profiles, subjects, assignments, nil, nil, zap.NewNop())
}

func validAddEntryRequest() models.AddScheduleEntryRequest {
	return models.AddScheduleEntryRequest{ClassID: 1, SubjectID: 2, TeacherID: 3, DayOfWeek: 2, StartTime: "08:00"}
}

func TestScheduleServiceAddEntry(t *testing.T) {
	schedules := &scheduleRepoStub{
		createdID: 11,
		view:      &models.ScheduleEntryView{ID: 11, SubjectName: "Mathematics", TeacherName: "Kowalska Anna", StartTime: "08:00"},
	}
	classes := scheduleClassStub{classes: map[int64]*models.Class{1: {ID: 1, Name: "1A"}}}
	profiles := scheduleProfileStub{teachers: map[int64]*models.Profile{3: {ID: 3}}}
	svc := newScheduleServiceForTest(schedules, classes, profiles, scheduleAssignmentStub{})

	view, err := svc.AddEntry(context.Background(), validAddEntryRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(11), view.ID)
	require.NotNil(t, schedules.created)
	assert.Equal(t, "08:00", schedules.created.StartTime)
}

func TestScheduleServiceAddEntryRejectsBadStartTime(t *testing.T) {
	svc := newScheduleServiceForTest(&scheduleRepoStub{}, scheduleClassStub{}, scheduleProfileStub{}, scheduleAssignmentStub{})

	for _, start := range []string{"8 o'clock", "25:00", "08:60", "0800"} {
		req := validAddEntryRequest()
		req.StartTime = start
		_, err := svc.AddEntry(context.Background(), req)
		assert.ErrorIs(t, err, appErrors.ErrValidation, start)
	}
}

func TestScheduleServiceAddEntryRejectsBadWeekday(t *testing.T) {
	svc := newScheduleServiceForTest(&scheduleRepoStub{}, scheduleClassStub{}, scheduleProfileStub{}, scheduleAssignmentStub{})

	for _, day := range []int{-1, 7} {
		req := validAddEntryRequest()
		req.DayOfWeek = day
		_, err := svc.AddEntry(context.Background(), req)
		assert.ErrorIs(t, err, appErrors.ErrValidation, day)
	}
}

func TestScheduleServiceAddEntryAcceptsSunday(t *testing.T) {
	schedules := &scheduleRepoStub{
		createdID: 12,
		view:      &models.ScheduleEntryView{ID: 12, SubjectName: "Mathematics", StartTime: "09:00"},
	}
	classes := scheduleClassStub{classes: map[int64]*models.Class{1: {ID: 1, Name: "1A"}}}
	profiles := scheduleProfileStub{teachers: map[int64]*models.Profile{3: {ID: 3}}}
	svc := newScheduleServiceForTest(schedules, classes, profiles, scheduleAssignmentStub{})

	req := validAddEntryRequest()
	req.DayOfWeek = 0
	_, err := svc.AddEntry(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, schedules.created)
	assert.Equal(t, 0, schedules.created.DayOfWeek)
}

func TestScheduleServiceAddEntryConflict(t *testing.T) {
	schedules := &scheduleRepoStub{taken: true}
	classes := scheduleClassStub{classes: map[int64]*models.Class{1: {ID: 1, Name: "1A"}}}
	profiles := scheduleProfileStub{teachers: map[int64]*models.Profile{3: {ID: 3}}}
	svc := newScheduleServiceForTest(schedules, classes, profiles, scheduleAssignmentStub{})

	_, err := svc.AddEntry(context.Background(), validAddEntryRequest())
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestScheduleServiceAddEntryUnknownClass(t *testing.T) {
	svc := newScheduleServiceForTest(&scheduleRepoStub{}, scheduleClassStub{}, scheduleProfileStub{}, scheduleAssignmentStub{})

	_, err := svc.AddEntry(context.Background(), validAddEntryRequest())
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestScheduleServiceForClass(t *testing.T) {
	schedules := &scheduleRepoStub{classView: []models.ScheduleEntryView{{ID: 11, SubjectName: "Mathematics"}}}
	classes := scheduleClassStub{classes: map[int64]*models.Class{1: {ID: 1, Name: "1A"}}}
	svc := newScheduleServiceForTest(schedules, classes, scheduleProfileStub{}, scheduleAssignmentStub{})

	schedule, err := svc.ForClass(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "1A", schedule.ClassName)
	assert.Len(t, schedule.Entries, 1)
}

func TestScheduleServiceForClassNotFound(t *testing.T) {
	svc := newScheduleServiceForTest(&scheduleRepoStub{}, scheduleClassStub{}, scheduleProfileStub{}, scheduleAssignmentStub{})

	_, err := svc.ForClass(context.Background(), 404)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestScheduleServiceSubjectsForClassGroupsTeachers(t *testing.T) {
	assignments := scheduleAssignmentStub{rows: []models.AssignmentRow{
		{SubjectID: 2, SubjectName: "Mathematics", TeacherID: 3, TeacherFirstName: "Anna", TeacherLastName: "Kowalska"},
		{SubjectID: 2, SubjectName: "Mathematics", TeacherID: 5, TeacherFirstName: "Piotr", TeacherLastName: "Zielinski"},
		{SubjectID: 4, SubjectName: "Physics", TeacherID: 3, TeacherFirstName: "Anna", TeacherLastName: "Kowalska"},
	}}
	svc := newScheduleServiceForTest(&scheduleRepoStub{}, scheduleClassStub{}, scheduleProfileStub{}, assignments)

	grouped, err := svc.SubjectsForClass(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, grouped, 2)
	assert.Equal(t, "Mathematics", grouped[0].SubjectName)
	assert.Len(t, grouped[0].Teachers, 2)
	assert.Equal(t, "Physics", grouped[1].SubjectName)
	assert.Len(t, grouped[1].Teachers, 1)
}

func TestScheduleServiceForStudent(t *testing.T) {
	schedules := &scheduleRepoStub{student: []models.StudentScheduleEntry{{SubjectName: "Mathematics"}}}
	profiles := scheduleProfileStub{profiles: map[string]*models.Profile{"acc-s": {ID: 9}}}
	svc := newScheduleServiceForTest(schedules, scheduleClassStub{}, profiles, scheduleAssignmentStub{})

	entries, err := svc.ForStudent(context.Background(), "acc-s")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestScheduleServiceForStudentMissingProfile(t *testing.T) {
	svc := newScheduleServiceForTest(&scheduleRepoStub{}, scheduleClassStub{}, scheduleProfileStub{}, scheduleAssignmentStub{})

	_, err := svc.ForStudent(context.Background(), "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
