package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type scheduleRepository interface {
	SlotTaken(ctx context.Context, classID int64, dayOfWeek int, startTime string) (bool, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) (int64, error)
	FindView(ctx context.Context, id int64) (*models.ScheduleEntryView, error)
	ListForClass(ctx context.Context, classID int64) ([]models.ScheduleEntryView, error)
	ListForStudentClass(ctx context.Context, studentID int64) ([]models.StudentScheduleEntry, error)
	ListForTeacher(ctx context.Context, teacherID int64) ([]models.TeacherScheduleEntry, error)
	ClassesWithEntryCounts(ctx context.Context) ([]models.ClassWithSchedule, error)
}

type scheduleClassRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Class, error)
}

type scheduleProfileRepository interface {
	ByAccount(ctx context.Context, accountID string, role models.Role) (*models.Profile, error)
	TeacherByID(ctx context.Context, id int64) (*models.Profile, error)
}

type scheduleSubjectRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
}

type scheduleAssignmentRepository interface {
	ListForClass(ctx context.Context, classID int64) ([]models.AssignmentRow, error)
}

// ScheduleService provides the timetable builder and timetable view use cases.
// Class timetable reads go through the cache when one is configured.
type ScheduleService struct {
	schedules   scheduleRepository
	classes     scheduleClassRepository
	profiles    scheduleProfileRepository
	subjects    scheduleSubjectRepository
	assignments scheduleAssignmentRepository
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(schedules scheduleRepository, classes scheduleClassRepository, profiles scheduleProfileRepository, subjects scheduleSubjectRepository, assignments scheduleAssignmentRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{
		schedules:   schedules,
		classes:     classes,
		profiles:    profiles,
		subjects:    subjects,
		assignments: assignments,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// AddEntry places one slot in a class timetable. The slot must be free for
// the class at that weekday and start time; teacher double booking is allowed.
func (s *ScheduleService) AddEntry(ctx context.Context, req models.AddScheduleEntryRequest) (*models.ScheduleEntryView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startTime must be HH:MM")
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if _, err := s.profiles.TeacherByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	taken, err := s.schedules.SlotTaken(ctx, req.ClassID, req.DayOfWeek, req.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule slot")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "class already has a lesson at this time")
	}

	entry := &models.ScheduleEntry{
		ClassID:   req.ClassID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
	}
	id, err := s.schedules.Create(ctx, entry)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}

	view, err := s.schedules.FindView(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}

	if err := s.cache.Invalidate(ctx, "schedule:*"); err != nil {
		s.logger.Warn("failed to invalidate schedule cache", zap.Error(err))
	}
	return view, nil
}

// ForClass returns the full timetable of one class.
func (s *ScheduleService) ForClass(ctx context.Context, classID int64) (*models.ClassSchedule, error) {
	cacheKey := fmt.Sprintf("schedule:class:%d", classID)
	var cached models.ClassSchedule
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	entries, err := s.schedules.ListForClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class schedule")
	}

	schedule := &models.ClassSchedule{ClassID: class.ID, ClassName: class.Name, Entries: entries}
	if err := s.cache.Set(ctx, cacheKey, schedule, 0); err != nil {
		s.logger.Warn("failed to cache class schedule", zap.Error(err))
	}
	return schedule, nil
}

// ForStudent returns the timetable of the calling student's class. Students
// without a class get an empty timetable.
func (s *ScheduleService) ForStudent(ctx context.Context, studentAccountID string) ([]models.StudentScheduleEntry, error) {
	student, err := s.profiles.ByAccount(ctx, studentAccountID, models.RoleStudent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}

	entries, err := s.schedules.ListForStudentClass(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student schedule")
	}
	return entries, nil
}

// ForTeacher returns every slot the calling teacher appears in.
func (s *ScheduleService) ForTeacher(ctx context.Context, teacherAccountID string) ([]models.TeacherScheduleEntry, error) {
	teacher, err := s.profiles.ByAccount(ctx, teacherAccountID, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	entries, err := s.schedules.ListForTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher schedule")
	}
	return entries, nil
}

// ClassesWithSchedule lists every class with its timetable entry count.
func (s *ScheduleService) ClassesWithSchedule(ctx context.Context) ([]models.ClassWithSchedule, error) {
	classes, err := s.schedules.ClassesWithEntryCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes with schedules")
	}
	return classes, nil
}

// SubjectsForClass groups a class's assignments by subject with the teachers
// assigned to each, for the timetable builder pickers.
func (s *ScheduleService) SubjectsForClass(ctx context.Context, classID int64) ([]models.SubjectWithTeachers, error) {
	rows, err := s.assignments.ListForClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class subjects")
	}

	var grouped []models.SubjectWithTeachers
	index := make(map[int64]int)
	for _, row := range rows {
		i, ok := index[row.SubjectID]
		if !ok {
			grouped = append(grouped, models.SubjectWithTeachers{
				SubjectID:   row.SubjectID,
				SubjectName: row.SubjectName,
			})
			i = len(grouped) - 1
			index[row.SubjectID] = i
		}
		grouped[i].Teachers = append(grouped[i].Teachers, models.TeacherInfo{
			ID:        row.TeacherID,
			FirstName: row.TeacherFirstName,
			LastName:  row.TeacherLastName,
		})
	}
	return grouped, nil
}
