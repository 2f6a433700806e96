package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type attendanceRepository interface {
	StudentsWithStatus(ctx context.Context, scheduleID int64, date time.Time) ([]models.StudentForAttendance, error)
	ReplaceForDate(ctx context.Context, scheduleID int64, date time.Time, entries []models.AttendanceEntry, modifiedBy string) error
}

type attendanceScheduleRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error)
	TodayLessonsForTeacher(ctx context.Context, teacherID int64, dayOfWeek int, date time.Time) ([]models.TodayLesson, error)
}

type attendanceProfileRepository interface {
	ByAccount(ctx context.Context, accountID string, role models.Role) (*models.Profile, error)
}

// AttendanceService provides the daily attendance workflow use cases.
type AttendanceService struct {
	attendance attendanceRepository
	schedules  attendanceScheduleRepository
	profiles   attendanceProfileRepository
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(attendance attendanceRepository, schedules attendanceScheduleRepository, profiles attendanceProfileRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		attendance: attendance,
		schedules:  schedules,
		profiles:   profiles,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
}

// StudentsForSchedule lists the class members behind one lesson with their
// status on the given date.
func (s *AttendanceService) StudentsForSchedule(ctx context.Context, scheduleID int64, date *time.Time) ([]models.StudentForAttendance, error) {
	if _, err := s.schedules.FindByID(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}

	day := s.now().UTC()
	if date != nil {
		day = *date
	}
	students, err := s.attendance.StudentsWithStatus(ctx, scheduleID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students for attendance")
	}
	return students, nil
}

// TodayLessons lists the calling teacher's lessons for the current weekday,
// each flagged with whether attendance was already recorded.
func (s *AttendanceService) TodayLessons(ctx context.Context, teacherAccountID string) ([]models.TodayLesson, error) {
	teacher, err := s.profiles.ByAccount(ctx, teacherAccountID, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	today := s.now().UTC()
	lessons, err := s.schedules.TodayLessonsForTeacher(ctx, teacher.ID, int(today.Weekday()), today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list today lessons")
	}
	return lessons, nil
}

// Save overwrites one lesson's attendance for one date. Submitting for the
// same date again replaces the previous records.
func (s *AttendanceService) Save(ctx context.Context, teacherAccountID string, scheduleID int64, req models.SaveAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if len(req.Entries) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "attendance entries are required")
	}
	for _, entry := range req.Entries {
		if !entry.Status.Valid() {
			return appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
		}
	}

	if _, err := s.schedules.FindByID(ctx, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}

	day := s.now().UTC()
	if req.Date != nil {
		day = *req.Date
	}
	if err := s.attendance.ReplaceForDate(ctx, scheduleID, day, req.Entries, teacherAccountID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to save attendance")
	}
	s.logger.Info("attendance saved",
		zap.Int64("schedule_id", scheduleID),
		zap.Int("entries", len(req.Entries)),
		zap.String("date", day.Format("2006-01-02")))
	return nil
}
